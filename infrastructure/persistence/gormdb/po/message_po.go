package po

import (
	"time"

	"campodigital/domain/message"
)

type MessagePO struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID   uint64    `gorm:"index;not null"`
	ReceiverID uint64    `gorm:"index:idx_messages_receiver_read;not null"`
	Message    string    `gorm:"type:text;not null"`
	IsRead     bool      `gorm:"index:idx_messages_receiver_read;not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (MessagePO) TableName() string {
	return "messages"
}

func FromMessageDomain(m *message.Message) *MessagePO {
	return &MessagePO{
		ID:         m.ID(),
		SenderID:   m.SenderID(),
		ReceiverID: m.ReceiverID(),
		Message:    m.Body(),
		IsRead:     m.IsRead(),
		CreatedAt:  m.CreatedAt(),
	}
}

func (po *MessagePO) ToDomain() *message.Message {
	return message.RebuildFromDTO(message.ReconstructionDTO{
		ID:         po.ID,
		SenderID:   po.SenderID,
		ReceiverID: po.ReceiverID,
		Body:       po.Message,
		IsRead:     po.IsRead,
		CreatedAt:  po.CreatedAt,
	})
}
