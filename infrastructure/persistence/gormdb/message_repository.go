package gormdb

import (
	"context"
	"strconv"

	"campodigital/domain/message"
	"campodigital/domain/shared"
	"campodigital/infrastructure/persistence/gormdb/po"

	"gorm.io/gorm"
)

type MessageRepository struct {
	session *Session
}

func NewMessageRepository(session *Session) *MessageRepository {
	return &MessageRepository{session: session}
}

func (r *MessageRepository) Save(ctx context.Context, m *message.Message) error {
	messagePO := po.FromMessageDomain(m)
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		for _, id := range []uint64{m.SenderID(), m.ReceiverID()} {
			ok, err := rowExists(db, &po.UserPO{}, id)
			if err != nil {
				return err
			}
			if !ok {
				return shared.NewNotFoundError("user " + strconv.FormatUint(id, 10))
			}
		}
		return db.Create(messagePO).Error
	})
	if err != nil {
		return translateError("message.save", err)
	}
	m.AssignID(messagePO.ID)
	return nil
}

func (r *MessageRepository) Conversation(ctx context.Context, a, b uint64) ([]*message.Message, error) {
	var messagePOs []po.MessagePO
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
			Order("created_at ASC").
			Order("id ASC").
			Find(&messagePOs).Error
	})
	if err != nil {
		return nil, translateError("message.conversation", err)
	}
	messages := make([]*message.Message, len(messagePOs))
	for i := range messagePOs {
		messages[i] = messagePOs[i].ToDomain()
	}
	return messages, nil
}

func (r *MessageRepository) MarkAsRead(ctx context.Context, id uint64) error {
	res, err := r.session.Exec(ctx, "UPDATE messages SET is_read = ? WHERE id = ?", true, id)
	if err != nil {
		return err
	}
	if res.RowsAffected > 0 {
		return nil
	}
	row, err := r.session.FetchOne(ctx, "SELECT id FROM messages WHERE id = ?", id)
	if err != nil {
		return err
	}
	if row == nil {
		return message.NewMessageNotFoundError(id)
	}
	return nil
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, receiverID, senderID uint64) (int64, error) {
	var n int64
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		result := db.Model(&po.MessagePO{}).
			Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
			Update("is_read", true)
		n = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, translateError("message.mark_read", err)
	}
	return n, nil
}

func (r *MessageRepository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&po.MessagePO{}).
			Where("receiver_id = ? AND is_read = ?", userID, false).
			Count(&n).Error
	})
	if err != nil {
		return 0, translateError("message.unread", err)
	}
	return n, nil
}

var _ message.Repository = (*MessageRepository)(nil)
