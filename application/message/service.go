/*
Package message handles direct messages between buyers and producers.
*/
package message

import (
	"context"
	"time"

	"campodigital/domain/message"
)

type ApplicationService struct {
	messageRepo message.Repository
}

func NewApplicationService(messageRepo message.Repository) *ApplicationService {
	return &ApplicationService{messageRepo: messageRepo}
}

type MessageResponse struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Body       string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Send stores an unread message and returns its id.
func (s *ApplicationService) Send(ctx context.Context, senderID, receiverID uint64, body string) (uint64, error) {
	m, err := message.NewMessage(senderID, receiverID, body)
	if err != nil {
		return 0, err
	}
	if err := s.messageRepo.Save(ctx, m); err != nil {
		return 0, err
	}
	return m.ID(), nil
}

// Conversation returns both directions between a and b, oldest first.
func (s *ApplicationService) Conversation(ctx context.Context, a, b uint64) ([]MessageResponse, error) {
	msgs, err := s.messageRepo.Conversation(ctx, a, b)
	if err != nil {
		return nil, err
	}
	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = MessageResponse{
			ID:         m.ID(),
			SenderID:   m.SenderID(),
			ReceiverID: m.ReceiverID(),
			Body:       m.Body(),
			IsRead:     m.IsRead(),
			CreatedAt:  m.CreatedAt(),
		}
	}
	return out, nil
}

func (s *ApplicationService) MarkAsRead(ctx context.Context, messageID uint64) error {
	return s.messageRepo.MarkAsRead(ctx, messageID)
}

// MarkConversationRead flags everything sender sent to receiver and reports how many changed.
func (s *ApplicationService) MarkConversationRead(ctx context.Context, receiverID, senderID uint64) (int64, error) {
	return s.messageRepo.MarkConversationRead(ctx, receiverID, senderID)
}

// UnreadCount is 0 for users without unread messages.
func (s *ApplicationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}
