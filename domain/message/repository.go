package message

import "context"

type Repository interface {
	// Save inserts a message and assigns its id.
	Save(ctx context.Context, m *Message) error

	// Conversation returns the messages exchanged between a and b in either
	// direction, oldest first.
	Conversation(ctx context.Context, a, b uint64) ([]*Message, error)

	// MarkAsRead flags one message. Missing ids are a not-found error;
	// already-read messages are left as they are.
	MarkAsRead(ctx context.Context, id uint64) error

	// MarkConversationRead flags everything sender sent to receiver and reports how many changed.
	MarkConversationRead(ctx context.Context, receiverID, senderID uint64) (int64, error)

	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}
