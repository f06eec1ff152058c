/*
Package message models direct messages between users.
*/
package message

import (
	"fmt"
	"strings"
	"time"

	"campodigital/domain/shared"
)

var (
	ErrEmptyBody    = fmt.Errorf("message body cannot be empty: %w", shared.ErrInvalidInput)
	ErrInvalidParty = fmt.Errorf("sender and receiver are required: %w", shared.ErrInvalidInput)
)

type Message struct {
	id         uint64
	senderID   uint64
	receiverID uint64
	body       string
	read       bool
	createdAt  time.Time
}

// NewMessage builds an unread message.
func NewMessage(senderID, receiverID uint64, body string) (*Message, error) {
	if senderID == 0 || receiverID == 0 {
		return nil, ErrInvalidParty
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	return &Message{
		senderID:   senderID,
		receiverID: receiverID,
		body:       body,
		createdAt:  time.Now().UTC(),
	}, nil
}

func (m *Message) ID() uint64           { return m.id }
func (m *Message) SenderID() uint64     { return m.senderID }
func (m *Message) ReceiverID() uint64   { return m.receiverID }
func (m *Message) Body() string         { return m.body }
func (m *Message) IsRead() bool         { return m.read }
func (m *Message) CreatedAt() time.Time { return m.createdAt }
func (m *Message) AssignID(id uint64)   { m.id = id }

type ReconstructionDTO struct {
	ID         uint64
	SenderID   uint64
	ReceiverID uint64
	Body       string
	IsRead     bool
	CreatedAt  time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Message {
	return &Message{
		id:         dto.ID,
		senderID:   dto.SenderID,
		receiverID: dto.ReceiverID,
		body:       dto.Body,
		read:       dto.IsRead,
		createdAt:  dto.CreatedAt,
	}
}

func NewMessageNotFoundError(id uint64) error {
	return &shared.DomainError{
		Err:     shared.ErrNotFound,
		Entity:  "message",
		Message: fmt.Sprintf("message not found: %d", id),
	}
}
