package po

import (
	"encoding/json"
	"time"

	"campodigital/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO is a domain event waiting to be relayed.
type OutboxEventPO struct {
	ID            string    `gorm:"primaryKey;size:64"`
	AggregateType string    `gorm:"size:50;not null"`
	AggregateID   uint64    `gorm:"index;not null"`
	EventType     string    `gorm:"size:100;index;not null"` // e.g. "order.placed"
	Payload       string    `gorm:"type:text;not null"`      // JSON
	Status        string    `gorm:"size:20;index;not null;default:PENDING"`
	RetryCount    int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent serializes an event into a pending outbox row.
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := serializeEventToJSON(event)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &OutboxEventPO{
		ID:            uuid.New().String(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.EventName(),
		Payload:       payload,
		Status:        string(EventStatusPending),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func serializeEventToJSON(event shared.DomainEvent) (string, error) {
	eventData := map[string]any{
		"event_name":     event.EventName(),
		"aggregate_type": event.AggregateType(),
		"aggregate_id":   event.AggregateID(),
		"occurred_on":    event.OccurredOn(),
	}
	if attrs, ok := event.(interface{ Attributes() map[string]any }); ok {
		for k, v := range attrs.Attributes() {
			if _, reserved := eventData[k]; !reserved {
				eventData[k] = v
			}
		}
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToEventData decodes the payload.
func (po *OutboxEventPO) ToEventData() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
