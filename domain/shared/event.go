package shared

import (
	"fmt"
	"time"
)

type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	AggregateType() string
	AggregateID() uint64
}

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.AggregateID() == 0 {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}

// Event is the concrete DomainEvent recorded by aggregates. Attributes are
// serialized into the outbox payload.
type Event struct {
	name          string
	aggregateType string
	aggregateID   uint64
	occurredOn    time.Time
	attributes    map[string]any
}

func NewEvent(name, aggregateType string, aggregateID uint64, attributes map[string]any) *Event {
	if attributes == nil {
		attributes = map[string]any{}
	}
	return &Event{
		name:          name,
		aggregateType: aggregateType,
		aggregateID:   aggregateID,
		occurredOn:    time.Now().UTC(),
		attributes:    attributes,
	}
}

func (e *Event) EventName() string          { return e.name }
func (e *Event) OccurredOn() time.Time      { return e.occurredOn }
func (e *Event) AggregateType() string      { return e.aggregateType }
func (e *Event) AggregateID() uint64        { return e.aggregateID }
func (e *Event) Attributes() map[string]any { return e.attributes }

// BindAggregate fills in the aggregate id of events recorded before the first insert.
func (e *Event) BindAggregate(id uint64) {
	if e.aggregateID == 0 {
		e.aggregateID = id
	}
}

// PullEvents drains events, binding any unbound ones to id.
func PullEvents(events *[]DomainEvent, id uint64) []DomainEvent {
	out := *events
	*events = nil
	for _, ev := range out {
		if b, ok := ev.(interface{ BindAggregate(uint64) }); ok {
			b.BindAggregate(id)
		}
	}
	return out
}
