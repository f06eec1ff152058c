package shared

// AggregateRoot is the consistency boundary a unit of work persists and
// collects events from. IDs are store-assigned surrogate keys; zero means
// not yet persisted.
type AggregateRoot interface {
	ID() uint64

	// PullEvents returns the recorded events and clears them.
	PullEvents() []DomainEvent
}

// Entity is anything identified by a surrogate key.
type Entity interface {
	ID() uint64
}
