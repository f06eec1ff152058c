package shared

import "context"

// UnitOfWork runs fn inside one transaction. Aggregates registered during fn
// have their events written to the outbox before commit.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out a fresh unit per high-level operation.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
