package gormdb

import (
	"context"
	"fmt"
	"time"

	"campodigital/domain/shared"
	"campodigital/infrastructure/persistence"
	"campodigital/infrastructure/persistence/retry"
	"campodigital/pkg/logger"
	"campodigital/pkg/metrics"

	"go.uber.org/zap"
)

// UnitOfWork runs business logic in one transaction and writes the events of
// registered aggregates to the outbox before commit. Not safe for concurrent
// use; take a fresh one from UnitOfWorkFactory per operation.
type UnitOfWork struct {
	session          *Session
	aggregates       []shared.AggregateRoot
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	txTimeout        time.Duration
}

func NewUnitOfWork(session *Session) *UnitOfWork {
	return &UnitOfWork{
		session:          session,
		outboxRepository: NewOutboxRepository(session),
		retryConfig:      retry.DefaultConfig,
	}
}

func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// SetTransactionTimeout bounds each attempt. Zero means no bound.
func (u *UnitOfWork) SetTransactionTimeout(d time.Duration) {
	u.txTimeout = d
}

// Execute begins a transaction, injects it into ctx and runs fn. Any error
// or panic rolls back; panics are re-raised after rollback. Retryable
// failures restart the whole attempt. When ctx already carries a
// transaction, fn joins it and the outer Execute commits.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		u.aggregates = nil
		if err := fn(ctx); err != nil {
			return err
		}
		return u.flushEvents(ctx)
	}

	ctx = persistence.EnsureRequestID(ctx)
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		return u.executeOnce(ctx, fn)
	})
}

func (u *UnitOfWork) executeOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = nil
	start := time.Now()

	if u.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.txTimeout)
		defer cancel()
	}

	tx := u.session.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		metrics.ObserveTransaction("rolled_back", start)
		return translateError("begin", tx.Error)
	}
	txCtx := persistence.ContextWithTx(ctx, tx)
	log := logger.FromContext(txCtx)

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			metrics.ObserveTransaction("panic", start)
			log.Error("Transaction rolled back after panic", zap.Any("panic", r))
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		tx.Rollback()
		metrics.ObserveTransaction("rolled_back", start)
		log.Debug("Transaction rolled back", zap.Error(err))
		return timeoutOr(ctx, "transaction", err)
	}

	if err := u.flushEvents(txCtx); err != nil {
		tx.Rollback()
		metrics.ObserveTransaction("rolled_back", start)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		metrics.ObserveTransaction("rolled_back", start)
		return translateError("commit", err)
	}
	metrics.ObserveTransaction("committed", start)
	return nil
}

func (u *UnitOfWork) flushEvents(ctx context.Context) error {
	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			if err := u.outboxRepository.SaveEvent(ctx, event); err != nil {
				return fmt.Errorf("failed to save event to outbox: %w", err)
			}
		}
	}
	u.aggregates = nil
	return nil
}

// timeoutOr reports a transaction that ran out of time as a timeout
// regardless of which statement noticed.
func timeoutOr(ctx context.Context, op string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return translateError(op, fmt.Errorf("%w: %v", context.DeadlineExceeded, err))
	}
	return err
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
