package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campodigital/domain/shared"
	"campodigital/infrastructure/persistence/gormdb/po"

	"gorm.io/gorm"
)

// OutboxRepository stores domain events next to the state change that produced them.
type OutboxRepository struct {
	session *Session
}

func NewOutboxRepository(session *Session) *OutboxRepository {
	return &OutboxRepository{session: session}
}

// SaveEvent writes event as PENDING. Inside a unit of work it uses the
// context's transaction; standalone it opens its own.
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}
	outboxPO, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}
	return r.session.Transaction(ctx, func(ctx context.Context) error {
		if err := r.session.DB(ctx).Create(outboxPO).Error; err != nil {
			return translateError("outbox.save", err)
		}
		return nil
	})
}

// GetPendingEvents returns up to limit pending events, oldest first.
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Where("status = ?", string(po.EventStatusPending)).
			Order("created_at ASC").
			Limit(limit).
			Find(&events).Error
	})
	if err != nil {
		return nil, translateError("outbox.pending", err)
	}
	return events, nil
}

// MarkEventProcessing claims a pending event. It fails when another relay got there first.
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, po.EventStatusPending, map[string]any{
		"status":     string(po.EventStatusProcessing),
		"updated_at": time.Now().UTC(),
	})
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, po.EventStatusProcessing, map[string]any{
		"status":     string(po.EventStatusPublished),
		"updated_at": time.Now().UTC(),
	})
}

// MarkEventFailed counts a failed attempt. The event goes back to PENDING
// until maxRetries attempts have failed, then stays FAILED.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) (po.EventStatus, error) {
	var status po.EventStatus
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		var event po.OutboxEventPO
		if err := db.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("outbox event")
			}
			return err
		}

		newRetryCount := event.RetryCount + 1
		status = po.EventStatusFailed
		if newRetryCount < maxRetries {
			status = po.EventStatusPending
		}
		return db.Model(&po.OutboxEventPO{}).
			Where("id = ?", eventID).
			Updates(map[string]any{
				"status":      string(status),
				"retry_count": newRetryCount,
				"updated_at":  time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return "", translateError("outbox.failed", err)
	}
	return status, nil
}

// ReclaimStale returns PROCESSING events whose claim is older than lease to
// PENDING, so a relay that died mid-publish does not strand them.
func (r *OutboxRepository) ReclaimStale(ctx context.Context, lease time.Duration) (int64, error) {
	now := time.Now().UTC()
	var rows int64
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		result := db.Model(&po.OutboxEventPO{}).
			Where("status = ? AND updated_at < ?", string(po.EventStatusProcessing), now.Add(-lease)).
			Updates(map[string]any{
				"status":     string(po.EventStatusPending),
				"updated_at": now,
			})
		rows = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, translateError("outbox.reclaim", err)
	}
	return rows, nil
}

// CountByStatus reports how many events are in status.
func (r *OutboxRepository) CountByStatus(ctx context.Context, status po.EventStatus) (int64, error) {
	var n int64
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&po.OutboxEventPO{}).Where("status = ?", string(status)).Count(&n).Error
	})
	return n, translateError("outbox.count", err)
}

func (r *OutboxRepository) transition(ctx context.Context, eventID string, from po.EventStatus, updates map[string]any) error {
	var rows int64
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		result := db.Model(&po.OutboxEventPO{}).
			Where("id = ? AND status = ?", eventID, string(from)).
			Updates(updates)
		rows = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return translateError("outbox.transition", err)
	}
	if rows == 0 {
		return shared.NewConflictError("outbox event", fmt.Sprintf("event %s is not %s", eventID, from))
	}
	return nil
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
