package gormdb

import (
	"context"
	"fmt"
	"time"

	"campodigital/infrastructure/persistence/gormdb/po"
	"campodigital/pkg/logger"
	"campodigital/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// OutboxPublisher delivers one serialized event to the outside world.
type OutboxPublisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// LoggingOutboxPublisher writes events to the log. It is the default sink
// until a broker is configured.
type LoggingOutboxPublisher struct{}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventType, payload string) error {
	logger.FromContext(ctx).Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("payload", payload),
	)
	return nil
}

// DefaultProcessingLease is how long a claimed event may stay PROCESSING
// before another relay takes it back.
const DefaultProcessingLease = 5 * time.Minute

// OutboxWorkerConfig tunes the relay. PublishRate is events per second; zero
// or less disables throttling. ProcessingLease falls back to
// DefaultProcessingLease.
type OutboxWorkerConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	MaxRetries      int
	PublishRate     float64
	ProcessingLease time.Duration
}

type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    OutboxPublisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	lease        time.Duration
	limiter      *rate.Limiter
}

func NewOutboxWorker(repository *OutboxRepository, publisher OutboxPublisher, cfg OutboxWorkerConfig) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if cfg.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.PublishRate > 0 {
		burst := int(cfg.PublishRate)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.PublishRate), burst)
	}

	lease := cfg.ProcessingLease
	if lease <= 0 {
		lease = DefaultProcessingLease
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
		lease:        lease,
		limiter:      limiter,
	}, nil
}

// Run polls until ctx is done.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch relays one batch and reports how many events were published.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.OutboxBatchDuration.Observe(time.Since(start).Seconds()) }()

	reclaimed, err := w.repository.ReclaimStale(ctx, w.lease)
	if err != nil {
		return 0, err
	}
	if reclaimed > 0 {
		logger.FromContext(ctx).Warn("Reclaimed stale outbox events",
			zap.Int64("count", reclaimed),
			zap.Duration("lease", w.lease),
		)
	}

	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.limiter.Wait(ctx); err != nil {
			return published, err
		}
		if w.relay(ctx, event) {
			published++
		}
	}
	return published, nil
}

func (w *OutboxWorker) relay(ctx context.Context, event *po.OutboxEventPO) bool {
	log := logger.FromContext(ctx).With(zap.String("event_id", event.ID), zap.String("event_type", event.EventType))

	if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
		log.Warn("Skip outbox event due to lock contention", zap.Error(err))
		metrics.RecordOutboxEvent("skipped")
		return false
	}

	if err := w.publisher.Publish(ctx, event.EventType, event.Payload); err != nil {
		metrics.RecordOutboxEvent("failed")
		status, failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries)
		if failErr != nil {
			log.Error("Failed to mark outbox event as failed", zap.Error(failErr))
			return false
		}
		log.Warn("Outbox event publish failed",
			zap.String("next_status", string(status)),
			zap.Error(err),
		)
		return false
	}

	if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
		log.Error("Failed to mark outbox event as published", zap.Error(err))
		return false
	}
	metrics.RecordOutboxEvent("published")
	return true
}
