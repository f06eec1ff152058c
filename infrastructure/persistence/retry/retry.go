package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"campodigital/config"
	"campodigital/domain/shared"
	apperrors "campodigital/pkg/errors"
	"campodigital/pkg/logger"
	"campodigital/pkg/metrics"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	Enabled                       bool
	MaxAttempts                   int
	InitialDelay                  time.Duration
	MaxDelay                      time.Duration
	BackoffFactor                 float64
	JitterEnabled                 bool
	RetryOnConcurrentModification bool
	RetryOnDeadlock               bool
	RetryOnLockTimeout            bool
	RetryOnTimeout                bool
	RetryPredicate                func(error) bool
}

var DefaultConfig = Config{
	Enabled:                       true,
	MaxAttempts:                   3,
	InitialDelay:                  100 * time.Millisecond,
	MaxDelay:                      2 * time.Second,
	BackoffFactor:                 2.0,
	JitterEnabled:                 true,
	RetryOnConcurrentModification: true,
	RetryOnDeadlock:               true,
	RetryOnLockTimeout:            true,
	RetryOnTimeout:                true,
}

// Disabled runs the operation exactly once.
var Disabled = Config{Enabled: false, MaxAttempts: 1}

func FromAppConfig(appConfig *config.Config) Config {
	return FromRetryConfig(appConfig.Database.Retry)
}

func FromRetryConfig(rc config.RetryConfig) Config {
	return Config{
		Enabled:                       rc.Enabled,
		MaxAttempts:                   rc.MaxAttempts,
		InitialDelay:                  rc.InitialDelay,
		MaxDelay:                      rc.MaxDelay,
		BackoffFactor:                 rc.BackoffFactor,
		JitterEnabled:                 rc.JitterEnabled,
		RetryOnConcurrentModification: rc.RetryOnConcurrentModification,
		RetryOnDeadlock:               rc.RetryOnDeadlock,
		RetryOnLockTimeout:            rc.RetryOnLockTimeout,
		RetryOnTimeout:                rc.RetryOnTimeout,
	}
}

// ExponentialBackoffWithJitter returns the wait before attempt+1.
// Jitter scales the delay by a factor in [0.8, 1.2).
func ExponentialBackoffWithJitter(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	factor := config.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := float64(config.InitialDelay) * math.Pow(factor, float64(attempt-1))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		jitterFactor := 0.8 + rand.Float64()*0.4
		delay = delay * jitterFactor
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

func IsRetryableError(err error, config Config) bool {
	if err == nil {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}
	// caller cancellation is never retried
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, shared.ErrConcurrentModification) {
		return config.RetryOnConcurrentModification
	}
	if apperrors.Is(err, apperrors.CodeTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return config.RetryOnTimeout
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return config.RetryOnDeadlock
		case 1205:
			return config.RetryOnLockTimeout
		}
	}
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "deadlock") {
		return config.RetryOnDeadlock
	}
	if strings.Contains(errStr, "lock wait timeout") || strings.Contains(errStr, "database is locked") {
		return config.RetryOnLockTimeout
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}
	if apperrors.IsRetryable(err) {
		return true
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost")) {
		return true
	}

	return false
}

// ExecuteWithRetry runs fn until it succeeds, fails with a non-retryable
// error, or MaxAttempts is reached. The last error is returned as is.
func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	var attempt int

	for attempt = 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			if lastErr != nil {
				return lastErr
			}
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryableError(err, config) || attempt == config.MaxAttempts {
			break
		}

		delay := ExponentialBackoffWithJitter(attempt, config)
		metrics.TransactionRetries.Inc()
		logger.FromContext(ctx).Warn("Retrying after transient failure",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", config.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			}
		}
	}

	return lastErr
}

func ExecuteWithAppConfig(ctx context.Context, appConfig *config.Config, fn func(ctx context.Context) error) error {
	return ExecuteWithRetry(ctx, FromAppConfig(appConfig), fn)
}
