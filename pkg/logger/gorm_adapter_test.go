package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"campodigital/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := log
	t.Cleanup(func() { log = original })

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)
	return logs
}

func TestGormLoggerAdapterLevels(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  logger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn level", logger.Warn, false, false},
		{"info level", logger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observe(t)
			adapter := NewGormLoggerAdapter(tc.logLevel)
			require.NotNil(t, adapter.LogMode(logger.Info))

			ctx := context.Background()
			adapter.Info(ctx, "test info message")
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM users", 1
			}, nil)

			assert.Equal(t, tc.wantInfo, logs.FilterMessage("test info message").Len() == 1)
			assert.Equal(t, 1, logs.FilterMessage("test warn message").Len())
			assert.Equal(t, 1, logs.FilterMessage("test error message").Len())

			traces := logs.FilterMessage("SQL query executed")
			assert.Equal(t, tc.wantTrace, traces.Len() == 1)
			if tc.wantTrace {
				assert.Equal(t, "SELECT * FROM users", traces.All()[0].ContextMap()["sql"])
			}
		})
	}
}

func TestGormLoggerAdapterSlowQueryCarriesRequestID(t *testing.T) {
	logs := observe(t)
	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})

	ctx := persistence.ContextWithRequestID(context.Background(), "test-request-123")
	adapter.Trace(ctx, time.Now().Add(-15*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM products", 3
	}, nil)

	slow := logs.FilterMessage("Slow SQL query").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "test-request-123", slow[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, slow[0].Level)
}

func TestGormLoggerAdapterErrors(t *testing.T) {
	logs := observe(t)
	adapter := NewGormLoggerAdapter(logger.Warn)
	ctx := context.Background()

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM users WHERE id = 999", 0
	}, logger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record-not-found is ignored by default")

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO orders", 0
	}, errors.New("boom"))
	failed := logs.FilterMessage("Database operation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].ContextMap()["error"])
}

func TestGormLoggerAdapterSilent(t *testing.T) {
	logs := observe(t)
	adapter := NewGormLoggerAdapter(logger.Silent)
	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Fatal("sql callback must not run when silent")
		return "", 0
	}, errors.New("ignored"))
	assert.Equal(t, 0, logs.Len())
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseGormLevel("silent"))
	assert.Equal(t, logger.Error, ParseGormLevel("ERROR"))
	assert.Equal(t, logger.Info, ParseGormLevel("info"))
	assert.Equal(t, logger.Warn, ParseGormLevel("whatever"))
}
