package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"campodigital/config"
	"campodigital/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNilLoggerSafety(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })
	log = nil

	assert.NotPanics(t, func() {
		Debug("test debug")
		Info("test info")
		Warn("test warn")
		Error("test error")
		With(zap.String("key", "value")).Info("test with")
		WithRequestID("test-id").Info("test with request id")
		WithContext(map[string]any{"test": "value"}).Info("test with context")
		FromContext(context.Background()).Info("test from context")
	})
	assert.NotNil(t, Get())
	assert.NoError(t, Sync())
}

func TestDynamicLogLevel(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })
	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))

	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))
	UpdateLevel("warn")
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
	UpdateLevel("debug")
}

func TestFileOutput(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })
	path := filepath.Join(t.TempDir(), "logs", "campo.log")

	require.NoError(t, Init(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}, "production"))

	Info("file logger initialized")
	for i := 0; i < 10; i++ {
		Info("log entry", zap.Int("entry", i))
	}
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"file logger initialized"`)
}

func TestFromContextAddsRequestID(t *testing.T) {
	logs := observe(t)
	ctx := persistence.ContextWithRequestID(context.Background(), "abc")
	FromContext(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestBothOutputsWriteTheFile(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })
	path := filepath.Join(t.TempDir(), "campo.log")

	require.NoError(t, Init(&config.LogConfig{Level: "info", Format: "json", Output: "both", FilePath: path}, "production"))
	Info("teed", zap.String("order_id", "7"))
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_id":"7"`)
}

func TestEncoderSelection(t *testing.T) {
	assert.IsType(t, zapcore.NewJSONEncoder(zapcore.EncoderConfig{}), newEncoder("", "production"))
	assert.IsType(t, zapcore.NewConsoleEncoder(zapcore.EncoderConfig{}), newEncoder("", "development"))
	assert.IsType(t, zapcore.NewJSONEncoder(zapcore.EncoderConfig{}), newEncoder("json", "development"))
}
