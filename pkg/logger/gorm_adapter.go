package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campodigital/infrastructure/persistence"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type GormLoggerConfig struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
	AddCaller                 bool
}

func DefaultGormLoggerConfig() *GormLoggerConfig {
	return &GormLoggerConfig{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		AddCaller:                 true,
	}
}

// ParseGormLevel maps database.log_level onto GORM's levels. Unknown values mean warn.
func ParseGormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// GormLoggerAdapter routes GORM traces through the global zap logger.
type GormLoggerAdapter struct {
	logLevel logger.LogLevel
	logger   *zap.Logger
	config   *GormLoggerConfig
}

func NewGormLoggerAdapter(logLevel logger.LogLevel) *GormLoggerAdapter {
	return NewGormLoggerAdapterWithConfig(logLevel, DefaultGormLoggerConfig())
}

func NewGormLoggerAdapterWithConfig(logLevel logger.LogLevel, config *GormLoggerConfig) *GormLoggerAdapter {
	if config == nil {
		config = DefaultGormLoggerConfig()
	}
	return &GormLoggerAdapter{
		logLevel: logLevel,
		logger:   Get().Named("gorm"),
		config:   config,
	}
}

func (l *GormLoggerAdapter) LogMode(logLevel logger.LogLevel) logger.Interface {
	return &GormLoggerAdapter{logLevel: logLevel, logger: l.logger, config: l.config}
}

func (l *GormLoggerAdapter) loggerFor(ctx context.Context) *zap.Logger {
	out := l.logger
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		out = out.With(zap.String("request_id", requestID))
	}
	if persistence.TxFromContext(ctx) != nil {
		out = out.With(zap.Bool("in_tx", true))
	}
	if l.config.AddCaller {
		out = out.WithOptions(zap.AddCaller())
	}
	return out
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Info {
		l.loggerFor(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.loggerFor(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Error {
		l.loggerFor(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.logLevel >= logger.Error:
		if errors.Is(err, logger.ErrRecordNotFound) && l.config.IgnoreRecordNotFoundError {
			return
		}
		sql, rows := fc()
		l.loggerFor(ctx).Error("Database operation failed",
			zap.String("sql", sql), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.Error(err))
	case l.config.SlowThreshold != 0 && elapsed > l.config.SlowThreshold && l.logLevel >= logger.Warn:
		sql, rows := fc()
		l.loggerFor(ctx).Warn("Slow SQL query",
			zap.String("sql", sql), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows),
			zap.Duration("threshold", l.config.SlowThreshold))
	case l.logLevel >= logger.Info:
		sql, rows := fc()
		l.loggerFor(ctx).Debug("SQL query executed",
			zap.String("sql", sql), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows))
	}
}
