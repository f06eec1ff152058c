package gormdb

import (
	"context"
	"fmt"
	"time"

	"campodigital/config"
	apperrors "campodigital/pkg/errors"
	"campodigital/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// Config is the subset of database settings the session needs.
type Config struct {
	config.DatabaseConfig
}

func NewConfig(dc config.DatabaseConfig) *Config {
	return &Config{DatabaseConfig: dc}
}

func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		if c.Path == "" {
			return ":memory:"
		}
		return c.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s&clientFoundRows=true",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL, "":
		return mysql.Open(c.DSN()), nil
	case DriverSQLite:
		return sqlite.Open(c.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
	// every :memory: connection opens its own database
	if c.Driver == DriverSQLite && c.DSN() == ":memory:" {
		c.MaxOpenConns = 1
		c.MaxIdleConns = 1
		c.ConnMaxLifetime = 0
		c.ConnMaxIdleTime = 0
	}
}

// Connect opens a pooled session and pings it. Unreachable hosts, bad
// credentials and unknown schemas are reported as connection errors.
func Connect(ctx context.Context, dc config.DatabaseConfig) (*Session, error) {
	c := NewConfig(dc)
	c.applyDefaults()

	dialector, err := c.dialector()
	if err != nil {
		return nil, apperrors.ConnectionError(err, "invalid database configuration")
	}
	gormConfig := &gorm.Config{
		Logger:         logger.NewGormLoggerAdapter(logger.ParseGormLevel(c.LogLevel)),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, apperrors.ConnectionError(err, "failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.ConnectionError(err, "failed to get underlying sql.DB")
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	pingCtx := ctx
	if c.StatementTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, c.StatementTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.ConnectionError(err, "database unreachable")
	}
	if err := registerMetrics(db); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.ConnectionError(err, "failed to register metrics callbacks")
	}

	logger.Info("Database connected",
		zap.String("driver", c.Driver),
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", c.MaxIdleConns),
		zap.Duration("conn_max_lifetime", c.ConnMaxLifetime),
	)

	return NewSession(db, c.StatementTimeout), nil
}
