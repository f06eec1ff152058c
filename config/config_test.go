package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "campodigital", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, 15*time.Second, cfg.Database.TransactionTimeout)
	assert.Equal(t, 3, cfg.Database.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Database.Retry.InitialDelay)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 50, cfg.Worker.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Worker.ProcessingLease)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  env: production
database:
  driver: sqlite
  path: /tmp/campo.db
  statement_timeout: 2s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CAMPO_LOG_LEVEL", "error")
	t.Setenv("CAMPO_SECURITY_BCRYPT_COST", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/campo.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, "error", cfg.Log.Level, "env should win over file")
	assert.Equal(t, 4, cfg.Security.BcryptCost)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid mysql", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"mysql without host", func(c *Config) { c.Database.Host = "" }, true},
		{"sqlite without path", func(c *Config) { c.Database.Driver = "sqlite"; c.Database.Path = "" }, true},
		{"zero retry attempts", func(c *Config) { c.Database.Retry.MaxAttempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Database: DatabaseConfig{
				Driver:   "mysql",
				Host:     "localhost",
				Database: "campodigital",
				Retry:    RetryConfig{Enabled: true, MaxAttempts: 3},
			}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
