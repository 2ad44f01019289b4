package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "25", cfg.CashierPassword)
	assert.Equal(t, "2025", cfg.AdminPassword)
	assert.Equal(t, "202505", cfg.CreatorPassword)
	assert.Equal(t, "202505", cfg.ArchivePassword)
	assert.Empty(t, cfg.SessionSecret)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.ArchiveTTL)
	assert.Equal(t, 100, cfg.DocumentsCapacity)
	assert.Equal(t, 100, cfg.PhotosCapacity)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("HRANILKA_ADDR", ":9090")
	t.Setenv("HRANILKA_ADMIN_PASSWORD", "secret")
	t.Setenv("HRANILKA_ARCHIVE_TTL", "1m")
	t.Setenv("HRANILKA_LOG_LEVEL", "debug")

	cfg, err := Load(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "secret", cfg.AdminPassword)
	assert.Equal(t, time.Minute, cfg.ArchiveTTL)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("HRANILKA_ADDR", ":9090")

	cfg, err := Load([]string{"-a", ":7070", "--photos-capacity", "50", "--session-ttl", "1h"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 50, cfg.PhotosCapacity)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoadHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := Load([]string{"--help"}, &out)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, out.String(), "--archive-password")
}

func TestLoadRejectsStrayArgument(t *testing.T) {
	_, err := Load([]string{"serve"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unexpected argument")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LogLevel:          "info",
			CashierPassword:   "25",
			AdminPassword:     "2025",
			CreatorPassword:   "202505",
			ArchivePassword:   "202505",
			SessionTTL:        time.Hour,
			ArchiveTTL:        time.Minute,
			DocumentsCapacity: 100,
			PhotosCapacity:    100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty cashier", func(c *Config) { c.CashierPassword = "" }, "cashier password must not be empty"},
		{"shared role password", func(c *Config) { c.CreatorPassword = "2025" }, "admin and creator passwords must differ"},
		{"empty archive", func(c *Config) { c.ArchivePassword = "" }, "archive password"},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, "session ttl"},
		{"negative archive ttl", func(c *Config) { c.ArchiveTTL = -time.Second }, "archive ttl"},
		{"zero capacity", func(c *Config) { c.DocumentsCapacity = 0 }, "capacities"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
