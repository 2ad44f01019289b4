// Package config loads server settings from a .env file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr     string `env:"HRANILKA_ADDR" envDefault:":8080"`
	LogPath  string `env:"HRANILKA_LOG"`
	LogLevel string `env:"HRANILKA_LOG_LEVEL" envDefault:"info"`

	CashierPassword string `env:"HRANILKA_CASHIER_PASSWORD" envDefault:"25"`
	AdminPassword   string `env:"HRANILKA_ADMIN_PASSWORD" envDefault:"2025"`
	CreatorPassword string `env:"HRANILKA_CREATOR_PASSWORD" envDefault:"202505"`
	ArchivePassword string `env:"HRANILKA_ARCHIVE_PASSWORD" envDefault:"202505"`

	// SessionSecret signs session and archive tokens. Empty means a random
	// secret is generated on every start.
	SessionSecret string        `env:"HRANILKA_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"HRANILKA_SESSION_TTL" envDefault:"12h"`
	ArchiveTTL    time.Duration `env:"HRANILKA_ARCHIVE_TTL" envDefault:"15m"`

	DocumentsCapacity int `env:"HRANILKA_DOCUMENTS_CAPACITY" envDefault:"100"`
	PhotosCapacity    int `env:"HRANILKA_PHOTOS_CAPACITY" envDefault:"100"`
}

// Load reads .env (if present), then the environment, then args. It
// returns pflag.ErrHelp when help was requested; usage has then already
// been written to out.
func Load(args []string, out io.Writer) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	fs := pflag.NewFlagSet("hranilka", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "listen address")
	fs.StringVarP(&cfg.LogPath, "log", "l", cfg.LogPath, "also write logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "minimum log level (debug, info, warn, error)")
	fs.StringVar(&cfg.CashierPassword, "cashier-password", cfg.CashierPassword, "cashier role password (plain or bcrypt)")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "admin role password (plain or bcrypt)")
	fs.StringVar(&cfg.CreatorPassword, "creator-password", cfg.CreatorPassword, "creator role password (plain or bcrypt)")
	fs.StringVar(&cfg.ArchivePassword, "archive-password", cfg.ArchivePassword, "archive unlock password (plain or bcrypt)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "token signing secret (default: random per start)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session lifetime")
	fs.DurationVar(&cfg.ArchiveTTL, "archive-ttl", cfg.ArchiveTTL, "archive unlock lifetime")
	fs.IntVar(&cfg.DocumentsCapacity, "documents-capacity", cfg.DocumentsCapacity, "slots in the documents department")
	fs.IntVar(&cfg.PhotosCapacity, "photos-capacity", cfg.PhotosCapacity, "slots in the photos department")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	var errs []error

	passwords := map[string]string{
		"cashier": c.CashierPassword,
		"admin":   c.AdminPassword,
		"creator": c.CreatorPassword,
	}
	seen := make(map[string]string, len(passwords))
	for _, role := range []string{"cashier", "admin", "creator"} {
		pw := passwords[role]
		if pw == "" {
			errs = append(errs, fmt.Errorf("%s password must not be empty", role))
			continue
		}
		if other, ok := seen[pw]; ok {
			errs = append(errs, fmt.Errorf("%s and %s passwords must differ", other, role))
			continue
		}
		seen[pw] = role
	}

	if c.ArchivePassword == "" {
		errs = append(errs, errors.New("archive password must not be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.ArchiveTTL <= 0 {
		errs = append(errs, errors.New("archive ttl must be positive"))
	}
	if c.DocumentsCapacity <= 0 || c.PhotosCapacity <= 0 {
		errs = append(errs, errors.New("department capacities must be positive"))
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	return errors.Join(errs...)
}

// Level returns the configured minimum log level.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
