package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erazemk/hranilka/internal/api"
	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/config"
	"github.com/erazemk/hranilka/internal/db"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/web"
	"github.com/erazemk/hranilka/internal/workflow"
)

// setupLogger builds a zap logger that routes INFO/WARN to stdout and
// ERROR+ to stderr. If logPath is non-empty, all levels are also written to
// that file. Returns a cleanup function that syncs and closes the log file.
func setupLogger(logPath string, level zapcore.Level) (*zap.Logger, func(), error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= level && l < zapcore.ErrorLevel })
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= level && l >= zapcore.ErrorLevel })

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), low),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), high),
	}

	cleanup := func() {}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(f), zap.NewAtomicLevelAt(level)))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger, cleanup, nil
}

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogger(cfg.LogPath, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	defer zap.ReplaceGlobals(logger)()
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, sugar); err != nil {
		sugar.Errorw("server error", "error", err)
		_ = logger.Sync()
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	database, err := db.Open()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	logger.Infow("in-memory store ready")

	secret := cfg.SessionSecret
	if secret == "" {
		if secret, err = generateSecret(); err != nil {
			return fmt.Errorf("generating session secret: %w", err)
		}
		logger.Infow("generated session secret; sessions end on restart")
	}

	gate := auth.NewGate(map[model.Role]auth.Secret{
		model.RoleCashier: auth.Secret(cfg.CashierPassword),
		model.RoleAdmin:   auth.Secret(cfg.AdminPassword),
		model.RoleCreator: auth.Secret(cfg.CreatorPassword),
	})
	lock := auth.NewLock(auth.Secret(cfg.ArchivePassword))
	qr := workflow.NewQRGenerator()
	capacity := map[model.Category]int{
		model.CategoryDocuments: cfg.DocumentsCapacity,
		model.CategoryPhotos:    cfg.PhotosCapacity,
	}

	apiRouter := api.NewRouter(database, api.Options{
		Secret:     secret,
		SessionTTL: cfg.SessionTTL,
		ArchiveTTL: cfg.ArchiveTTL,
		Gate:       gate,
		Lock:       lock,
		QR:         qr,
		Capacity:   capacity,
		Now:        time.Now,
	}, logger)
	webRouter, err := web.NewRouter(database, web.Options{
		Secret:     secret,
		SessionTTL: cfg.SessionTTL,
		ArchiveTTL: cfg.ArchiveTTL,
		Gate:       gate,
		Lock:       lock,
		QR:         qr,
		Capacity:   capacity,
		Now:        time.Now,
	}, logger)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, web routes handle the rest.
	root := chi.NewRouter()
	root.Use(middleware.RequestID)
	root.Use(api.LoggingMiddleware(logger))
	root.Use(middleware.Recoverer)
	root.Mount("/api", apiRouter)
	root.Mount("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Infow("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("server forced to shutdown", "error", err)
		}
	}()

	logger.Infow("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Infow("server stopped, discarding in-memory store")
	return nil
}

// generateSecret creates a random token signing secret.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
