package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/workflow"
)

// Options configures the API handlers.
type Options struct {
	Secret     string
	SessionTTL time.Duration
	ArchiveTTL time.Duration
	Gate       *auth.Gate
	Lock       *auth.Lock
	QR         *workflow.QRGenerator
	Capacity   map[model.Category]int
	Now        func() time.Time
}

// NewRouter creates the API router. Routes are relative; mount it under /api.
func NewRouter(db *sqlx.DB, opts Options, logger *zap.SugaredLogger) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sessionHandler := &SessionHandler{DB: db, Gate: opts.Gate, Secret: opts.Secret, TTL: opts.SessionTTL, Logger: logger}
	itemsHandler := &ItemsHandler{DB: db, QR: opts.QR, Now: opts.Now, Capacity: opts.Capacity, Logger: logger}
	pickupHandler := &PickupHandler{DB: db, Now: opts.Now, Logger: logger}
	archiveHandler := &ArchiveHandler{DB: db, Lock: opts.Lock, Secret: opts.Secret, TTL: opts.ArchiveTTL, Logger: logger}

	r := chi.NewRouter()

	// Public: login.
	r.Post("/session", sessionHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.Secret, db, logger))

		r.Delete("/session", sessionHandler.Logout)

		r.Get("/dashboard", itemsHandler.Dashboard)
		r.Get("/items", itemsHandler.List)

		// Intake: admin and creator.
		r.With(RequireIntake).Post("/qr", itemsHandler.GenerateQR)
		r.With(RequireIntake).Post("/items", itemsHandler.Create)

		// Pickup: all roles.
		r.Get("/pickup/{qr}", pickupHandler.Find)
		r.Post("/pickup/{qr}", pickupHandler.Confirm)

		// Archive: separate password, no writes.
		r.Post("/archive/unlock", archiveHandler.Unlock)
		r.With(RequireArchiveToken(opts.Secret)).Get("/archive", archiveHandler.List)
	})

	return r
}
