package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	webembed "github.com/erazemk/hranilka/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sqlx.DB, opts Options, logger *zap.SugaredLogger) (http.Handler, error) {
	templates, err := LoadTemplates(logger)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Logger:    logger,
		Options:   opts,
	}

	r := chi.NewRouter()

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	r.Get("/login", s.LoginPage)
	r.Post("/login", s.LoginSubmit)
	r.Post("/logout", s.Logout)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(CookieAuthMiddleware(opts.Secret, db, logger))

		r.Get("/", s.Dashboard)
		r.Get("/qr", s.QRImage)

		r.Get("/pickup", s.PickupPage)
		r.Post("/pickup", s.PickupSearch)
		r.Post("/pickup/confirm", s.PickupConfirm)

		r.Get("/archive", s.ArchivePage)
		r.Post("/archive", s.ArchiveSubmit)

		r.Group(func(r chi.Router) {
			r.Use(RequireIntake)
			r.Get("/intake", s.IntakePage)
			r.Post("/intake", s.IntakeSubmit)
			r.Get("/intake/{id}/receipt", s.ReceiptPage)
		})
	})

	return r, nil
}
