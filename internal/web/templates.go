package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/format"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/workflow"
	webembed "github.com/erazemk/hranilka/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
	logger    *zap.SugaredLogger
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":      format.Money,
		"charge":     format.Charge,
		"date":       format.Date,
		"day":        format.Day,
		"datetime":   format.DateTime,
		"categories": func() []model.Category { return model.Categories },
		"qrURL": func(value string, size int) string {
			q := url.Values{}
			q.Set("value", value)
			q.Set("size", strconv.Itoa(size))
			return "/qr?" + q.Encode()
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(logger *zap.SugaredLogger) (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"dashboard.html",
		"intake.html",
		"receipt.html",
		"pickup.html",
		"archive.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template), logger: logger}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		ts.logger.Errorw("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Session *auth.Session
	Flash   *Flash
}

// Options configures the page handlers.
type Options struct {
	Secret     string
	SessionTTL time.Duration
	ArchiveTTL time.Duration
	Gate       *auth.Gate
	Lock       *auth.Lock
	QR         *workflow.QRGenerator
	// Capacity is the number of slots per department. Categories without
	// an entry have no limit.
	Capacity map[model.Category]int
	Now      func() time.Time
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sqlx.DB
	Templates *Templates
	Logger    *zap.SugaredLogger
	Options
}

// page builds the base page data for an authenticated request and pops any
// pending flash notice.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	return PageData{
		Title:   title,
		Session: GetWebSession(r.Context()),
		Flash:   popFlash(w, r),
	}
}
