package web

import (
	"net/http"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

type archivePage struct {
	PageData
	Unlocked bool
	// Token keeps this page unlocked across filter changes.
	Token    string
	Category model.Category
	Counts   model.Counts
	Items    []model.Item
}

// ArchivePage handles GET /archive. The archive is always locked when
// opened.
func (s *Server) ArchivePage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "archive.html", &archivePage{PageData: s.page(w, r, "Архив")})
}

// ArchiveSubmit handles POST /archive: either an unlock attempt with a
// password, or a filter change carrying the unlock token.
func (s *Server) ArchiveSubmit(w http.ResponseWriter, r *http.Request) {
	data := &archivePage{PageData: s.page(w, r, "Архив")}
	session := GetWebSession(r.Context())

	token := r.FormValue("token")
	switch {
	case token != "":
		if err := auth.ValidateArchiveToken(s.Secret, token); err != nil {
			data.Flash = errorFlash("Доступ к архиву истек, введите пароль")
			s.Templates.Render(w, "archive.html", data)
			return
		}
	default:
		password := r.FormValue("password")
		if password == "" {
			data.Flash = errorFlash("Введите пароль")
			s.Templates.Render(w, "archive.html", data)
			return
		}
		if !s.Lock.Unlock(password) {
			s.Logger.Warnw("archive unlock failed", "name", session.Name)
			data.Flash = errorFlash("Неверный пароль")
			s.Templates.Render(w, "archive.html", data)
			return
		}

		var err error
		token, err = auth.GenerateArchiveToken(s.Secret, s.ArchiveTTL)
		if err != nil {
			s.Logger.Errorw("failed to generate archive token", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.Logger.Infow("archive unlocked", "name", session.Name)
		data.Flash = successFlash("Архив разблокирован")
	}

	archived, err := store.ListItems(r.Context(), s.DB, store.ItemFilter{Status: model.StatusArchived})
	if err != nil {
		s.Logger.Errorw("failed to list archived items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data.Unlocked = true
	data.Token = token
	data.Counts = model.Tally(archived)
	data.Items = archived
	if c, ok := model.ParseCategory(r.FormValue("category")); ok {
		data.Category = c
		data.Items = model.FilterItems(archived, model.InCategory(c))
	}

	s.Templates.Render(w, "archive.html", data)
}
