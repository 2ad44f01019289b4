package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/store"
)

// loginNotices maps login failures to what the operator sees.
var loginNotices = map[error]string{
	auth.ErrNameRequired:     "Введите имя",
	auth.ErrPasswordRequired: "Введите пароль",
	auth.ErrInvalidPassword:  "Неверный пароль",
}

type loginPage struct {
	PageData
	Name string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &loginPage{
		PageData: PageData{Title: "Вход", Flash: popFlash(w, r)},
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	password := r.FormValue("password")

	session, err := s.Gate.Login(name, password)
	if err != nil {
		notice, ok := loginNotices[err]
		if !ok {
			notice = "Ошибка входа"
		}
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.Logger.Warnw("login failed", "name", name, "remote", r.RemoteAddr)
		}
		s.Templates.Render(w, "login.html", &loginPage{
			PageData: PageData{Title: "Вход", Flash: errorFlash(notice)},
			Name:     name,
		})
		return
	}

	token, err := auth.GenerateToken(s.Secret, session, s.SessionTTL)
	if err != nil {
		s.Logger.Errorw("failed to generate session token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.SessionTTL.Seconds()),
	})
	setFlash(w, successFlash(fmt.Sprintf("Добро пожаловать, %s %s!", session.Role.Label(), session.Name)))

	s.Logger.Infow("operator logged in", "name", session.Name, "role", session.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked when it is still valid.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.Secret, cookie.Value); err == nil {
			if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
				s.Logger.Errorw("failed to revoke token", "error", err)
			} else {
				s.Logger.Infow("operator logged out", "name", claims.Name)
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
