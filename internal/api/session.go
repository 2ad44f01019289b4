package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/store"
)

// SessionHandler handles login and logout.
type SessionHandler struct {
	DB     *sqlx.DB
	Gate   *auth.Gate
	Secret string
	TTL    time.Duration
	Logger *zap.SugaredLogger
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Gate.Login(req.Name, req.Password)
	switch {
	case errors.Is(err, auth.ErrNameRequired), errors.Is(err, auth.ErrPasswordRequired):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		h.Logger.Warnw("login failed", "name", req.Name, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(h.Secret, session, h.TTL)
	if err != nil {
		h.Logger.Errorw("failed to generate session token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.Logger.Infow("operator logged in", "name", session.Name, "role", session.Role)
	jsonResponse(w, http.StatusOK, loginResponse{
		Token:     token,
		Name:      session.Name,
		Role:      string(session.Role),
		ExpiresAt: time.Now().Add(h.TTL).UTC(),
	})
}

// Logout handles DELETE /api/session by revoking the presented token.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		h.Logger.Errorw("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	h.Logger.Infow("operator logged out", "name", claims.Name)
	w.WriteHeader(http.StatusNoContent)
}
