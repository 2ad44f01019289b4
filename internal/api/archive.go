package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

// ArchiveHandler handles the password-protected archive.
type ArchiveHandler struct {
	DB     *sqlx.DB
	Lock   *auth.Lock
	Secret string
	TTL    time.Duration
	Logger *zap.SugaredLogger
}

type unlockRequest struct {
	Password string `json:"password"`
}

type unlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type archiveResponse struct {
	Category model.Category `json:"category,omitempty"`
	Counts   model.Counts   `json:"counts"`
	Items    []model.Item   `json:"items"`
}

// Unlock handles POST /api/archive/unlock.
func (h *ArchiveHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req unlockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		jsonError(w, http.StatusBadRequest, "password required")
		return
	}
	if !h.Lock.Unlock(req.Password) {
		h.Logger.Warnw("archive unlock failed", "name", claims.Name)
		jsonError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := auth.GenerateArchiveToken(h.Secret, h.TTL)
	if err != nil {
		h.Logger.Errorw("failed to generate archive token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.Logger.Infow("archive unlocked", "name", claims.Name)
	jsonResponse(w, http.StatusOK, unlockResponse{Token: token, ExpiresAt: time.Now().Add(h.TTL).UTC()})
}

// List handles GET /api/archive?category=. Counts always cover the whole
// archive; items are narrowed to the category when one is given.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if raw := r.URL.Query().Get("category"); raw != "" && raw != "all" {
		c, ok := model.ParseCategory(raw)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid category")
			return
		}
		category = c
	}

	archived, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{Status: model.StatusArchived})
	if err != nil {
		h.Logger.Errorw("failed to list archived items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	resp := archiveResponse{Category: category, Counts: model.Tally(archived), Items: archived}
	if category != "" {
		resp.Items = model.FilterItems(archived, model.InCategory(category))
	}
	jsonResponse(w, http.StatusOK, resp)
}
