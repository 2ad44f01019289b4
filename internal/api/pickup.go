package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/workflow"
)

// PickupHandler handles item lookup and hand-out.
type PickupHandler struct {
	DB     *sqlx.DB
	Now    func() time.Time
	Logger *zap.SugaredLogger
}

type pickupResponse struct {
	Item         *model.Item `json:"item"`
	Announcement string      `json:"announcement,omitempty"`
}

// Find handles GET /api/pickup/{qr}.
func (h *PickupHandler) Find(w http.ResponseWriter, r *http.Request) {
	p := workflow.NewPickup(h.DB, h.Now)
	item, err := p.Search(r.Context(), chi.URLParam(r, "qr"))
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		h.Logger.Errorw("failed to search item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to search item")
		return
	}
	jsonResponse(w, http.StatusOK, pickupResponse{Item: item, Announcement: p.Announcement()})
}

// Confirm handles POST /api/pickup/{qr}: the active item with that QR number
// is handed out and archived.
func (h *PickupHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	p := workflow.NewPickup(h.DB, h.Now)
	item, err := p.Search(r.Context(), chi.URLParam(r, "qr"))
	if err == nil {
		item, err = p.Confirm(r.Context())
	}
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		h.Logger.Errorw("failed to hand out item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to hand out item")
		return
	}

	h.Logger.Infow("item picked up", "qr", item.QRNumber, "item", item.ItemName, "operator", claims.Name)
	jsonResponse(w, http.StatusOK, pickupResponse{Item: item})
}
