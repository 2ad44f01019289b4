package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
	"github.com/erazemk/hranilka/internal/workflow"
)

// ItemsHandler handles listing and intake endpoints.
type ItemsHandler struct {
	DB       *sqlx.DB
	QR       *workflow.QRGenerator
	Now      func() time.Time
	Capacity map[model.Category]int
	Logger   *zap.SugaredLogger
}

type departmentResponse struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
	Capacity int            `json:"capacity"`
	Full     bool           `json:"full"`
}

type dashboardResponse struct {
	Active      model.Counts         `json:"active"`
	Departments []departmentResponse `json:"departments"`
}

// Dashboard handles GET /api/dashboard.
func (h *ItemsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{Status: model.StatusActive})
	if err != nil {
		h.Logger.Errorw("failed to list active items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	counts := model.Tally(items)
	resp := dashboardResponse{Active: counts, Departments: []departmentResponse{}}
	for _, c := range model.Categories {
		capacity, ok := h.Capacity[c]
		if !ok {
			continue
		}
		n := counts.Of(c)
		resp.Departments = append(resp.Departments, departmentResponse{
			Category: c,
			Count:    n,
			Capacity: capacity,
			Full:     n > capacity,
		})
	}
	jsonResponse(w, http.StatusOK, resp)
}

// List handles GET /api/items?status=&category=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ItemFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseStatus(raw)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = status
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, ok := model.ParseCategory(raw)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid category")
			return
		}
		filter.Category = category
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		h.Logger.Errorw("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// GenerateQR handles POST /api/qr.
func (h *ItemsHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	qr, err := h.QR.Next()
	if err != nil {
		h.Logger.Errorw("failed to generate qr number", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate qr number")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"qr_number": qr})
}

// Create handles POST /api/items. A blank qr_number is filled with a
// generated one.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var input workflow.IntakeInput
	if err := decodeJSON(r, &input); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := workflow.NewIntake(h.DB, h.QR, h.Now)
	if err := in.Fill(input); err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if input.QRNumber == "" {
		if _, err := in.GenerateQR(); err != nil {
			h.Logger.Errorw("failed to generate qr number", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to generate qr number")
			return
		}
	}

	item, err := in.Submit(r.Context(), claims.Session())
	switch {
	case errors.Is(err, workflow.ErrMissingFields):
		jsonError(w, http.StatusBadRequest, "qr_number, item_name, first_name, last_name and phone are required")
		return
	case errors.Is(err, workflow.ErrDuplicateQR):
		jsonError(w, http.StatusConflict, "qr number already in use")
		return
	case err != nil:
		h.Logger.Errorw("failed to accept item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to accept item")
		return
	}

	h.Logger.Infow("item accepted",
		"qr", item.QRNumber, "item", item.ItemName, "category", item.Category, "operator", claims.Name)
	jsonResponse(w, http.StatusCreated, item)
}
