package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/workflow"
)

const notFoundNotice = "Предмет с таким QR-кодом не найден"

type pickupPage struct {
	PageData
	QRNumber     string
	Item         *model.Item
	Announcement string
}

// PickupPage handles GET /pickup.
func (s *Server) PickupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "pickup.html", &pickupPage{PageData: s.page(w, r, "Выдача предмета")})
}

// PickupSearch handles POST /pickup.
func (s *Server) PickupSearch(w http.ResponseWriter, r *http.Request) {
	qr := r.FormValue("qr_number")
	data := &pickupPage{PageData: s.page(w, r, "Выдача предмета"), QRNumber: qr}

	p := workflow.NewPickup(s.DB, s.Now)
	item, err := p.Search(r.Context(), qr)
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		data.Flash = errorFlash(notFoundNotice)
	case err != nil:
		s.Logger.Errorw("failed to search item", "qr", qr, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	default:
		data.Item = item
		data.Announcement = p.Announcement()
	}

	s.Templates.Render(w, "pickup.html", data)
}

// PickupConfirm handles POST /pickup/confirm. The item is looked up again
// so a concurrent hand-out is reported as not found.
func (s *Server) PickupConfirm(w http.ResponseWriter, r *http.Request) {
	session := GetWebSession(r.Context())
	qr := r.FormValue("qr_number")

	p := workflow.NewPickup(s.DB, s.Now)
	_, err := p.Search(r.Context(), qr)
	var item *model.Item
	if err == nil {
		item, err = p.Confirm(r.Context())
	}
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		data := &pickupPage{PageData: s.page(w, r, "Выдача предмета"), QRNumber: qr}
		data.Flash = errorFlash(notFoundNotice)
		s.Templates.Render(w, "pickup.html", data)
		return
	case err != nil:
		s.Logger.Errorw("failed to hand out item", "qr", qr, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Logger.Infow("item picked up", "qr", item.QRNumber, "item", item.ItemName, "operator", session.Name)
	setFlash(w, successFlash(fmt.Sprintf("Предмет \"%s\" выдан и перемещен в архив", item.ItemName)))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
