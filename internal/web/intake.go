package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/hranilka/internal/format"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
	"github.com/erazemk/hranilka/internal/workflow"
)

type intakePage struct {
	PageData
	Form workflow.IntakeInput
}

type receiptPage struct {
	PageData
	Item      *model.Item
	Operator  string
	PrintedAt string
}

// IntakePage handles GET /intake.
func (s *Server) IntakePage(w http.ResponseWriter, r *http.Request) {
	in := workflow.NewIntake(s.DB, s.QR, s.Now)
	s.Templates.Render(w, "intake.html", &intakePage{
		PageData: s.page(w, r, "Прием предмета"),
		Form:     in.Input(),
	})
}

// IntakeSubmit handles POST /intake. action=generate fills in a new QR
// number; anything else submits the form.
func (s *Server) IntakeSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetWebSession(r.Context())
	in := workflow.NewIntake(s.DB, s.QR, s.Now)
	if err := in.Fill(intakeForm(r)); err != nil {
		s.Logger.Errorw("failed to fill intake form", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render := func(flash *Flash) {
		data := &intakePage{PageData: s.page(w, r, "Прием предмета"), Form: in.Input()}
		data.Flash = flash
		s.Templates.Render(w, "intake.html", data)
	}

	if r.FormValue("action") == "generate" {
		if _, err := in.GenerateQR(); err != nil {
			s.Logger.Errorw("failed to generate qr number", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		render(nil)
		return
	}

	item, err := in.Submit(r.Context(), *session)
	switch {
	case errors.Is(err, workflow.ErrMissingFields):
		render(errorFlash("Заполните все обязательные поля"))
		return
	case errors.Is(err, workflow.ErrDuplicateQR):
		render(errorFlash("Предмет с таким QR-кодом уже на хранении"))
		return
	case err != nil:
		s.Logger.Errorw("failed to accept item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Logger.Infow("item accepted",
		"qr", item.QRNumber, "item", item.ItemName, "category", item.Category, "operator", session.Name)
	setFlash(w, successFlash(fmt.Sprintf("Предмет принят! QR: %s", item.QRNumber)))
	http.Redirect(w, r, "/intake/"+item.ID+"/receipt", http.StatusSeeOther)
}

// ReceiptPage handles GET /intake/{id}/receipt.
func (s *Server) ReceiptPage(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), s.DB, chi.URLParam(r, "id"))
	if err != nil {
		s.Logger.Errorw("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	s.Templates.Render(w, "receipt.html", &receiptPage{
		PageData:  s.page(w, r, "Квитанция"),
		Item:      item,
		Operator:  item.CreatedBy,
		PrintedAt: format.DateTime(s.Now()),
	})
}

func intakeForm(r *http.Request) workflow.IntakeInput {
	return workflow.IntakeInput{
		QRNumber:      r.FormValue("qr_number"),
		ItemName:      r.FormValue("item_name"),
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		Phone:         r.FormValue("phone"),
		Email:         r.FormValue("email"),
		DepositDate:   r.FormValue("deposit_date"),
		PickupDate:    r.FormValue("pickup_date"),
		DepositAmount: workflow.Amount(r.FormValue("deposit_amount")),
		PickupAmount:  workflow.Amount(r.FormValue("pickup_amount")),
		Category:      r.FormValue("category"),
	}
}
