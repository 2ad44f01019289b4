package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

// DateLayout is the calendar date encoding used for deposit and pickup dates.
const DateLayout = "2006-01-02"

// Intake errors.
var (
	ErrMissingFields = errors.New("required fields missing")
	ErrDuplicateQR   = store.ErrDuplicateQR
	ErrWrongState    = errors.New("operation not allowed in current state")
)

// IntakeState is the state of an intake workflow.
type IntakeState int

// Intake states.
const (
	IntakeForm IntakeState = iota
	IntakeReceipt
)

func (s IntakeState) String() string {
	switch s {
	case IntakeForm:
		return "form"
	case IntakeReceipt:
		return "receipt"
	default:
		return fmt.Sprintf("IntakeState(%d)", int(s))
	}
}

// IntakeInput is the raw form as typed by the operator.
type IntakeInput struct {
	QRNumber      string `json:"qr_number"`
	ItemName      string `json:"item_name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	DepositDate   string `json:"deposit_date"`
	PickupDate    string `json:"pickup_date"`
	DepositAmount Amount `json:"deposit_amount"`
	PickupAmount  Amount `json:"pickup_amount"`
	Category      string `json:"category"`
}

// Amount is a currency amount as typed. In JSON it may be a number or a
// string. null and any other JSON value stay blank, so they count as 0.
type Amount string

// UnmarshalJSON accepts 500, 99.9, "1 500,25" and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*a = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			*a = ""
			return nil
		}
		*a = Amount(n.String())
		return nil
	}
}

// Intake registers one new item: Form until a valid submit, then Receipt
// until Done.
type Intake struct {
	db  *sqlx.DB
	now func() time.Time
	qr  *QRGenerator

	state IntakeState
	input IntakeInput
	item  *model.Item
}

// NewIntake starts an intake in the Form state.
func NewIntake(db *sqlx.DB, qr *QRGenerator, now func() time.Time) *Intake {
	in := &Intake{db: db, qr: qr, now: now}
	in.Done()
	return in
}

// State returns the current state.
func (in *Intake) State() IntakeState { return in.state }

// Input returns the current form contents.
func (in *Intake) Input() IntakeInput { return in.input }

// Item returns the created item once in the Receipt state.
func (in *Intake) Item() *model.Item { return in.item }

// Fill replaces the form contents. Blank deposit date and category keep
// their defaults.
func (in *Intake) Fill(input IntakeInput) error {
	if in.state != IntakeForm {
		return ErrWrongState
	}
	if strings.TrimSpace(input.DepositDate) == "" {
		input.DepositDate = in.input.DepositDate
	}
	if input.Category == "" {
		input.Category = in.input.Category
	}
	in.input = input
	return nil
}

// GenerateQR fills the form with a freshly generated QR number.
func (in *Intake) GenerateQR() (string, error) {
	if in.state != IntakeForm {
		return "", ErrWrongState
	}
	qr, err := in.qr.Next()
	if err != nil {
		return "", err
	}
	in.input.QRNumber = qr
	return qr, nil
}

// Submit validates the form and appends a new active item created by the
// session's operator. On any error the workflow stays in Form.
func (in *Intake) Submit(ctx context.Context, s auth.Session) (*model.Item, error) {
	if in.state != IntakeForm {
		return nil, ErrWrongState
	}

	f := in.input
	qr := strings.TrimSpace(f.QRNumber)
	name := strings.TrimSpace(f.ItemName)
	first := strings.TrimSpace(f.FirstName)
	last := strings.TrimSpace(f.LastName)
	phone := strings.TrimSpace(f.Phone)
	if qr == "" || name == "" || first == "" || last == "" || phone == "" {
		return nil, ErrMissingFields
	}

	existing, err := store.FindActiveItem(ctx, in.db, qr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateQR
	}

	category, ok := model.ParseCategory(f.Category)
	if !ok {
		category = model.CategoryOther
	}

	// The default deposit date is the calendar day at the desk, in the
	// clock's own location. CreatedAt is stored in UTC.
	local := in.now()
	now := local.UTC()
	depositDate := strings.TrimSpace(f.DepositDate)
	if depositDate == "" {
		depositDate = local.Format(DateLayout)
	}

	item := &model.Item{
		ID:            uuid.NewString(),
		QRNumber:      qr,
		ItemName:      name,
		FirstName:     first,
		LastName:      last,
		Phone:         phone,
		Email:         strings.TrimSpace(f.Email),
		DepositDate:   depositDate,
		PickupDate:    strings.TrimSpace(f.PickupDate),
		DepositAmount: ParseAmount(string(f.DepositAmount)),
		PickupAmount:  ParseAmount(string(f.PickupAmount)),
		Category:      category,
		Status:        model.StatusActive,
		CreatedAt:     now,
		CreatedBy:     s.Name,
	}

	if err := store.AppendItem(ctx, in.db, item); err != nil {
		return nil, err
	}

	in.item = item
	in.state = IntakeReceipt
	return item, nil
}

// Done resets the workflow to an empty Form.
func (in *Intake) Done() {
	in.state = IntakeForm
	in.item = nil
	in.input = IntakeInput{
		DepositDate: in.now().Format(DateLayout),
		Category:    string(model.CategoryOther),
	}
}

// ParseAmount reads a currency amount. Blank, malformed and negative values
// yield 0. A decimal comma is accepted.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
