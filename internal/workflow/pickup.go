package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

// Pickup errors.
var (
	ErrNotFound     = errors.New("no active item with that qr number")
	ErrNothingFound = errors.New("no item selected for pickup")
)

// PickupState is the state of a pickup workflow.
type PickupState int

// Pickup states.
const (
	PickupIdle PickupState = iota
	PickupFound
)

func (s PickupState) String() string {
	switch s {
	case PickupIdle:
		return "idle"
	case PickupFound:
		return "found"
	default:
		return fmt.Sprintf("PickupState(%d)", int(s))
	}
}

// Pickup looks an active item up by QR number and, once confirmed, moves it
// to the archive.
type Pickup struct {
	db  *sqlx.DB
	now func() time.Time

	state PickupState
	found *model.Item
}

// NewPickup starts a pickup in the Idle state.
func NewPickup(db *sqlx.DB, now func() time.Time) *Pickup {
	return &Pickup{db: db, now: now}
}

// State returns the current state.
func (p *Pickup) State() PickupState { return p.state }

// Found returns the displayed item, nil when Idle.
func (p *Pickup) Found() *model.Item { return p.found }

// Search looks up the active item with exactly this QR number. A miss
// clears any previous result.
func (p *Pickup) Search(ctx context.Context, qrNumber string) (*model.Item, error) {
	p.Reset()

	qrNumber = strings.TrimSpace(qrNumber)
	if qrNumber == "" {
		return nil, ErrNotFound
	}

	item, err := store.FindActiveItem(ctx, p.db, qrNumber)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	p.found = item
	p.state = PickupFound
	return item, nil
}

// Announcement is the phrase spoken when an item is found.
func (p *Pickup) Announcement() string {
	if p.found == nil {
		return ""
	}
	return "Номер " + p.found.QRNumber
}

// Confirm archives the displayed item and returns to Idle.
func (p *Pickup) Confirm(ctx context.Context) (*model.Item, error) {
	if p.state != PickupFound || p.found == nil {
		return nil, ErrNothingFound
	}

	item := *p.found
	at := p.now().UTC()
	ok, err := store.ArchiveItem(ctx, p.db, item.QRNumber, at)
	if err != nil {
		return nil, err
	}
	p.Reset()
	if !ok {
		// Handed out by someone else between search and confirm.
		return nil, ErrNotFound
	}

	item.Status = model.StatusArchived
	item.ArchivedAt = &at
	return &item, nil
}

// Reset clears the result and returns to Idle.
func (p *Pickup) Reset() {
	p.state = PickupIdle
	p.found = nil
}
