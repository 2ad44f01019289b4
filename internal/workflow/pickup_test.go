package workflow

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/db"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

func TestPickupSearchNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	p := NewPickup(database, clock)

	item, err := p.Search(context.Background(), "QR-NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, item)
	assert.Equal(t, PickupIdle, p.State())
	assert.Empty(t, p.Announcement())

	_, err = p.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNothingFound)
}

func TestPickupMissClearsPreviousResult(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := NewIntake(database, NewQRGenerator(), clock)
	input := validInput()
	input.QRNumber = "QR-1"
	require.NoError(t, in.Fill(input))
	_, err := in.Submit(ctx, anna)
	require.NoError(t, err)

	p := NewPickup(database, clock)
	_, err = p.Search(ctx, "QR-1")
	require.NoError(t, err)
	require.Equal(t, PickupFound, p.State())
	assert.Equal(t, "Номер QR-1", p.Announcement())

	_, err = p.Search(ctx, "QR-2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, PickupIdle, p.State())
	assert.Nil(t, p.Found())
}

// Login as admin, accept an item with a generated QR number, hand it out.
func TestIntakeAndPickupScenario(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	gate := auth.NewGate(map[model.Role]auth.Secret{
		model.RoleCashier: "25",
		model.RoleAdmin:   "2025",
		model.RoleCreator: "202505",
	})
	session, err := gate.Login("Анна", "2025")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, session.Role)

	in := NewIntake(database, NewQRGenerator(), clock)
	require.NoError(t, in.Fill(validInput()))
	qr, err := in.GenerateQR()
	require.NoError(t, err)
	created, err := in.Submit(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, "Анна", created.CreatedBy)

	activeBefore := countItems(t, database, model.StatusActive)
	archivedBefore := countItems(t, database, model.StatusArchived)

	p := NewPickup(database, clock)
	found, err := p.Search(ctx, qr)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	picked, err := p.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, picked.Status)
	require.NotNil(t, picked.ArchivedAt)
	assert.Equal(t, PickupIdle, p.State())

	assert.Equal(t, activeBefore-1, countItems(t, database, model.StatusActive))
	assert.Equal(t, archivedBefore+1, countItems(t, database, model.StatusArchived))

	// A second attempt finds nothing because only active items match.
	_, err = p.Search(ctx, qr)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, archivedBefore+1, countItems(t, database, model.StatusArchived))
}

func TestPickupConfirmAfterConcurrentHandout(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := NewIntake(database, NewQRGenerator(), clock)
	input := validInput()
	input.QRNumber = "QR-RACE"
	require.NoError(t, in.Fill(input))
	_, err := in.Submit(ctx, anna)
	require.NoError(t, err)

	a := NewPickup(database, clock)
	b := NewPickup(database, clock)
	_, err = a.Search(ctx, "QR-RACE")
	require.NoError(t, err)
	_, err = b.Search(ctx, "QR-RACE")
	require.NoError(t, err)

	_, err = a.Confirm(ctx)
	require.NoError(t, err)
	_, err = b.Confirm(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, countItems(t, database, model.StatusArchived))
}

func countItems(t *testing.T, database *sqlx.DB, status model.Status) int {
	t.Helper()
	items, err := store.ListItems(context.Background(), database, store.ItemFilter{Status: status})
	require.NoError(t, err)
	return len(items)
}
