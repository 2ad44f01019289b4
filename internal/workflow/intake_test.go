package workflow

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/hranilka/internal/auth"
	"github.com/erazemk/hranilka/internal/db"
	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

var fixedNow = time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

var anna = auth.Session{Role: model.RoleAdmin, Name: "Анна"}

func validInput() IntakeInput {
	return IntakeInput{
		ItemName:  "Паспорт",
		FirstName: "Иван",
		LastName:  "Петров",
		Phone:     "+79990000000",
		Category:  "documents",
	}
}

func TestIntakeStartsInForm(t *testing.T) {
	in := NewIntake(db.NewTestDB(t), NewQRGenerator(), clock)

	assert.Equal(t, IntakeForm, in.State())
	assert.Equal(t, "2025-05-20", in.Input().DepositDate)
	assert.Equal(t, "other", in.Input().Category)
	assert.Nil(t, in.Item())
}

func TestIntakeSubmitCreatesActiveItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	in := NewIntake(database, NewQRGenerator(), clock)

	require.NoError(t, in.Fill(validInput()))
	qr, err := in.GenerateQR()
	require.NoError(t, err)
	assert.Equal(t, qr, in.Input().QRNumber)

	item, err := in.Submit(ctx, anna)
	require.NoError(t, err)

	assert.Equal(t, IntakeReceipt, in.State())
	assert.Same(t, item, in.Item())
	assert.Equal(t, qr, item.QRNumber)
	assert.Equal(t, model.StatusActive, item.Status)
	assert.Equal(t, model.CategoryDocuments, item.Category)
	assert.Equal(t, "Анна", item.CreatedBy)
	assert.Equal(t, fixedNow, item.CreatedAt)
	assert.Equal(t, "2025-05-20", item.DepositDate)
	assert.Zero(t, item.DepositAmount)
	assert.Zero(t, item.PickupAmount)
	assert.NotEmpty(t, item.ID)

	active, err := store.ListItems(ctx, database, store.ItemFilter{Status: model.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, item.ID, active[0].ID)

	archived, err := store.ListItems(ctx, database, store.ItemFilter{Status: model.StatusArchived})
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestIntakeMissingFieldsStaysInForm(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	blank := []func(*IntakeInput){
		func(f *IntakeInput) { f.QRNumber = "" },
		func(f *IntakeInput) { f.ItemName = "" },
		func(f *IntakeInput) { f.FirstName = "  " },
		func(f *IntakeInput) { f.LastName = "" },
		func(f *IntakeInput) { f.Phone = "" },
	}

	for i, blankOut := range blank {
		in := NewIntake(database, NewQRGenerator(), clock)
		input := validInput()
		input.QRNumber = "QR-MANUAL"
		blankOut(&input)
		require.NoError(t, in.Fill(input))

		_, err := in.Submit(ctx, anna)
		assert.ErrorIs(t, err, ErrMissingFields, "case %d", i)
		assert.Equal(t, IntakeForm, in.State())
		assert.Equal(t, input.ItemName, in.Input().ItemName, "form retained")
	}

	items, err := store.ListItems(ctx, database, store.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIntakeOptionalFields(t *testing.T) {
	database := db.NewTestDB(t)
	in := NewIntake(database, NewQRGenerator(), clock)

	input := validInput()
	input.QRNumber = "QR-MANUAL"
	input.Email = "ivan@example.com"
	input.DepositDate = "2025-05-01"
	input.PickupDate = "2025-06-01"
	input.DepositAmount = "150,50"
	input.PickupAmount = "abc"
	input.Category = "bogus"
	require.NoError(t, in.Fill(input))

	item, err := in.Submit(context.Background(), anna)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", item.Email)
	assert.Equal(t, "2025-05-01", item.DepositDate)
	assert.Equal(t, "2025-06-01", item.PickupDate)
	assert.Equal(t, 150.5, item.DepositAmount)
	assert.Zero(t, item.PickupAmount)
	assert.Equal(t, model.CategoryOther, item.Category)
}

func TestIntakeDuplicateActiveQR(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first := NewIntake(database, NewQRGenerator(), clock)
	input := validInput()
	input.QRNumber = "QR-SAME"
	require.NoError(t, first.Fill(input))
	_, err := first.Submit(ctx, anna)
	require.NoError(t, err)

	second := NewIntake(database, NewQRGenerator(), clock)
	require.NoError(t, second.Fill(input))
	_, err = second.Submit(ctx, anna)
	assert.ErrorIs(t, err, ErrDuplicateQR)
	assert.Equal(t, IntakeForm, second.State())
}

func TestIntakeReceiptThenDone(t *testing.T) {
	in := NewIntake(db.NewTestDB(t), NewQRGenerator(), clock)
	input := validInput()
	input.QRNumber = "QR-1"
	require.NoError(t, in.Fill(input))
	_, err := in.Submit(context.Background(), anna)
	require.NoError(t, err)

	// Receipt is terminal until Done.
	_, err = in.GenerateQR()
	assert.ErrorIs(t, err, ErrWrongState)
	assert.ErrorIs(t, in.Fill(validInput()), ErrWrongState)
	_, err = in.Submit(context.Background(), anna)
	assert.ErrorIs(t, err, ErrWrongState)

	in.Done()
	assert.Equal(t, IntakeForm, in.State())
	assert.Empty(t, in.Input().QRNumber)
	assert.Empty(t, in.Input().ItemName)
	assert.Nil(t, in.Item())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"100", 100},
		{"99.90", 99.9},
		{"1 500,25", 1500.25},
		{"-5", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAmount(tt.raw), "ParseAmount(%q)", tt.raw)
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		body string
		want float64
	}{
		{`{"deposit_amount": 500}`, 500},
		{`{"deposit_amount": 99.9}`, 99.9},
		{`{"deposit_amount": "1 500,25"}`, 1500.25},
		{`{"deposit_amount": ""}`, 0},
		{`{"deposit_amount": null}`, 0},
		{`{"deposit_amount": -3}`, 0},
		{`{"deposit_amount": true}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		var input IntakeInput
		require.NoError(t, json.Unmarshal([]byte(tt.body), &input), tt.body)
		assert.Equal(t, tt.want, ParseAmount(string(input.DepositAmount)), tt.body)
	}
}

func TestIntakeDefaultDepositDateIsLocalDay(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	evening := time.Date(2025, 5, 20, 21, 30, 0, 0, time.UTC).In(msk)
	in := NewIntake(db.NewTestDB(t), NewQRGenerator(), func() time.Time { return evening })

	input := validInput()
	input.QRNumber = "QR-MSK"
	require.NoError(t, in.Fill(input))

	item, err := in.Submit(context.Background(), anna)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-21", item.DepositDate)
	assert.Equal(t, time.UTC, item.CreatedAt.Location())

	in.Done()
	assert.Equal(t, "2025-05-21", in.Input().DepositDate)
}
