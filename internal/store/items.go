package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/hranilka/internal/model"
)

// ErrDuplicateQR is returned when another active item already uses the QR number.
var ErrDuplicateQR = errors.New("qr number already in use by an active item")

const itemColumns = `seq, id, qr_number, item_name, first_name, last_name, phone, email,
	deposit_date, pickup_date, deposit_amount, pickup_amount, category, status,
	created_at, created_by, archived_at`

// ItemFilter narrows ListItems. Zero values match everything.
type ItemFilter struct {
	Status   model.Status
	Category model.Category
}

// AppendItem adds an item to the end of the sequence and fills in its Seq.
func AppendItem(ctx context.Context, db *sqlx.DB, item *model.Item) error {
	result, err := db.NamedExecContext(ctx,
		`INSERT INTO items (id, qr_number, item_name, first_name, last_name, phone, email,
		                    deposit_date, pickup_date, deposit_amount, pickup_amount,
		                    category, status, created_at, created_by)
		 VALUES (:id, :qr_number, :item_name, :first_name, :last_name, :phone, :email,
		         :deposit_date, :pickup_date, :deposit_amount, :pickup_amount,
		         :category, :status, :created_at, :created_by)`,
		item,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateQR
		}
		return fmt.Errorf("appending item: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting item seq: %w", err)
	}
	item.Seq = seq
	return nil
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sqlx.DB, id string) (*model.Item, error) {
	item := &model.Item{}
	err := db.GetContext(ctx, item, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// FindActiveItem returns the first active item carrying the QR number.
func FindActiveItem(ctx context.Context, db *sqlx.DB, qrNumber string) (*model.Item, error) {
	item := &model.Item{}
	err := db.GetContext(ctx, item,
		`SELECT `+itemColumns+` FROM items
		 WHERE qr_number = ? AND status = 'active'
		 ORDER BY seq LIMIT 1`, qrNumber,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding active item: %w", err)
	}
	return item, nil
}

// ListItems returns items in insertion order, optionally filtered by
// status and category.
func ListItems(ctx context.Context, db *sqlx.DB, filter ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY seq`

	items := []model.Item{}
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// ArchiveItem moves the first active item with the QR number to the archive.
// It reports whether an item changed; no match is not an error.
func ArchiveItem(ctx context.Context, db *sqlx.DB, qrNumber string, at time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = 'archived', archived_at = ?
		 WHERE seq = (SELECT seq FROM items
		              WHERE qr_number = ? AND status = 'active'
		              ORDER BY seq LIMIT 1)`,
		at.UTC(), qrNumber,
	)
	if err != nil {
		return false, fmt.Errorf("archiving item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("archiving item: %w", err)
	}
	return n > 0, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// The only unique key an insert can collide on in practice is the active QR index.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
