package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    id             TEXT NOT NULL UNIQUE,
    qr_number      TEXT NOT NULL,
    item_name      TEXT NOT NULL,
    first_name     TEXT NOT NULL,
    last_name      TEXT NOT NULL,
    phone          TEXT NOT NULL,
    email          TEXT NOT NULL DEFAULT '',
    deposit_date   TEXT NOT NULL,
    pickup_date    TEXT NOT NULL DEFAULT '',
    deposit_amount REAL NOT NULL DEFAULT 0 CHECK (deposit_amount >= 0),
    pickup_amount  REAL NOT NULL DEFAULT 0 CHECK (pickup_amount >= 0),
    category       TEXT NOT NULL CHECK (category IN ('documents', 'photos', 'other')),
    status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'archived')),
    created_at     DATETIME NOT NULL,
    created_by     TEXT NOT NULL,
    archived_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_qr_active
    ON items(qr_number) WHERE status = 'active';

CREATE INDEX IF NOT EXISTS idx_items_status_category
    ON items(status, category);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
