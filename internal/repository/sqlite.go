// Package repository persists participants and payments in a single local
// SQLite file, so the ledger keeps working with no server and no network.
package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	gender            TEXT NOT NULL DEFAULT '',
	member_type       TEXT NOT NULL DEFAULT '',
	copy_type         TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'active',
	next_payment_date TEXT,
	memo              TEXT NOT NULL DEFAULT '',
	student_phone     TEXT NOT NULL DEFAULT '',
	parent_phone      TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participants_status ON participants(status);
CREATE INDEX IF NOT EXISTS idx_participants_next_payment_date ON participants(next_payment_date);
CREATE INDEX IF NOT EXISTS idx_participants_name ON participants(name);

CREATE TABLE IF NOT EXISTS payments (
	id              TEXT PRIMARY KEY,
	participant_id  TEXT NOT NULL,
	date            TEXT NOT NULL,
	year            INTEGER NOT NULL,
	month           INTEGER NOT NULL,
	amount          INTEGER NOT NULL,
	type            TEXT NOT NULL,
	method          TEXT NOT NULL,
	settlement_date TEXT,
	created_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_participant_id ON payments(participant_id);
CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date);
CREATE INDEX IF NOT EXISTS idx_payments_year_month ON payments(year, month);
`

// Open connects to the SQLite database at path, creating the parent
// directory and the schema as needed.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single-operator tool: one writer at a time keeps SQLite happy.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
