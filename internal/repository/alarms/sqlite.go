package alarms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Registers the "sqlite" driver.
)

const (
	createRecordsTable = `CREATE TABLE IF NOT EXISTS records (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	selectRecord = `SELECT value FROM records WHERE key = ?`
	upsertRecord = `INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// SQLRecords keeps records in a SQL table.
type SQLRecords struct {
	// db is the database handle.
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database and prepares the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLRecords, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	records := NewSQLRecords(db)
	if err = records.Migrate(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return records, nil
}

// NewSQLRecords wraps an existing database handle.
func NewSQLRecords(db *sql.DB) *SQLRecords {
	return &SQLRecords{db: db}
}

// Migrate creates the records table when missing.
func (r *SQLRecords) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}

	return nil
}

// Load reads one record.
func (r *SQLRecords) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := r.db.QueryRowContext(ctx, selectRecord, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNoRecord
	}

	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}

	return value, nil
}

// Save inserts or replaces one record.
func (r *SQLRecords) Save(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertRecord, key, value); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	return nil
}

// Close closes the database handle.
func (r *SQLRecords) Close() error {
	return r.db.Close()
}
