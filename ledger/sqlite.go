//go:build !tinygo

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

const sqliteTimeout = 5 * time.Second

// SQLiteStore persists the ledger in a sqlite database. It stands in for the
// badge EEPROM when badges are simulated on a host.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= 1 {
		return nil
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ledger (
			slot   INTEGER PRIMARY KEY CHECK (slot >= 0 AND slot < 128),
			value  INTEGER NOT NULL CHECK (value >= 0 AND value < 256)
		);
	`); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(off int) (byte, error) {
	if off < 0 || off >= Size {
		return 0, fmt.Errorf("%w: offset %d", ErrIDRange, off)
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM ledger WHERE slot = ?`, off).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select ledger byte: %w", err)
	}
	return byte(v), nil
}

func (s *SQLiteStore) Set(off int, b byte) error {
	if off < 0 || off >= Size {
		return fmt.Errorf("%w: offset %d", ErrIDRange, off)
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger(slot, value) VALUES (?, ?)
		ON CONFLICT(slot) DO UPDATE SET value = excluded.value
	`, off, int64(b))
	if err != nil {
		return fmt.Errorf("upsert ledger byte: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
