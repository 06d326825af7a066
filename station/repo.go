//go:build !tinygo

package station

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Open opens (and migrates) the station database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= 1 {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sightings (
			badge      INTEGER NOT NULL,
			peer       INTEGER NOT NULL,
			first_seen INTEGER NOT NULL,
			last_seen  INTEGER NOT NULL,
			PRIMARY KEY (badge, peer)
		);`,
		`CREATE TABLE IF NOT EXISTS heartbeats (
			badge      INTEGER PRIMARY KEY,
			mode       INTEGER NOT NULL,
			colour     INTEGER NOT NULL,
			last_heard INTEGER NOT NULL
		);`,
		`PRAGMA user_version = 1;`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate station db: %w", err)
		}
	}
	return nil
}

// Sighting is one ledger entry reported by a dumping badge.
type Sighting struct {
	Badge     uint8
	Peer      uint8
	FirstSeen time.Time
	LastSeen  time.Time
}

// Heartbeat is the latest ordinary broadcast heard from a badge.
type Heartbeat struct {
	Badge     uint8
	Mode      uint8
	Colour    uint8
	LastHeard time.Time
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) RecordSighting(ctx context.Context, badge, peer uint8, at time.Time) error {
	ms := at.UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sightings(badge, peer, first_seen, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(badge, peer) DO UPDATE SET
			last_seen = excluded.last_seen
	`, badge, peer, ms, ms)
	if err != nil {
		return fmt.Errorf("upsert sighting: %w", err)
	}
	return nil
}

func (r *Repo) RecordHeartbeat(ctx context.Context, hb Heartbeat) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO heartbeats(badge, mode, colour, last_heard)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(badge) DO UPDATE SET
			mode = excluded.mode,
			colour = excluded.colour,
			last_heard = excluded.last_heard
	`, hb.Badge, hb.Mode, hb.Colour, hb.LastHeard.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert heartbeat: %w", err)
	}
	return nil
}

// Sightings lists the peers badge has reported, lowest ID first.
func (r *Repo) Sightings(ctx context.Context, badge uint8) ([]Sighting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT badge, peer, first_seen, last_seen
		FROM sightings
		WHERE badge = ?
		ORDER BY peer
	`, badge)
	if err != nil {
		return nil, fmt.Errorf("list sightings: %w", err)
	}
	defer rows.Close()

	var out []Sighting
	for rows.Next() {
		var (
			s             Sighting
			first, lastMs int64
		)
		if err := rows.Scan(&s.Badge, &s.Peer, &first, &lastMs); err != nil {
			return nil, fmt.Errorf("scan sighting: %w", err)
		}
		s.FirstSeen = time.UnixMilli(first)
		s.LastSeen = time.UnixMilli(lastMs)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Heartbeats lists every badge heard, lowest ID first.
func (r *Repo) Heartbeats(ctx context.Context) ([]Heartbeat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT badge, mode, colour, last_heard
		FROM heartbeats
		ORDER BY badge
	`)
	if err != nil {
		return nil, fmt.Errorf("list heartbeats: %w", err)
	}
	defer rows.Close()

	var out []Heartbeat
	for rows.Next() {
		var (
			hb Heartbeat
			ms int64
		)
		if err := rows.Scan(&hb.Badge, &hb.Mode, &hb.Colour, &ms); err != nil {
			return nil, fmt.Errorf("scan heartbeat: %w", err)
		}
		hb.LastHeard = time.UnixMilli(ms)
		out = append(out, hb)
	}
	return out, rows.Err()
}
