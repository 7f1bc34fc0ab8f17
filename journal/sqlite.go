package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a SQLite database. The driver is pure Go,
// so the journal stays dependency-light for embedded hosts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed migrates) a SQLite-backed store.
// Use ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The sqlite driver is single-writer; one connection keeps the
	// optimistic-concurrency check race-free.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		stream     TEXT NOT NULL,
		version    INTEGER NOT NULL,
		id         TEXT NOT NULL UNIQUE,
		type       TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (stream, version)
	);

	CREATE INDEX IF NOT EXISTS idx_events_stream ON events(stream);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, stream string, expectedVersion int, events []*Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return -1, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, err := streamVersionTx(ctx, tx, stream)
	if err != nil {
		return -1, err
	}
	if current != expectedVersion {
		return current, ErrConcurrencyConflict
	}

	for i, e := range events {
		version := expectedVersion + 1 + i
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (stream, version, id, type, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			stream, version, e.ID, e.Type, string(e.Data), e.Timestamp.Format(time.RFC3339Nano))
		if err != nil {
			return -1, fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return -1, fmt.Errorf("commit: %w", err)
	}
	return expectedVersion + len(events), nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, stream string, fromVersion int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stream, version, id, type, data, created_at FROM events
		 WHERE stream = ? AND version >= ? ORDER BY version`,
		stream, fromVersion)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		var e Event
		var data, created string
		if err := rows.Scan(&e.Stream, &e.Version, &e.ID, &e.Type, &data, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Data = []byte(data)
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// StreamVersion implements Store.
func (s *SQLiteStore) StreamVersion(ctx context.Context, stream string) (int, error) {
	// MAX over an empty set scans NULL; a missing stream reads as -1.
	var nullable sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM events WHERE stream = ?`, stream).Scan(&nullable)
	if err != nil {
		return -1, fmt.Errorf("stream version: %w", err)
	}
	if !nullable.Valid {
		return -1, nil
	}
	return int(nullable.Int64), nil
}

func streamVersionTx(ctx context.Context, tx *sql.Tx, stream string) (int, error) {
	var nullable sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM events WHERE stream = ?`, stream).Scan(&nullable)
	if err != nil {
		return -1, fmt.Errorf("stream version: %w", err)
	}
	if !nullable.Valid {
		return -1, nil
	}
	return int(nullable.Int64), nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
