package main

import (
	"context"
	"fmt"

	"github.com/pflow-xyz/go-ledger/journal"
	"github.com/pflow-xyz/go-ledger/token"
)

// openJournal opens the sqlite store and binds the instance stream.
// Callers own closing the returned store.
func openJournal(db, instance string) (*journal.SQLiteStore, *journal.Journal, error) {
	if db == "" {
		return nil, nil, fmt.Errorf("--db is required")
	}
	if instance == "" {
		return nil, nil, fmt.Errorf("--instance is required")
	}
	store, err := journal.NewSQLiteStore(db)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return store, journal.New(store, instance), nil
}

// loadLedger replays an instance and returns the rebuilt ledger together
// with the stream version the replay observed.
func loadLedger(ctx context.Context, j *journal.Journal) (*token.Ledger, int, error) {
	ledger, err := j.Replay(ctx)
	if err != nil {
		return nil, -1, fmt.Errorf("replay %s: %w", j.Stream(), err)
	}
	version, err := j.Version(ctx)
	if err != nil {
		return nil, -1, fmt.Errorf("stream version: %w", err)
	}
	return ledger, version, nil
}
