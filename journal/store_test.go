package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pflow-xyz/go-ledger/journal"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) journal.Store {
		return journal.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) journal.Store {
		store, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
		if err != nil {
			t.Fatalf("failed to create sqlite store: %v", err)
		}
		return store
	})
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) journal.Store) {
	t.Run("AppendAndRead", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		e1, err := journal.NewEvent("ledger-1", journal.EventMinted,
			journal.MintData{Owner: "0x01", Value: "100"})
		if err != nil {
			t.Fatalf("new event: %v", err)
		}
		e2, err := journal.NewEvent("ledger-1", journal.EventTransferred,
			journal.TransferData{From: "0x01", To: "0x02", Value: "10"})
		if err != nil {
			t.Fatalf("new event: %v", err)
		}

		version, err := store.Append(ctx, "ledger-1", -1, []*journal.Event{e1})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if version != 0 {
			t.Errorf("expected version 0, got %d", version)
		}

		version, err = store.Append(ctx, "ledger-1", 0, []*journal.Event{e2})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if version != 1 {
			t.Errorf("expected version 1, got %d", version)
		}

		events, err := store.Read(ctx, "ledger-1", 0)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].Type != journal.EventMinted {
			t.Errorf("expected minted first, got %s", events[0].Type)
		}
		if events[1].Type != journal.EventTransferred {
			t.Errorf("expected transferred second, got %s", events[1].Type)
		}

		var data journal.TransferData
		if err := events[1].Decode(&data); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if data.Value != "10" {
			t.Errorf("decoded value = %s, want 10", data.Value)
		}
	})

	t.Run("ConcurrencyConflict", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		e1, _ := journal.NewEvent("ledger-1", journal.EventMinted, journal.MintData{Owner: "0x01", Value: "1"})
		e2, _ := journal.NewEvent("ledger-1", journal.EventTransferred, journal.TransferData{From: "0x01", To: "0x02", Value: "1"})

		if _, err := store.Append(ctx, "ledger-1", -1, []*journal.Event{e1}); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		// Wrong expected version must be rejected without writing.
		if _, err := store.Append(ctx, "ledger-1", 5, []*journal.Event{e2}); !errors.Is(err, journal.ErrConcurrencyConflict) {
			t.Errorf("expected concurrency conflict, got: %v", err)
		}

		if _, err := store.Append(ctx, "ledger-1", 0, []*journal.Event{e2}); err != nil {
			t.Errorf("append with correct version failed: %v", err)
		}
	})

	t.Run("StreamVersion", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		version, err := store.StreamVersion(ctx, "ledger-1")
		if err != nil {
			t.Fatalf("stream version failed: %v", err)
		}
		if version != -1 {
			t.Errorf("expected version -1 for missing stream, got %d", version)
		}

		e, _ := journal.NewEvent("ledger-1", journal.EventMinted, journal.MintData{Owner: "0x01", Value: "1"})
		if _, err := store.Append(ctx, "ledger-1", -1, []*journal.Event{e}); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		version, err = store.StreamVersion(ctx, "ledger-1")
		if err != nil {
			t.Fatalf("stream version failed: %v", err)
		}
		if version != 0 {
			t.Errorf("expected version 0, got %d", version)
		}
	})

	t.Run("EventsAreIsolatedFromCallers", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		e, _ := journal.NewEvent("ledger-1", journal.EventMinted, journal.MintData{Owner: "0x01", Value: "1"})
		if _, err := store.Append(ctx, "ledger-1", -1, []*journal.Event{e}); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		// Clobbering the appended event must not reach stored state.
		e.Type = "clobbered"
		e.Data = []byte(`{}`)

		events, err := store.Read(ctx, "ledger-1", 0)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(events) != 1 || events[0].Type != journal.EventMinted {
			t.Fatalf("stored event changed under the caller: %+v", events)
		}

		// Same for events handed out by Read.
		events[0].Type = "clobbered"
		events[0].Data[0] = '!'

		again, err := store.Read(ctx, "ledger-1", 0)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if again[0].Type != journal.EventMinted {
			t.Errorf("stored type changed via read result: %s", again[0].Type)
		}
		var data journal.MintData
		if err := again[0].Decode(&data); err != nil {
			t.Errorf("stored payload changed via read result: %v", err)
		}
	})

	t.Run("StreamsAreIndependent", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		e1, _ := journal.NewEvent("ledger-1", journal.EventMinted, journal.MintData{Owner: "0x01", Value: "1"})
		e2, _ := journal.NewEvent("ledger-2", journal.EventMinted, journal.MintData{Owner: "0x02", Value: "2"})

		if _, err := store.Append(ctx, "ledger-1", -1, []*journal.Event{e1}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if _, err := store.Append(ctx, "ledger-2", -1, []*journal.Event{e2}); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		events, err := store.Read(ctx, "ledger-1", 0)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(events) != 1 || events[0].Stream != "ledger-1" {
			t.Errorf("stream isolation broken: %+v", events)
		}
	})
}
