package journal

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Store errors.
var (
	// ErrConcurrencyConflict is returned when the expected stream version
	// does not match the stored version.
	ErrConcurrencyConflict = errors.New("journal: concurrency conflict")
)

// Store is an append-only event store with optimistic concurrency.
// expectedVersion is the version of the last event the caller has seen;
// -1 means the stream must not exist yet.
type Store interface {
	// Append atomically adds events to a stream and returns the new
	// stream version. All-or-nothing: a conflict or fault leaves the
	// stream unchanged. Stream and Version are assigned on the stored
	// copies; the caller's events are never mutated or retained.
	Append(ctx context.Context, stream string, expectedVersion int, events []*Event) (int, error)

	// Read returns events of a stream with Version >= fromVersion,
	// in version order. The returned events are the caller's to keep.
	Read(ctx context.Context, stream string, fromVersion int) ([]*Event, error)

	// StreamVersion returns the version of the last event in the stream,
	// or -1 if the stream does not exist.
	StreamVersion(ctx context.Context, stream string) (int, error)

	// Close releases store resources.
	Close() error
}

// MemoryStore is an in-memory Store, suitable for tests and for hosts that
// keep their own durability.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]*Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]*Event)}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, stream string, expectedVersion int, events []*Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.streams[stream]
	current := len(existing) - 1
	if current != expectedVersion {
		return current, ErrConcurrencyConflict
	}

	stored := make([]*Event, len(events))
	for i, e := range events {
		c := e.Clone()
		c.Stream = stream
		c.Version = expectedVersion + 1 + i
		stored[i] = c
	}
	s.streams[stream] = append(existing, stored...)
	return len(s.streams[stream]) - 1, nil
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, stream string, fromVersion int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, e := range s.streams[stream] {
		if e.Version >= fromVersion {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// StreamVersion implements Store.
func (s *MemoryStore) StreamVersion(ctx context.Context, stream string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams[stream]) - 1, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
