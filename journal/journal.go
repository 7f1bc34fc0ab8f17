package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/token"
)

// Replay errors.
var (
	// ErrEmptyStream is returned when a stream has no events to fold.
	ErrEmptyStream = errors.New("journal: empty stream")

	// ErrCorrupt is returned when a stream cannot be folded back into a
	// valid ledger (bad payloads, missing mint, or an overdraft that the
	// live ledger could never have accepted).
	ErrCorrupt = errors.New("journal: corrupt stream")
)

// Journal records and replays one ledger instance's event stream.
type Journal struct {
	store  Store
	stream string
}

// New binds a journal to a stream in a store. The stream identifier is the
// contract instance handle.
func New(store Store, stream string) *Journal {
	return &Journal{store: store, stream: stream}
}

// Stream returns the stream identifier.
func (j *Journal) Stream() string { return j.stream }

// AppendRecord appends one emitted transfer record, translating the mint
// (nil From) into a minted event. expectedVersion carries the optimistic
// concurrency check through to the store.
func (j *Journal) AppendRecord(ctx context.Context, expectedVersion int, record token.Transfer) (int, error) {
	event, err := encodeRecord(j.stream, record)
	if err != nil {
		return -1, err
	}
	return j.store.Append(ctx, j.stream, expectedVersion, []*Event{event})
}

// Version returns the stream's current version, -1 for a fresh stream.
func (j *Journal) Version(ctx context.Context) (int, error) {
	return j.store.StreamVersion(ctx, j.stream)
}

// Events returns the full stream in version order.
func (j *Journal) Events(ctx context.Context) ([]*Event, error) {
	return j.store.Read(ctx, j.stream, 0)
}

// Records decodes the full stream back into transfer records.
func (j *Journal) Records(ctx context.Context) ([]token.Transfer, error) {
	events, err := j.Events(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]token.Transfer, 0, len(events))
	for _, e := range events {
		r, err := decodeRecord(e)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Replay folds the stream back into a ledger, verifying conservation after
// every applied event. The first event must be the mint.
func (j *Journal) Replay(ctx context.Context) (*token.Ledger, error) {
	events, err := j.Events(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEmptyStream
	}

	var ledger *token.Ledger
	for i, e := range events {
		switch e.Type {
		case EventMinted:
			if i != 0 {
				return nil, fmt.Errorf("%w: minted event at version %d", ErrCorrupt, e.Version)
			}
			var data MintData
			if err := e.Decode(&data); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			owner, err := token.ParseAddress(data.Owner)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			value, err := uint256.FromDecimal(data.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			ledger = token.New(owner, value)

		case EventTransferred:
			if ledger == nil {
				return nil, fmt.Errorf("%w: stream does not start with a mint", ErrCorrupt)
			}
			var data TransferData
			if err := e.Decode(&data); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			from, err := token.ParseAddress(data.From)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			to, err := token.ParseAddress(data.To)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			value, err := uint256.FromDecimal(data.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			if err := ledger.Transfer(from, to, value); err != nil {
				return nil, fmt.Errorf("%w: version %d: %v", ErrCorrupt, e.Version, err)
			}

		default:
			return nil, fmt.Errorf("%w: unknown event type %q", ErrCorrupt, e.Type)
		}

		if err := ledger.Snapshot().CheckConservation(); err != nil {
			return nil, fmt.Errorf("%w: version %d: %v", ErrCorrupt, e.Version, err)
		}
	}
	return ledger, nil
}

func encodeRecord(stream string, record token.Transfer) (*Event, error) {
	if record.IsMint() {
		if record.To == nil {
			return nil, fmt.Errorf("journal: mint record without destination")
		}
		return NewEvent(stream, EventMinted, MintData{
			Owner: record.To.String(),
			Value: record.Value.Dec(),
		})
	}
	if record.To == nil {
		return nil, fmt.Errorf("journal: transfer record without destination")
	}
	return NewEvent(stream, EventTransferred, TransferData{
		From:  record.From.String(),
		To:    record.To.String(),
		Value: record.Value.Dec(),
	})
}

func decodeRecord(e *Event) (token.Transfer, error) {
	switch e.Type {
	case EventMinted:
		var data MintData
		if err := e.Decode(&data); err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		owner, err := token.ParseAddress(data.Owner)
		if err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		value, err := uint256.FromDecimal(data.Value)
		if err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return token.Transfer{To: &owner, Value: value}, nil

	case EventTransferred:
		var data TransferData
		if err := e.Decode(&data); err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		from, err := token.ParseAddress(data.From)
		if err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		to, err := token.ParseAddress(data.To)
		if err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		value, err := uint256.FromDecimal(data.Value)
		if err != nil {
			return token.Transfer{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return token.Transfer{From: &from, To: &to, Value: value}, nil

	default:
		return token.Transfer{}, fmt.Errorf("%w: unknown event type %q", ErrCorrupt, e.Type)
	}
}

// Recorder adapts a journal to the host's record sink: every emitted record
// is appended to the stream in order. Append failures are returned to the
// emitting contract, which aborts the step; they are also sticky, so a
// recorder that has fallen behind its stream refuses every later record.
type Recorder struct {
	journal *Journal
	ctx     context.Context
	version int
	err     error
}

// NewRecorder creates a sink appending to journal from version onwards
// (-1 for a fresh stream).
func NewRecorder(ctx context.Context, journal *Journal, version int) *Recorder {
	return &Recorder{journal: journal, ctx: ctx, version: version}
}

// Emit appends the record to the journal.
func (r *Recorder) Emit(record token.Transfer) error {
	if r.err != nil {
		return r.err
	}
	v, err := r.journal.AppendRecord(r.ctx, r.version, record)
	if err != nil {
		r.err = err
		return err
	}
	r.version = v
	return nil
}

// Err reports the first append failure, if any.
func (r *Recorder) Err() error { return r.err }

// Version returns the last appended version.
func (r *Recorder) Version() int { return r.version }
