// Package journal persists the ledger's emitted record stream as an
// append-only event journal with optimistic concurrency, and rebuilds ledger
// state by replaying it. The journal is the durable form of the ledger: the
// balance map is pure fold state over minted/transferred events.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types recorded for a ledger stream.
const (
	EventMinted      = "minted"
	EventTransferred = "transferred"
)

// Event is a single journal entry.
type Event struct {
	// ID is a globally unique event identifier.
	ID string `json:"id"`

	// Stream is the ledger instance the event belongs to.
	Stream string `json:"stream"`

	// Type is the event type name.
	Type string `json:"type"`

	// Version is the event's position in its stream, starting at 0.
	// Assigned by the store on append.
	Version int `json:"version"`

	// Data is the JSON-encoded payload.
	Data json.RawMessage `json:"data"`

	// Timestamp is when the event was created.
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event with a fresh ID and encoded payload.
func NewEvent(stream, eventType string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}
	return &Event{
		ID:        uuid.New().String(),
		Stream:    stream,
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Clone deep-copies the event, including its payload bytes.
func (e *Event) Clone() *Event {
	out := *e
	out.Data = append(json.RawMessage(nil), e.Data...)
	return &out
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// MintData is the payload of a minted event. Value is decimal.
type MintData struct {
	Owner string `json:"owner"`
	Value string `json:"value"`
}

// TransferData is the payload of a transferred event. Value is decimal.
type TransferData struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}
