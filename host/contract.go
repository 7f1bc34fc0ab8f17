package host

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/token"
)

// ErrNoCaller is returned when a mutating entry point is invoked without an
// environment-attributed caller identity on the context.
var ErrNoCaller = errors.New("host: no caller identity in context")

// ErrNotFound is returned when a registry lookup misses.
var ErrNotFound = errors.New("host: contract instance not found")

// RecordSink receives transfer records as they are emitted. The mint record
// arrives during Construct. A sink failure aborts the operation that
// produced the record: sinks that persist records make durability part of
// the call. Sinks must not call back into the contract.
type RecordSink interface {
	Emit(record token.Transfer) error
}

// RecordSinkFunc adapts a function to the RecordSink interface.
type RecordSinkFunc func(record token.Transfer) error

func (f RecordSinkFunc) Emit(record token.Transfer) error { return f(record) }

// Contract is a deployed ledger instance. The mutex makes each entry point
// execute whole-call atomically; the host never interleaves finer than that.
type Contract struct {
	id string

	mu     sync.Mutex
	ledger *token.Ledger
	sink   RecordSink
}

// Construct deploys a new instance, crediting the full supply to the caller
// identity on ctx. It mirrors the deployment-time constructor: callable once
// per instance, fails only for a missing caller or a sink that refuses the
// mint record.
func Construct(ctx context.Context, totalSupply *uint256.Int, sink RecordSink) (*Contract, error) {
	caller, ok := CallerFrom(ctx)
	if !ok {
		return nil, ErrNoCaller
	}
	c := &Contract{
		id:     uuid.New().String(),
		ledger: token.New(caller, totalSupply),
		sink:   sink,
	}
	if err := c.flush(); err != nil {
		return nil, err
	}
	return c, nil
}

// Attach wraps an already-constructed ledger (typically rebuilt from a
// journal) as a deployed instance with a known handle. Records emitted
// before attachment are discarded, not forwarded: a replayed ledger has
// already had them persisted.
func Attach(id string, ledger *token.Ledger, sink RecordSink) *Contract {
	ledger.DrainRecords()
	return &Contract{id: id, ledger: ledger, sink: sink}
}

// ID returns the instance handle.
func (c *Contract) ID() string { return c.id }

// TotalSupply is the read-only supply query.
func (c *Contract) TotalSupply(ctx context.Context) *uint256.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.TotalSupply()
}

// BalanceOf is the read-only balance query; unknown accounts read as zero.
func (c *Contract) BalanceOf(ctx context.Context, account token.Address) *uint256.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.BalanceOf(account)
}

// Transfer moves amount from the context's caller to to. Errors from the
// ledger and the sink are surfaced as-is: no retry, no logging. A sink
// failure rolls the in-memory state back, so a caller never sees success
// for a step the sink did not accept.
func (c *Contract) Transfer(ctx context.Context, to token.Address, amount *uint256.Int) error {
	caller, ok := CallerFrom(ctx)
	if !ok {
		return ErrNoCaller
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.ledger.Snapshot()
	if err := c.ledger.Transfer(caller, to, amount); err != nil {
		return err
	}
	if err := c.flush(); err != nil {
		c.ledger = token.FromSnapshot(before)
		return err
	}
	return nil
}

// Snapshot exposes the current ledger state for persistence and commitment.
func (c *Contract) Snapshot(ctx context.Context) *token.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Snapshot()
}

// flush forwards pending records to the sink, stopping at the first
// failure. Caller holds c.mu.
func (c *Contract) flush() error {
	records := c.ledger.DrainRecords()
	if c.sink == nil {
		return nil
	}
	for _, r := range records {
		if err := c.sink.Emit(r); err != nil {
			return err
		}
	}
	return nil
}

// Registry tracks deployed instances by handle.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]*Contract
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]*Contract)}
}

// Deploy constructs a new instance and registers it.
func (r *Registry) Deploy(ctx context.Context, totalSupply *uint256.Int, sink RecordSink) (*Contract, error) {
	c, err := Construct(ctx, totalSupply, sink)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.contracts[c.ID()] = c
	r.mu.Unlock()
	return c, nil
}

// Get looks up an instance by handle.
func (r *Registry) Get(id string) (*Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns the registered instance handles.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.contracts))
	for id := range r.contracts {
		ids = append(ids, id)
	}
	return ids
}
