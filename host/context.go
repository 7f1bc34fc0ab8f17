// Package host adapts the pure token ledger to a hosting execution
// environment: it supplies the trusted caller identity for mutating calls,
// serializes whole-call access to each deployed instance, and forwards
// emitted transfer records to the host's sink.
package host

import (
	"context"

	"github.com/pflow-xyz/go-ledger/token"
)

type callerKey struct{}

// WithCaller binds the environment-attributed caller identity to the
// context. Only the host boundary sets this; the ledger trusts it.
func WithCaller(ctx context.Context, caller token.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom extracts the caller identity from the context.
func CallerFrom(ctx context.Context) (token.Address, bool) {
	caller, ok := ctx.Value(callerKey{}).(token.Address)
	return caller, ok
}
