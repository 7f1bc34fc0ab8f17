// Package token implements a minimal fungible-token ledger: a fixed total
// supply, per-account balances with absent-key-means-zero semantics, and a
// single mutating operation that moves balance between two accounts.
//
// The ledger is pure state: the caller identity for mutating operations is
// threaded in explicitly by the host adapter (see the host package), and
// every balance movement is exposed as an appended Transfer record rather
// than a hidden side effect, so both the host and tests can observe exactly
// what was emitted.
package token

import (
	"github.com/holiman/uint256"
)

// Ledger tracks a fixed total supply and per-account balances.
//
// Operations execute whole-call atomically from the ledger's point of view;
// serializing concurrent callers is the hosting environment's job (the host
// package wraps a Ledger in a mutex for exactly that reason).
type Ledger struct {
	totalSupply *uint256.Int
	balances    map[Address]*uint256.Int
	records     []Transfer
}

// New creates a ledger with the full supply credited to owner, and emits the
// mint record (nil From, owner To). Construction cannot fail; a zero supply
// is legal.
func New(owner Address, totalSupply *uint256.Int) *Ledger {
	supply := totalSupply.Clone()
	l := &Ledger{
		totalSupply: supply,
		balances:    map[Address]*uint256.Int{owner: supply.Clone()},
	}
	to := owner
	l.records = append(l.records, Transfer{From: nil, To: &to, Value: supply.Clone()})
	return l
}

// TotalSupply returns the fixed total supply.
func (l *Ledger) TotalSupply() *uint256.Int {
	return l.totalSupply.Clone()
}

// BalanceOf returns the balance for account, zero for accounts the ledger
// has never seen.
func (l *Ledger) BalanceOf(account Address) *uint256.Int {
	if b, ok := l.balances[account]; ok {
		return b.Clone()
	}
	return uint256.NewInt(0)
}

// Transfer moves amount from caller to to. The caller identity comes from
// the execution context, not from a forgeable argument; see host.CallerFrom.
//
// It fails with ErrInsufficientBalance when caller's balance is below
// amount, leaving the ledger untouched. On success the debit is written
// before the credit side is read, so a self-transfer nets to the original
// balance instead of doubling or zeroing it.
func (l *Ledger) Transfer(caller, to Address, amount *uint256.Int) error {
	fromBalance := l.BalanceOf(caller)
	if fromBalance.Lt(amount) {
		return ErrInsufficientBalance
	}

	l.setBalance(caller, new(uint256.Int).Sub(fromBalance, amount))
	toBalance := l.BalanceOf(to)
	l.setBalance(to, new(uint256.Int).Add(toBalance, amount))

	from, dest := caller, to
	l.records = append(l.records, Transfer{From: &from, To: &dest, Value: amount.Clone()})
	return nil
}

func (l *Ledger) setBalance(account Address, b *uint256.Int) {
	l.balances[account] = b
}

// Records returns the transfer records emitted so far, oldest first,
// including the construction mint. The returned slice is a deep copy.
func (l *Ledger) Records() []Transfer {
	out := make([]Transfer, len(l.records))
	for i, r := range l.records {
		out[i] = r.Clone()
	}
	return out
}

// DrainRecords returns the emitted records and resets the pending list.
// Host adapters use it to forward records to their sink exactly once.
func (l *Ledger) DrainRecords() []Transfer {
	out := l.records
	l.records = nil
	return out
}
