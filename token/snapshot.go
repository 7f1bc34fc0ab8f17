package token

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/holiman/uint256"
)

// Snapshot is a point-in-time copy of the ledger state. It is what the
// persistence and commitment layers consume: deep-copied, with deterministic
// account ordering.
type Snapshot struct {
	TotalSupply *uint256.Int
	Balances    map[Address]*uint256.Int
}

// Snapshot captures the current ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	s := &Snapshot{
		TotalSupply: l.totalSupply.Clone(),
		Balances:    make(map[Address]*uint256.Int, len(l.balances)),
	}
	for a, b := range l.balances {
		s.Balances[a] = b.Clone()
	}
	return s
}

// FromSnapshot reconstructs a ledger from a snapshot, with no pending
// records. Hosts use it to restore state whose records are already
// persisted, or to roll back after a failed commit.
func FromSnapshot(s *Snapshot) *Ledger {
	l := &Ledger{
		totalSupply: s.TotalSupply.Clone(),
		balances:    make(map[Address]*uint256.Int, len(s.Balances)),
	}
	for a, b := range s.Balances {
		l.balances[a] = b.Clone()
	}
	return l
}

// Clone deep-copies the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		TotalSupply: s.TotalSupply.Clone(),
		Balances:    make(map[Address]*uint256.Int, len(s.Balances)),
	}
	for a, b := range s.Balances {
		out.Balances[a] = b.Clone()
	}
	return out
}

// Accounts returns the snapshot's account identifiers in byte order.
func (s *Snapshot) Accounts() []Address {
	accounts := make([]Address, 0, len(s.Balances))
	for a := range s.Balances {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i][:], accounts[j][:]) < 0
	})
	return accounts
}

// Sum adds up all recorded balances.
func (s *Snapshot) Sum() *uint256.Int {
	sum := uint256.NewInt(0)
	for _, b := range s.Balances {
		var overflow bool
		sum, overflow = new(uint256.Int).AddOverflow(sum, b)
		if overflow {
			// Unreachable while CheckConservation holds; surface loudly
			// rather than wrap silently.
			panic("token: balance sum overflow")
		}
	}
	return sum
}

// CheckConservation verifies that the balances sum to the total supply.
// Replay and tests call this after every applied step.
func (s *Snapshot) CheckConservation() error {
	if sum := s.Sum(); !sum.Eq(s.TotalSupply) {
		return fmt.Errorf("token: conservation violated: balances sum %s, total supply %s",
			sum.Dec(), s.TotalSupply.Dec())
	}
	return nil
}
