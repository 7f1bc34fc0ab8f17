package stateroot_test

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/stateroot"
	"github.com/pflow-xyz/go-ledger/token"
)

func addr(last byte) token.Address {
	var a token.Address
	a[token.AddressLength-1] = last
	return a
}

func TestCommitDeterministic(t *testing.T) {
	alice, bob := addr(0x01), addr(0x02)

	build := func() *token.Snapshot {
		l := token.New(alice, uint256.NewInt(100))
		if err := l.Transfer(alice, bob, uint256.NewInt(25)); err != nil {
			t.Fatalf("transfer failed: %v", err)
		}
		return l.Snapshot()
	}

	r1 := stateroot.Commit(build())
	r2 := stateroot.Commit(build())
	if r1 != r2 {
		t.Errorf("same state, different roots: %s vs %s", r1, r2)
	}
}

func TestCommitPathIndependent(t *testing.T) {
	alice, bob, carol := addr(0x01), addr(0x02), addr(0x03)

	// Two different transfer histories reaching the same balances.
	l1 := token.New(alice, uint256.NewInt(100))
	if err := l1.Transfer(alice, bob, uint256.NewInt(40)); err != nil {
		t.Fatal(err)
	}
	if err := l1.Transfer(alice, carol, uint256.NewInt(10)); err != nil {
		t.Fatal(err)
	}

	l2 := token.New(alice, uint256.NewInt(100))
	if err := l2.Transfer(alice, carol, uint256.NewInt(10)); err != nil {
		t.Fatal(err)
	}
	if err := l2.Transfer(alice, bob, uint256.NewInt(40)); err != nil {
		t.Fatal(err)
	}

	if r1, r2 := stateroot.Commit(l1.Snapshot()), stateroot.Commit(l2.Snapshot()); r1 != r2 {
		t.Errorf("same balances, different roots: %s vs %s", r1, r2)
	}
}

func TestCommitObservesBalanceChanges(t *testing.T) {
	alice, bob := addr(0x01), addr(0x02)

	l := token.New(alice, uint256.NewInt(100))
	before := stateroot.Commit(l.Snapshot())

	if err := l.Transfer(alice, bob, uint256.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	after := stateroot.Commit(l.Snapshot())

	if before == after {
		t.Error("root unchanged after a balance movement")
	}
}

func TestRootString(t *testing.T) {
	l := token.New(addr(0x01), uint256.NewInt(7))
	s := stateroot.Commit(l.Snapshot()).String()
	if len(s) != 2+64 {
		t.Errorf("root hex length = %d, want 66", len(s))
	}
	if s[:2] != "0x" {
		t.Errorf("root should be 0x-prefixed: %s", s)
	}
}
