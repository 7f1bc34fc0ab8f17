package token

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

// Named accounts keep the tests readable.
func alice() Address {
	var a Address
	a[AddressLength-1] = 0x01
	return a
}

func bob() Address {
	var a Address
	a[AddressLength-1] = 0x02
	return a
}

func mustBalance(t *testing.T, l *Ledger, a Address, want uint64) {
	t.Helper()
	if got := l.BalanceOf(a); !got.Eq(uint256.NewInt(want)) {
		t.Errorf("balance of %s = %s, want %d", a, got.Dec(), want)
	}
}

func TestNew(t *testing.T) {
	l := New(alice(), uint256.NewInt(777))

	if got := l.TotalSupply(); !got.Eq(uint256.NewInt(777)) {
		t.Errorf("total supply = %s, want 777", got.Dec())
	}
	mustBalance(t, l, alice(), 777)
	mustBalance(t, l, bob(), 0)
}

func TestNewZeroSupply(t *testing.T) {
	l := New(alice(), uint256.NewInt(0))

	if got := l.TotalSupply(); !got.IsZero() {
		t.Errorf("total supply = %s, want 0", got.Dec())
	}
	mustBalance(t, l, alice(), 0)
}

func TestNewEmitsMintRecord(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))

	records := l.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record after construction, got %d", len(records))
	}
	mint := records[0]
	if !mint.IsMint() {
		t.Error("construction record should have nil From")
	}
	if mint.To == nil || *mint.To != alice() {
		t.Error("construction record should credit the constructing account")
	}
	if !mint.Value.Eq(uint256.NewInt(100)) {
		t.Errorf("mint value = %s, want 100", mint.Value.Dec())
	}
}

func TestBalanceOf(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))

	mustBalance(t, l, alice(), 100)
	mustBalance(t, l, bob(), 0)

	// Idempotent reads.
	first := l.BalanceOf(alice())
	second := l.BalanceOf(alice())
	if !first.Eq(second) {
		t.Error("repeated reads with no mutation should agree")
	}
	if s1, s2 := l.TotalSupply(), l.TotalSupply(); !s1.Eq(s2) {
		t.Error("repeated supply reads should agree")
	}
}

func TestTransfer(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))

	if err := l.Transfer(alice(), bob(), uint256.NewInt(10)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	mustBalance(t, l, alice(), 90)
	mustBalance(t, l, bob(), 10)

	records := l.Records()
	if len(records) != 2 {
		t.Fatalf("expected mint + transfer records, got %d", len(records))
	}
	last := records[1]
	if last.From == nil || *last.From != alice() || last.To == nil || *last.To != bob() {
		t.Error("transfer record endpoints wrong")
	}
	if !last.Value.Eq(uint256.NewInt(10)) {
		t.Errorf("transfer record value = %s, want 10", last.Value.Dec())
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))

	if err := l.Transfer(alice(), bob(), uint256.NewInt(10)); err != nil {
		t.Fatalf("setup transfer failed: %v", err)
	}

	err := l.Transfer(alice(), bob(), uint256.NewInt(100))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Failure must leave both sides untouched.
	mustBalance(t, l, alice(), 90)
	mustBalance(t, l, bob(), 10)

	// And emit nothing.
	if got := len(l.Records()); got != 2 {
		t.Errorf("failed transfer emitted a record: %d records", got)
	}
}

func TestTransferFromEmptyAccount(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))

	err := l.Transfer(bob(), alice(), uint256.NewInt(1))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	mustBalance(t, l, alice(), 100)
	mustBalance(t, l, bob(), 0)
}

func TestTransferZeroAmount(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))

	// Zero moves are legal, even from an empty account.
	if err := l.Transfer(bob(), alice(), uint256.NewInt(0)); err != nil {
		t.Fatalf("zero transfer failed: %v", err)
	}
	mustBalance(t, l, alice(), 100)
	mustBalance(t, l, bob(), 0)
}

func TestSelfTransfer(t *testing.T) {
	l := New(alice(), uint256.NewInt(50))

	// The debit is written before the credit side is re-read, so the
	// round trip must net to the original balance.
	if err := l.Transfer(alice(), alice(), uint256.NewInt(50)); err != nil {
		t.Fatalf("self transfer failed: %v", err)
	}
	mustBalance(t, l, alice(), 50)

	if err := l.Snapshot().CheckConservation(); err != nil {
		t.Error(err)
	}
}

func TestConservation(t *testing.T) {
	l := New(alice(), uint256.NewInt(1000))

	var c Address
	c[AddressLength-1] = 0x03

	steps := []struct {
		from, to Address
		amount   uint64
	}{
		{alice(), bob(), 250},
		{bob(), c, 100},
		{c, alice(), 100},
		{alice(), alice(), 850},
		{bob(), alice(), 150},
	}
	for i, s := range steps {
		if err := l.Transfer(s.from, s.to, uint256.NewInt(s.amount)); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if err := l.Snapshot().CheckConservation(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	mustBalance(t, l, alice(), 1000)
	mustBalance(t, l, bob(), 0)
	mustBalance(t, l, c, 0)
}

func TestSnapshotIsolation(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))
	snap := l.Snapshot()

	if err := l.Transfer(alice(), bob(), uint256.NewInt(40)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	// The snapshot must not observe later mutations.
	if got := snap.Balances[alice()]; !got.Eq(uint256.NewInt(100)) {
		t.Errorf("snapshot balance mutated: %s", got.Dec())
	}
	if len(snap.Accounts()) != 1 {
		t.Errorf("snapshot accounts = %d, want 1", len(snap.Accounts()))
	}
}

func TestDrainRecords(t *testing.T) {
	l := New(alice(), uint256.NewInt(100))
	if err := l.Transfer(alice(), bob(), uint256.NewInt(5)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	drained := l.DrainRecords()
	if len(drained) != 2 {
		t.Fatalf("drained %d records, want 2", len(drained))
	}
	if got := l.Records(); len(got) != 0 {
		t.Errorf("records remain after drain: %d", len(got))
	}
}
