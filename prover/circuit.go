package prover

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/pflow-xyz/go-ledger/token"
)

// TransferCircuitName is the registry key for the transfer-step circuit.
const TransferCircuitName = "token_transfer"

// MaxBalanceBits bounds provable amounts and balances. 128 bits covers any
// realistic supply and keeps every value well inside the BN254 scalar field.
const MaxBalanceBits = 128

// Witness construction errors.
var (
	ErrSelfTransfer  = errors.New("prover: self-transfer steps are balance-neutral, nothing to prove")
	ErrMintRecord    = errors.New("prover: mint records are not transfer steps")
	ErrNoDestination = errors.New("prover: transfer record without destination")
	ErrOutOfRange    = errors.New("prover: value exceeds provable range")
)

// TransferCircuit asserts one transfer step is well-formed:
//
//	FromBefore >= Amount            (no underflow, the only failure mode)
//	FromAfter  == FromBefore - Amount
//	ToAfter    == ToBefore + Amount (conservation across the step)
//
// All five values are public: the circuit binds a statement about balances
// the host already anchors, it does not hide them.
type TransferCircuit struct {
	FromBefore frontend.Variable `gnark:",public"`
	ToBefore   frontend.Variable `gnark:",public"`
	FromAfter  frontend.Variable `gnark:",public"`
	ToAfter    frontend.Variable `gnark:",public"`
	Amount     frontend.Variable `gnark:",public"`
}

// Define implements frontend.Circuit.
func (c *TransferCircuit) Define(api frontend.API) error {
	// Binary decomposition doubles as a range check.
	api.ToBinary(c.FromBefore, MaxBalanceBits)
	api.ToBinary(c.Amount, MaxBalanceBits)

	// FromBefore - Amount must not underflow; with both range-checked,
	// constraining the difference to the same range rules out wraparound.
	diff := api.Sub(c.FromBefore, c.Amount)
	api.ToBinary(diff, MaxBalanceBits)
	api.AssertIsEqual(c.FromAfter, diff)

	api.AssertIsEqual(c.ToAfter, api.Add(c.ToBefore, c.Amount))
	return nil
}

// StepWitness builds a circuit assignment from the balances around one
// applied transfer: before is the snapshot taken before the step, after the
// snapshot taken once it committed.
//
// Mint records and self-transfers are rejected: the former is construction,
// the latter nets to zero and has no distinct debit/credit pair to prove.
func StepWitness(before, after *token.Snapshot, record token.Transfer) (*TransferCircuit, error) {
	if record.IsMint() {
		return nil, ErrMintRecord
	}
	// Both endpoints are optional on the record type; a transfer step
	// needs both.
	if record.To == nil {
		return nil, ErrNoDestination
	}
	if *record.From == *record.To {
		return nil, ErrSelfTransfer
	}

	balanceOf := func(s *token.Snapshot, a token.Address) (frontend.Variable, error) {
		b, ok := s.Balances[a]
		if !ok {
			return 0, nil
		}
		if b.BitLen() > MaxBalanceBits {
			return nil, fmt.Errorf("%w: balance %s", ErrOutOfRange, b.Dec())
		}
		return b.ToBig(), nil
	}

	if record.Value.BitLen() > MaxBalanceBits {
		return nil, fmt.Errorf("%w: amount %s", ErrOutOfRange, record.Value.Dec())
	}

	fromBefore, err := balanceOf(before, *record.From)
	if err != nil {
		return nil, err
	}
	toBefore, err := balanceOf(before, *record.To)
	if err != nil {
		return nil, err
	}
	fromAfter, err := balanceOf(after, *record.From)
	if err != nil {
		return nil, err
	}
	toAfter, err := balanceOf(after, *record.To)
	if err != nil {
		return nil, err
	}

	return &TransferCircuit{
		FromBefore: fromBefore,
		ToBefore:   toBefore,
		FromAfter:  fromAfter,
		ToAfter:    toAfter,
		Amount:     record.Value.ToBig(),
	}, nil
}
