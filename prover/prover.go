// Package prover generates Groth16 proofs that a transfer step is
// well-formed: the debit does not underflow and the debit/credit pair
// conserves value. Hosts that anchor state roots elsewhere can attach a
// proof per applied transfer without revealing anything beyond the public
// balances involved.
package prover

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Prover manages circuit compilation, setup, and proof generation.
type Prover struct {
	mu       sync.RWMutex
	circuits map[string]*CompiledCircuit
	curve    ecc.ID
}

// CompiledCircuit holds a compiled circuit and its keys.
type CompiledCircuit struct {
	Name         string
	CS           constraint.ConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
	Constraints  int
}

// NewProver creates a prover on BN254.
func NewProver() *Prover {
	return &Prover{
		circuits: make(map[string]*CompiledCircuit),
		curve:    ecc.BN254,
	}
}

// RegisterCircuit compiles a circuit and runs trusted setup.
// In production the setup comes from a ceremony; this is the dev path.
func (p *Prover) RegisterCircuit(name string, circuit frontend.Circuit) error {
	cs, err := frontend.Compile(p.curve.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return fmt.Errorf("circuit compilation failed: %w", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	p.mu.Lock()
	p.circuits[name] = &CompiledCircuit{
		Name:         name,
		CS:           cs,
		ProvingKey:   pk,
		VerifyingKey: vk,
		Constraints:  cs.GetNbConstraints(),
	}
	p.mu.Unlock()
	return nil
}

// GetCircuit returns a compiled circuit by name.
func (p *Prover) GetCircuit(name string) (*CompiledCircuit, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cc, ok := p.circuits[name]
	return cc, ok
}

// ListCircuits returns all registered circuit names.
func (p *Prover) ListCircuits() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.circuits))
	for name := range p.circuits {
		names = append(names, name)
	}
	return names
}

// Prove generates a proof for the given assignment and returns it together
// with the public witness needed to verify it.
func (p *Prover) Prove(circuitName string, assignment frontend.Circuit) (*Proof, error) {
	cc, ok := p.GetCircuit(circuitName)
	if !ok {
		return nil, fmt.Errorf("circuit %q not registered", circuitName)
	}

	w, err := frontend.NewWitness(assignment, p.curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}

	proof, err := groth16.Prove(cc.CS, cc.ProvingKey, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}

	publicWitness, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("public witness extraction failed: %w", err)
	}

	return &Proof{CircuitName: circuitName, proof: proof, public: publicWitness}, nil
}

// Verify checks a proof against its public witness.
func (p *Prover) Verify(proof *Proof) error {
	cc, ok := p.GetCircuit(proof.CircuitName)
	if !ok {
		return fmt.Errorf("circuit %q not registered", proof.CircuitName)
	}
	return groth16.Verify(proof.proof, cc.VerifyingKey, proof.public)
}

// Proof bundles a Groth16 proof with its public witness.
type Proof struct {
	CircuitName string

	proof  groth16.Proof
	public witness.Witness
}
