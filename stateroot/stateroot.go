// Package stateroot computes a compact MiMC commitment over a ledger
// snapshot. The host can persist the root next to the journal and check it
// after replay; the curve (BN254) matches the proving stack so the same
// commitment is usable inside circuits.
package stateroot

import (
	"encoding/hex"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/pflow-xyz/go-ledger/token"
)

// Root is a MiMC digest over the canonical snapshot encoding.
type Root [32]byte

// String returns the 0x-prefixed hex encoding.
func (r Root) String() string {
	return "0x" + hex.EncodeToString(r[:])
}

// Commit hashes the snapshot deterministically: total supply first, then
// each (account, balance) pair in byte order of the account identifier.
// Accounts that have fallen back to zero still contribute, so the root
// commits to exactly the stored mapping.
func Commit(s *token.Snapshot) Root {
	h := mimc.NewMiMC()

	writeField(h, s.TotalSupply.Bytes32())
	for _, account := range s.Accounts() {
		writeField(h, account)
		writeField(h, s.Balances[account].Bytes32())
	}

	var root Root
	copy(root[:], h.Sum(nil))
	return root
}

// writeField reduces 32 raw bytes into a BN254 scalar before hashing; MiMC
// only accepts canonical field elements.
func writeField(h hash.Hash, b [32]byte) {
	var e fr.Element
	e.SetBytes(b[:])
	enc := e.Bytes()
	h.Write(enc[:])
}
