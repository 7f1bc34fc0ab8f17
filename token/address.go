package token

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the fixed size of an account identifier in bytes.
const AddressLength = 32

// Address identifies a balance holder. Identifiers are opaque to the ledger:
// they are supplied by the hosting execution environment and never generated
// or interpreted here.
type Address [AddressLength]byte

// ParseAddress decodes a hex-encoded address, with or without a 0x prefix.
// Short input is left-padded with zero bytes.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("parse address: %w", err)
	}
	if len(raw) > AddressLength {
		return a, fmt.Errorf("parse address: %d bytes exceeds %d", len(raw), AddressLength)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

// AddressFromBytes copies raw bytes into an Address, left-padding short input.
func AddressFromBytes(raw []byte) (Address, error) {
	var a Address
	if len(raw) > AddressLength {
		return a, fmt.Errorf("address from bytes: %d bytes exceeds %d", len(raw), AddressLength)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

// String returns the 0x-prefixed hex encoding.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Bytes returns a copy of the raw identifier bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}
