// Package translog exports and analyzes streams of transfer records for
// external observers. The ledger never reads these back; the package exists
// for the consumers on the other side of the append-only record channel.
package translog

import (
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/token"
)

// Summary provides basic statistics about a record stream.
type Summary struct {
	NumRecords  int
	NumMints    int
	NumAccounts int          // distinct accounts appearing as source or destination
	Volume      *uint256.Int // total value moved, mint included
}

// Summarize computes summary statistics for a record stream.
func Summarize(records []token.Transfer) Summary {
	summary := Summary{
		NumRecords: len(records),
		Volume:     uint256.NewInt(0),
	}

	accounts := make(map[token.Address]bool)
	for _, r := range records {
		if r.IsMint() {
			summary.NumMints++
		} else {
			accounts[*r.From] = true
		}
		if r.To != nil {
			accounts[*r.To] = true
		}
		summary.Volume = new(uint256.Int).Add(summary.Volume, r.Value)
	}
	summary.NumAccounts = len(accounts)
	return summary
}
