package token

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Transfer is the notification record emitted for every balance movement.
// The construction-time mint is recorded with a nil From. Records are
// append-only and consumed by external observers; the ledger never reads
// them back.
type Transfer struct {
	From  *Address
	To    *Address
	Value *uint256.Int
}

// IsMint reports whether the record describes the construction-time mint.
func (t Transfer) IsMint() bool {
	return t.From == nil
}

func (t Transfer) String() string {
	from := "mint"
	if t.From != nil {
		from = t.From.String()
	}
	to := "-"
	if t.To != nil {
		to = t.To.String()
	}
	return fmt.Sprintf("%s -> %s: %s", from, to, t.Value.Dec())
}

// Clone deep-copies the record so callers can hold it past later mutations.
func (t Transfer) Clone() Transfer {
	out := Transfer{Value: t.Value.Clone()}
	if t.From != nil {
		from := *t.From
		out.From = &from
	}
	if t.To != nil {
		to := *t.To
		out.To = &to
	}
	return out
}
