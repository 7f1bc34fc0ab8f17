package token

import "errors"

// ErrInsufficientBalance is returned by Transfer when the caller's balance
// cannot cover the requested amount. It is the only failure mode the ledger
// has: reads and construction cannot fail.
var ErrInsufficientBalance = errors.New("token: insufficient balance")
