package resolver

import (
	"github.com/astrolabe-cli/astrolabe/guard"
	"github.com/astrolabe-cli/astrolabe/networks"
)

// Query is one user search, immutable once issued. A fresh Query is minted
// per (debounced) keystroke and discarded once its resolution completes or
// is superseded.
type Query struct {
	// Text is the raw search input: a contract id or a free-text asset
	// code fragment.
	Text string

	Network networks.Network

	// AccountID is the searching account, used to relate results to
	// existing balance lines.
	AccountID string

	// AllowVerification mirrors the network's verification support at the
	// time the query was issued.
	AllowVerification bool

	// Token marks this query's place in the supersession order.
	Token guard.Token
}
