package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/astrolabe-cli/astrolabe/assetlist"
	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/guard"
	"github.com/astrolabe-cli/astrolabe/networks"
	"github.com/astrolabe-cli/astrolabe/scanner"
	"github.com/astrolabe-cli/astrolabe/trust"
)

// ErrSuperseded marks a resolution that lost its place to a newer query.
// It is not a failure: the caller discards the work and says nothing.
var ErrSuperseded = errors.New("resolution superseded by a newer query")

// Result is what the display layer consumes. It is re-published on every
// refinement; verdicts can attach to rows that are already visible, so
// consumers re-render on each update rather than assuming monotonic growth.
type Result struct {
	VerifiedAssets   []common.Asset `json:"verified_assets"`
	UnverifiedAssets []common.Asset `json:"unverified_assets"`

	// IsVerifiedToken is true when the query resolved to at least one
	// verified record.
	IsVerifiedToken bool `json:"is_verified_token"`

	// ShowVerificationInfo is false on networks without curated lists,
	// where the verified/unverified distinction carries no meaning.
	ShowVerificationInfo bool `json:"show_verification_info"`
}

// Options tunes one search.
type Options struct {
	// NoScan disables the security scan refinement; the policy decision
	// is the caller's, not this subsystem's.
	NoScan bool

	// AccountID relates results to the searching account's balances.
	AccountID string
}

// Pipeline owns the full flow of one search: mint a token, resolve,
// classify, publish, then refine with scan verdicts chunk by chunk.
type Pipeline struct {
	guard       *guard.Guard
	resolver    *Resolver
	coordinator *scanner.Coordinator
	lists       ListSource
}

func NewPipeline(g *guard.Guard, r *Resolver, co *scanner.Coordinator, lists ListSource) *Pipeline {
	return &Pipeline{
		guard:       g,
		resolver:    r,
		coordinator: co,
		lists:       lists,
	}
}

// Search resolves text on net and publishes through emit: once with the
// classified result, then once per scanned chunk as verdicts arrive.
//
// Issuing the search supersedes any in-flight one on the same Pipeline; a
// superseded search returns ErrSuperseded without publishing further. The
// emit callback therefore never observes out-of-order results across
// overlapping searches.
func (p *Pipeline) Search(ctx context.Context, net networks.Network, text string, opts Options, emit func(Result)) error {
	if emit == nil {
		return errors.New("search requires an emit callback")
	}

	tok := p.guard.Issue()
	q := Query{
		Text:              strings.TrimSpace(text),
		Network:           net,
		AccountID:         opts.AccountID,
		AllowVerification: net.IsVerificationSupported(),
		Token:             tok,
	}

	records, err := p.resolver.Resolve(ctx, q)
	if err != nil {
		return err
	}

	entries, _ := p.lists.Aggregate(ctx, net)
	trusted := trust.NewSet(assetlist.TrustedIDs(entries)...)
	verified, unverified := trust.Partition(records, trusted)

	if !p.guard.IsCurrent(tok) {
		return ErrSuperseded
	}
	result := Result{
		VerifiedAssets:       verified,
		UnverifiedAssets:     unverified,
		IsVerifiedToken:      len(verified) > 0,
		ShowVerificationInfo: q.AllowVerification,
	}
	emit(result)

	// contract-id lookups scan inline during resolution; everything else
	// is refined asynchronously in chunks
	if opts.NoScan || common.IsContractID(q.Text) || len(unverified) == 0 {
		return nil
	}
	p.coordinator.ScanIncrementally(ctx, unverified, func(updated []common.Asset) {
		refined := result
		refined.UnverifiedAssets = updated
		emit(refined)
	}, p.guard, tok)

	if !p.guard.IsCurrent(tok) {
		return ErrSuperseded
	}
	return nil
}
