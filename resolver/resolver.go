// Package resolver turns a user-typed search into canonical asset records
// and drives the publish/refine pipeline around it. Resolution tries a
// fixed chain of strategies — native shortcut, allow-list match, direct
// contract lookup, external search index — and short-circuits on the first
// one that produces records.
package resolver

import (
	"context"

	"github.com/astrolabe-cli/astrolabe/assetlist"
	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/contractmeta"
	"github.com/astrolabe-cli/astrolabe/networks"
	"github.com/astrolabe-cli/astrolabe/searchindex"
)

// ListSource supplies the aggregated allow-list entries. Satisfied by
// *assetlist.Aggregator.
type ListSource interface {
	Aggregate(ctx context.Context, net networks.Network) ([]assetlist.Entry, []assetlist.ValidationError)
}

// MetadataClient is the contract metadata surface the resolver needs.
// Satisfied by *contractmeta.Client.
type MetadataClient interface {
	TokenDetails(ctx context.Context, contractID string) (*contractmeta.TokenDetails, error)
	IsSACContract(ctx context.Context, contractID string) (bool, error)
}

// SearchClient is the external search index surface. Satisfied by
// *searchindex.Client.
type SearchClient interface {
	SearchAssets(ctx context.Context, text string) ([]searchindex.Hit, error)
}

// AssetScanner is the single-asset scan surface used inline on contract
// lookups. Satisfied by *scanner.Client.
type AssetScanner interface {
	ScanAsset(ctx context.Context, id string) (*common.Verdict, error)
}

// Resolver resolves one query to zero or more canonical asset records.
type Resolver struct {
	lists  ListSource
	meta   MetadataClient
	search SearchClient
	scans  AssetScanner

	// Report receives non-retryable faults (malformed service responses).
	// They are absorbed — the offending source contributes nothing — but
	// an observability collaborator may want to hear about them. nil
	// means drop them.
	Report func(error)

	strategies []strategy
}

func NewResolver(lists ListSource, meta MetadataClient, search SearchClient, scans AssetScanner) *Resolver {
	r := &Resolver{
		lists:  lists,
		meta:   meta,
		search: search,
		scans:  scans,
	}
	r.strategies = []strategy{
		nativeStrategy{},
		trustedContractStrategy{lists: lists},
		contractLookupStrategy{meta: meta, scans: scans},
		searchIndexStrategy{search: search},
	}
	return r
}

// Resolve runs the strategy chain for q. "Not found" is never an error:
// the result is simply empty. The only errors returned are a cancelled
// context and a fundamentally broken request; per-source faults are
// absorbed and reported through Report.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]common.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := []common.Asset{}
	for _, s := range r.strategies {
		out := s.resolve(ctx, q)
		switch out.kind {
		case outcomeNotApplicable:
			continue
		case outcomeFault:
			if r.Report != nil {
				r.Report(out.err)
			}
			continue
		case outcomeFound:
			if len(out.records) > 0 {
				records = out.records
			}
		}
		// an applicable strategy ends the chain whether or not it found
		// anything; later steps are fallbacks for inapplicable ones
		break
	}

	r.backfillIcons(ctx, q, records)
	return records, nil
}

// backfillIcons fills missing icons from the aggregated asset-list icon
// index. Best-effort: it never blocks or fails the primary result.
func (r *Resolver) backfillIcons(ctx context.Context, q Query, records []common.Asset) {
	missing := false
	for _, rec := range records {
		if rec.IconURL == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	entries, _ := r.lists.Aggregate(ctx, q.Network)
	idx := assetlist.NewIconIndex(entries)
	for i := range records {
		if records[i].IconURL != "" {
			continue
		}
		records[i].IconURL = idx.Lookup(records[i].Code, records[i].Issuer, records[i].ContractID)
	}
}
