package resolver

import (
	"context"
	"strings"

	"github.com/astrolabe-cli/astrolabe/common"
)

// outcomeKind tags a strategy's result so the chain can distinguish "this
// strategy doesn't apply to the query" from "it applied and found nothing".
type outcomeKind int

const (
	outcomeNotApplicable outcomeKind = iota
	outcomeFound
	outcomeFault
)

type outcome struct {
	kind    outcomeKind
	records []common.Asset
	err     error
}

func notApplicable() outcome {
	return outcome{kind: outcomeNotApplicable}
}

func found(records []common.Asset) outcome {
	return outcome{kind: outcomeFound, records: records}
}

func fault(err error) outcome {
	return outcome{kind: outcomeFault, err: err}
}

// strategy is one step of the resolution fallback chain. Strategies are
// evaluated in a fixed order and the first non-empty Found short-circuits
// the rest, so reordering the chain never requires touching control flow.
type strategy interface {
	name() string
	resolve(ctx context.Context, q Query) outcome
}

// nativeStrategy short-circuits a query that names the native asset, by
// its SAC contract id or by its bare code. The native asset bypasses
// verification entirely: it is trusted regardless of allow-list state.
type nativeStrategy struct{}

func (s nativeStrategy) name() string { return "native" }

func (s nativeStrategy) resolve(ctx context.Context, q Query) outcome {
	net := q.Network
	text := strings.TrimSpace(q.Text)
	if text != net.GetNativeContractID() && !strings.EqualFold(text, net.GetNativeAssetCode()) {
		return notApplicable()
	}
	return found([]common.Asset{{
		Code:       net.GetNativeAssetCode(),
		ContractID: net.GetNativeContractID(),
		Domain:     "stellar.org",
		Name:       "Stellar Lumens",
		Native:     true,
	}})
}

// trustedContractStrategy answers a contract-id query from the aggregated
// allow-lists without touching the ledger. Every matching list entry
// becomes a candidate record.
type trustedContractStrategy struct {
	lists ListSource
}

func (s trustedContractStrategy) name() string { return "trusted-list" }

func (s trustedContractStrategy) resolve(ctx context.Context, q Query) outcome {
	if !common.IsContractID(strings.TrimSpace(q.Text)) {
		return notApplicable()
	}
	contractID := strings.TrimSpace(q.Text)

	entries, _ := s.lists.Aggregate(ctx, q.Network)
	records := []common.Asset{}
	for _, e := range entries {
		if e.ContractID != contractID {
			continue
		}
		records = append(records, common.Asset{
			Code:       e.Code,
			Issuer:     e.Issuer,
			ContractID: e.ContractID,
			Domain:     e.Domain,
			IconURL:    e.Icon,
		})
	}
	if len(records) == 0 {
		return notApplicable()
	}
	return found(records)
}

// contractLookupStrategy resolves a contract id that is on no allow-list by
// fetching its on-chain token metadata directly. SAC detection runs
// concurrently with the metadata lookup: when the contract is a thin
// wrapper over a classic asset, the record takes the wrapped asset's
// issuer identity so trust classification and balance matching operate on
// the classic issuer, not the wrapper contract.
type contractLookupStrategy struct {
	meta  MetadataClient
	scans AssetScanner
}

func (s contractLookupStrategy) name() string { return "contract-lookup" }

func (s contractLookupStrategy) resolve(ctx context.Context, q Query) outcome {
	contractID := strings.TrimSpace(q.Text)
	if !common.IsContractID(contractID) {
		return notApplicable()
	}

	var (
		details *contractDetails
		isSAC   bool
		sacErr  error
		detErr  error
	)
	common.RunParallel(
		func() error {
			d, err := s.meta.TokenDetails(ctx, contractID)
			if err != nil {
				detErr = err
				return err
			}
			details = &contractDetails{name: d.Name, symbol: d.Symbol, decimals: d.Decimals}
			return nil
		},
		func() error {
			isSAC, sacErr = s.meta.IsSACContract(ctx, contractID)
			return sacErr
		},
	)
	if detErr != nil || details == nil {
		// the ledger has no such token (or the lookup transiently failed):
		// an unresolvable contract id is not an error, it is no results
		return found([]common.Asset{})
	}

	record := common.Asset{
		Code:       details.symbol,
		ContractID: contractID,
		Name:       details.name,
	}
	// when SAC detection is inconclusive the name shape decides
	if code, issuer, ok := common.ParseSACName(details.name); ok && (isSAC || sacErr != nil) {
		record.Code = code
		record.Issuer = issuer
		record.Name = ""
	}

	// scan inline so the first published record already carries a verdict;
	// a failed scan leaves the verdict absent, silently
	if s.scans != nil {
		if verdict, err := s.scans.ScanAsset(ctx, contractID); err == nil {
			record.Verdict = verdict
		}
	}

	return found([]common.Asset{record})
}

type contractDetails struct {
	name     string
	symbol   string
	decimals int
}

// searchIndexStrategy treats the query as a classic asset code fragment
// and asks the external search index. Transport failures degrade to an
// empty result; a malformed response shape is reported as a fault and
// contributes nothing.
type searchIndexStrategy struct {
	search SearchClient
}

func (s searchIndexStrategy) name() string { return "search-index" }

func (s searchIndexStrategy) resolve(ctx context.Context, q Query) outcome {
	text := strings.TrimSpace(q.Text)
	if text == "" || common.IsContractID(text) {
		return notApplicable()
	}

	hits, err := s.search.SearchAssets(ctx, text)
	if err != nil {
		return fault(err)
	}

	records := []common.Asset{}
	for _, hit := range hits {
		records = append(records, common.Asset{
			Code:    hit.Code,
			Issuer:  hit.Issuer,
			Domain:  hit.Domain,
			IconURL: hit.IconURL,
		})
	}
	return found(records)
}
