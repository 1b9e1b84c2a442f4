package assetlist

import (
	"context"
	"strings"
	"sync"

	"github.com/astrolabe-cli/astrolabe/cache"
	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/networks"
)

// aggregateCacheKey is the single cache key the merged aggregate lives
// under, per network, in cache.KindAssetLists.
const aggregateCacheKey = "aggregate"

// Aggregator merges the network's configured allow-lists into one
// deduplicated set of trusted entries, consulting the cache store first.
type Aggregator struct {
	client *Client
	store  *cache.Store
}

func NewAggregator(store *cache.Store, client *Client) *Aggregator {
	return &Aggregator{
		client: client,
		store:  store,
	}
}

// Aggregate returns the merged allow-list entries for net.
//
// When a valid non-empty aggregate is cached it is returned unchanged with
// zero network calls — the dominant path. Otherwise every configured list
// URL is fetched independently; one list failing to download or validate
// never blocks the others. The merged result is deduplicated, seeded with
// the network's native asset identity, and written back to the store.
func (a *Aggregator) Aggregate(ctx context.Context, net networks.Network) ([]Entry, []ValidationError) {
	return a.AggregateURLs(ctx, net, net.GetAssetListURLs())
}

// AggregateURLs is Aggregate with an explicit URL set, used when the caller
// configures extra lists on top of the network's defaults.
func (a *Aggregator) AggregateURLs(ctx context.Context, net networks.Network, urls []string) ([]Entry, []ValidationError) {
	cached := []Entry{}
	if a.store.LookupJSON(cache.KindAssetLists, net.GetName(), aggregateCacheKey, &cached) && len(cached) > 0 {
		return cached, nil
	}

	var (
		mu     sync.Mutex
		lists  []*List
		verrs  []ValidationError
		fetchs []func() error
	)
	for _, url := range urls {
		url := url
		fetchs = append(fetchs, func() error {
			list, errs, err := a.client.FetchList(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				verrs = append(verrs, ValidationError{
					ListURL: url,
					Reason:  err.Error(),
				})
				return nil // a failed list must not block its siblings
			}
			verrs = append(verrs, errs...)
			if list != nil {
				lists = append(lists, list)
			}
			return nil
		})
	}
	common.RunParallel(fetchs...)

	merged := mergeLists(net, lists)
	if len(merged) > 0 {
		a.store.WriteJSON(cache.KindAssetLists, net.GetName(), aggregateCacheKey, merged)
	}
	return merged, verrs
}

// mergeLists deduplicates entries across lists by contract id and by
// issuer, always seeding the native asset identity first.
func mergeLists(net networks.Network, lists []*List) []Entry {
	merged := []Entry{nativeEntry(net)}
	seenContract := map[string]bool{net.GetNativeContractID(): true}
	seenIssuer := map[string]bool{}

	for _, list := range lists {
		for _, e := range list.Assets {
			if e.ContractID != "" && seenContract[e.ContractID] {
				continue
			}
			if e.ContractID == "" && e.Issuer != "" && seenIssuer[e.Issuer] {
				continue
			}
			if e.ContractID != "" {
				seenContract[e.ContractID] = true
			}
			if e.Issuer != "" {
				seenIssuer[e.Issuer] = true
			}
			merged = append(merged, e)
		}
	}
	return merged
}

func nativeEntry(net networks.Network) Entry {
	return Entry{
		ContractID: net.GetNativeContractID(),
		Code:       net.GetNativeAssetCode(),
		Domain:     "stellar.org",
		Decimals:   7,
	}
}

// TrustedIDs flattens entries into the identifier set used by the trust
// classifier: every contract id and every issuer id that appears on a list.
func TrustedIDs(entries []Entry) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, e := range entries {
		for _, id := range []string{e.ContractID, e.Issuer} {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// IconIndex maps (code, identifier) to an icon URL for best-effort icon
// backfill on resolved records.
type IconIndex map[string]string

func NewIconIndex(entries []Entry) IconIndex {
	idx := IconIndex{}
	for _, e := range entries {
		if e.Icon == "" {
			continue
		}
		if e.Issuer != "" {
			idx[iconKey(e.Code, e.Issuer)] = e.Icon
		}
		if e.ContractID != "" {
			idx[iconKey(e.Code, e.ContractID)] = e.Icon
		}
	}
	return idx
}

// Lookup returns the icon for an asset identified by code plus issuer or
// contract id, preferring the issuer identity.
func (idx IconIndex) Lookup(code, issuer, contractID string) string {
	if issuer != "" {
		if icon, found := idx[iconKey(code, issuer)]; found {
			return icon
		}
	}
	if contractID != "" {
		if icon, found := idx[iconKey(code, contractID)]; found {
			return icon
		}
	}
	return ""
}

func iconKey(code, id string) string {
	return strings.ToUpper(code) + "|" + id
}
