package resolver_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/astrolabe-cli/astrolabe/assetlist"
	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/contractmeta"
	"github.com/astrolabe-cli/astrolabe/networks"
	"github.com/astrolabe-cli/astrolabe/resolver"
	"github.com/astrolabe-cli/astrolabe/searchindex"
)

var (
	nativeContract = "C" + strings.Repeat("X", 55)
	usdcIssuer     = "G" + strings.Repeat("A", 55)
	wrapperID      = "C" + strings.Repeat("W", 55)
	listedContract = "C" + strings.Repeat("L", 55)
)

// fakeNetwork satisfies networks.Network for the methods the pipeline
// touches; the rest are inherited from the embedded nil interface and
// panic loudly if reached.
type fakeNetwork struct {
	networks.Network
	verification bool
}

func (f *fakeNetwork) GetName() string               { return "pubnet" }
func (f *fakeNetwork) GetNativeAssetCode() string    { return "XLM" }
func (f *fakeNetwork) GetNativeContractID() string   { return nativeContract }
func (f *fakeNetwork) IsVerificationSupported() bool { return f.verification }

type fakeLists struct {
	entries []assetlist.Entry
	calls   int
}

func (f *fakeLists) Aggregate(ctx context.Context, net networks.Network) ([]assetlist.Entry, []assetlist.ValidationError) {
	f.calls++
	return f.entries, nil
}

type fakeMeta struct {
	details map[string]*contractmeta.TokenDetails
	sac     map[string]bool
	calls   int
}

func (f *fakeMeta) TokenDetails(ctx context.Context, contractID string) (*contractmeta.TokenDetails, error) {
	f.calls++
	d, found := f.details[contractID]
	if !found {
		return nil, fmt.Errorf("no contract %s", contractID)
	}
	return d, nil
}

func (f *fakeMeta) IsSACContract(ctx context.Context, contractID string) (bool, error) {
	return f.sac[contractID], nil
}

type fakeSearch struct {
	hits  []searchindex.Hit
	err   error
	calls int
}

func (f *fakeSearch) SearchAssets(ctx context.Context, text string) ([]searchindex.Hit, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeAssetScanner struct {
	verdict *common.Verdict
	err     error
	calls   int
}

func (f *fakeAssetScanner) ScanAsset(ctx context.Context, id string) (*common.Verdict, error) {
	f.calls++
	return f.verdict, f.err
}

type fixture struct {
	lists  *fakeLists
	meta   *fakeMeta
	search *fakeSearch
	scans  *fakeAssetScanner
	res    *resolver.Resolver
	net    *fakeNetwork
}

func newFixture() *fixture {
	f := &fixture{
		lists:  &fakeLists{},
		meta:   &fakeMeta{details: map[string]*contractmeta.TokenDetails{}, sac: map[string]bool{}},
		search: &fakeSearch{},
		scans:  &fakeAssetScanner{},
		net:    &fakeNetwork{verification: true},
	}
	f.res = resolver.NewResolver(f.lists, f.meta, f.search, f.scans)
	return f
}

func (f *fixture) query(text string) resolver.Query {
	return resolver.Query{Text: text, Network: f.net, AllowVerification: true}
}

func TestNativeShortcutByContractID(t *testing.T) {
	f := newFixture()

	records, err := f.res.Resolve(context.Background(), f.query(nativeContract))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(records))
	}
	if !records[0].Native || records[0].Code != "XLM" {
		t.Errorf("expected the native record, got %+v", records[0])
	}
	if f.meta.calls != 0 || f.search.calls != 0 {
		t.Errorf("native shortcut must not consult the ledger or search index")
	}
}

func TestNativeShortcutByCode(t *testing.T) {
	f := newFixture()

	records, err := f.res.Resolve(context.Background(), f.query("xlm"))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(records) != 1 || !records[0].Native {
		t.Fatalf("expected the native record for the bare code, got %v", records)
	}
	if f.search.calls != 0 {
		t.Errorf("native code must not reach the search index")
	}
}

func TestTrustedListMatchStopsChain(t *testing.T) {
	f := newFixture()
	f.lists.entries = []assetlist.Entry{
		{ContractID: listedContract, Code: "YBX", Domain: "script3.io", Icon: "https://x/ybx.png"},
	}

	records, err := f.res.Resolve(context.Background(), f.query(listedContract))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(records) != 1 || records[0].Code != "YBX" {
		t.Fatalf("expected the listed entry as a record, got %v", records)
	}
	if f.meta.calls != 0 {
		t.Errorf("an allow-list match must stop resolution before the ledger lookup")
	}
	if f.scans.calls != 0 {
		t.Errorf("listed contracts are not scanned inline")
	}
}

func TestContractLookupReconcilesSACIdentity(t *testing.T) {
	f := newFixture()
	f.meta.details[wrapperID] = &contractmeta.TokenDetails{
		Name: "USDC:" + usdcIssuer, Symbol: "USDC", Decimals: 7,
	}
	f.meta.sac[wrapperID] = true

	records, err := f.res.Resolve(context.Background(), f.query(wrapperID))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 reconciled record, never a duplicate pair, got %d", len(records))
	}
	rec := records[0]
	if rec.Issuer != usdcIssuer {
		t.Errorf("issuer must come from the wrapped classic asset, got %q", rec.Issuer)
	}
	if rec.ContractID != wrapperID {
		t.Errorf("contract id must be preserved, got %q", rec.ContractID)
	}
	if rec.Code != "USDC" {
		t.Errorf("code must come from the wrapped asset, got %q", rec.Code)
	}
	if f.scans.calls != 1 {
		t.Errorf("direct contract lookup scans inline exactly once, got %d", f.scans.calls)
	}
}

func TestContractLookupPlainToken(t *testing.T) {
	f := newFixture()
	plain := "C" + strings.Repeat("P", 55)
	f.meta.details[plain] = &contractmeta.TokenDetails{Name: "Pepe Token", Symbol: "PEPE", Decimals: 7}

	records, err := f.res.Resolve(context.Background(), f.query(plain))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Issuer != "" || records[0].Code != "PEPE" || records[0].Name != "Pepe Token" {
		t.Errorf("plain token must keep its contract identity, got %+v", records[0])
	}
}

func TestContractLookupScanFailureIsSilent(t *testing.T) {
	f := newFixture()
	plain := "C" + strings.Repeat("P", 55)
	f.meta.details[plain] = &contractmeta.TokenDetails{Name: "Pepe Token", Symbol: "PEPE"}
	f.scans.err = fmt.Errorf("scanner down")

	records, err := f.res.Resolve(context.Background(), f.query(plain))
	if err != nil {
		t.Fatalf("a failed inline scan must not fail resolution: %s", err)
	}
	if records[0].Verdict != nil {
		t.Errorf("verdict must stay absent on scan failure")
	}
}

func TestUnknownContractResolvesEmpty(t *testing.T) {
	f := newFixture()
	unknown := "C" + strings.Repeat("Q", 55)

	records, err := f.res.Resolve(context.Background(), f.query(unknown))
	if err != nil {
		t.Fatalf("not-found is not an error: %s", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %v", records)
	}
	if f.search.calls != 0 {
		t.Errorf("a contract-id query must never fall through to free-text search")
	}
}

func TestFreeTextQueriesSearchIndex(t *testing.T) {
	f := newFixture()
	f.search.hits = []searchindex.Hit{
		{Code: "USDC", Issuer: usdcIssuer, Domain: "centre.io", IconURL: "https://x/usdc.png"},
		{Code: "USDX", Issuer: "G" + strings.Repeat("B", 55), Domain: "usdx.fake"},
	}

	records, err := f.res.Resolve(context.Background(), f.query("USD"))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Code != "USDC" || records[0].Domain != "centre.io" {
		t.Errorf("hit mapping lost fields: %+v", records[0])
	}
}

func TestSearchIndexFaultIsReportedAndAbsorbed(t *testing.T) {
	f := newFixture()
	f.search.err = fmt.Errorf("couldn't unmarshal garbage")
	var reported []error
	f.res.Report = func(err error) { reported = append(reported, err) }

	records, err := f.res.Resolve(context.Background(), f.query("USD"))
	if err != nil {
		t.Fatalf("a search fault must be absorbed, got %s", err)
	}
	if len(records) != 0 {
		t.Errorf("the faulting source contributes nothing, got %v", records)
	}
	if len(reported) != 1 {
		t.Errorf("the fault must reach the reporter, got %d reports", len(reported))
	}
}

func TestIconBackfillFromAggregatedLists(t *testing.T) {
	f := newFixture()
	f.search.hits = []searchindex.Hit{{Code: "USDC", Issuer: usdcIssuer, Domain: "centre.io"}}
	f.lists.entries = []assetlist.Entry{
		{Code: "USDC", Issuer: usdcIssuer, Icon: "https://lists/usdc.png"},
	}

	records, err := f.res.Resolve(context.Background(), f.query("USDC"))
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if records[0].IconURL != "https://lists/usdc.png" {
		t.Errorf("missing icon must be backfilled from the list index, got %q", records[0].IconURL)
	}
}

func TestCancelledContextStopsResolution(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.res.Resolve(ctx, f.query("USD")); err == nil {
		t.Fatalf("expected the cancelled context to surface")
	}
}
