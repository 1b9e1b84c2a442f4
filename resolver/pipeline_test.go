package resolver_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/contractmeta"
	"github.com/astrolabe-cli/astrolabe/guard"
	"github.com/astrolabe-cli/astrolabe/resolver"
	"github.com/astrolabe-cli/astrolabe/scanner"
	"github.com/astrolabe-cli/astrolabe/searchindex"
)

// fakeBulk serves benign verdicts for every id and counts calls.
type fakeBulk struct {
	mu    sync.Mutex
	calls [][]string
}

func (f *fakeBulk) ScanBulk(ctx context.Context, ids []string) (map[string]common.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ids)
	out := map[string]common.Verdict{}
	for _, id := range ids {
		out[id] = common.Verdict{ResultType: common.VerdictBenign}
	}
	return out, nil
}

func (f *fakeBulk) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type pipelineFixture struct {
	*fixture
	bulk *fakeBulk
	pipe *resolver.Pipeline
}

func newPipelineFixture() *pipelineFixture {
	f := newFixture()
	bulk := &fakeBulk{}
	pipe := resolver.NewPipeline(
		guard.NewGuard(),
		f.res,
		scanner.NewCoordinator(bulk),
		f.lists,
	)
	return &pipelineFixture{fixture: f, bulk: bulk, pipe: pipe}
}

func TestSearchNativeScenario(t *testing.T) {
	pf := newPipelineFixture()

	var results []resolver.Result
	err := pf.pipe.Search(context.Background(), pf.net, "XLM", resolver.Options{}, func(r resolver.Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Search: %s", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected exactly 1 publish, got %d", len(results))
	}
	r := results[0]
	if len(r.VerifiedAssets) != 1 || !r.VerifiedAssets[0].Native {
		t.Errorf("expected one verified native record, got %+v", r)
	}
	if !r.IsVerifiedToken {
		t.Errorf("the native asset is a verified token")
	}
	if pf.bulk.callCount() != 0 {
		t.Errorf("no scan may be issued for the native scenario, got %d calls", pf.bulk.callCount())
	}
	if pf.scans.calls != 0 {
		t.Errorf("no inline scan either, got %d", pf.scans.calls)
	}
}

func TestSearchUntrustedSACScenario(t *testing.T) {
	pf := newPipelineFixture()
	pf.meta.details[wrapperID] = &contractmeta.TokenDetails{
		Name: "USDC:" + usdcIssuer, Symbol: "USDC", Decimals: 7,
	}
	pf.meta.sac[wrapperID] = true
	pf.scans.verdict = &common.Verdict{ResultType: common.VerdictBenign}

	var results []resolver.Result
	err := pf.pipe.Search(context.Background(), pf.net, wrapperID, resolver.Options{}, func(r resolver.Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Search: %s", err)
	}

	if len(results) != 1 {
		t.Fatalf("a contract-id query publishes once (scan ran inline), got %d", len(results))
	}
	r := results[0]
	if len(r.VerifiedAssets) != 0 || len(r.UnverifiedAssets) != 1 {
		t.Fatalf("an unlisted wrapper is unverified until scanned, got %+v", r)
	}
	rec := r.UnverifiedAssets[0]
	if rec.Issuer != usdcIssuer || rec.ContractID != wrapperID {
		t.Errorf("expected the reconciled classic identity with the contract preserved, got %+v", rec)
	}
	if pf.scans.calls != 1 {
		t.Errorf("scan must be attempted exactly once, got %d", pf.scans.calls)
	}
	if pf.bulk.callCount() != 0 {
		t.Errorf("the chunked coordinator must not engage for contract-id queries")
	}
}

func TestSearchIncrementalScanRefinement(t *testing.T) {
	pf := newPipelineFixture()
	hits := make([]searchindex.Hit, 23)
	for i := range hits {
		// distinct issuers so verdicts map to distinct ids
		suffix := string(rune('A'+i/5)) + string(rune('A'+i%5))
		hits[i] = searchindex.Hit{
			Code:   "TOK",
			Issuer: "G" + strings.Repeat("A", 53) + suffix,
		}
	}
	pf.search.hits = hits

	var results []resolver.Result
	err := pf.pipe.Search(context.Background(), pf.net, "TOK", resolver.Options{}, func(r resolver.Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Search: %s", err)
	}

	if pf.bulk.callCount() != 3 {
		t.Fatalf("expected 3 bulk scan calls for 23 unverified records, got %d", pf.bulk.callCount())
	}
	// initial publish + one per chunk
	if len(results) != 4 {
		t.Fatalf("expected 4 publishes, got %d", len(results))
	}

	// refinements keep all rows and grow the scanned subset
	prevScanned := -1
	for i, r := range results {
		if len(r.UnverifiedAssets) != 23 {
			t.Errorf("publish %d: expected all 23 rows, got %d", i, len(r.UnverifiedAssets))
		}
		scanned := 0
		for _, rec := range r.UnverifiedAssets {
			if rec.Verdict != nil {
				scanned++
			}
		}
		if scanned < prevScanned {
			t.Errorf("publish %d lost verdicts: %d -> %d", i, prevScanned, scanned)
		}
		prevScanned = scanned
	}
	if prevScanned != 23 {
		t.Errorf("final publish should carry all verdicts, got %d", prevScanned)
	}
}

func TestSearchNoScanOption(t *testing.T) {
	pf := newPipelineFixture()
	pf.search.hits = []searchindex.Hit{{Code: "USDC", Issuer: usdcIssuer}}

	var publishes int
	err := pf.pipe.Search(context.Background(), pf.net, "USDC", resolver.Options{NoScan: true}, func(resolver.Result) {
		publishes++
	})
	if err != nil {
		t.Fatalf("Search: %s", err)
	}
	if publishes != 1 {
		t.Errorf("NoScan must publish exactly once, got %d", publishes)
	}
	if pf.bulk.callCount() != 0 {
		t.Errorf("NoScan must not call the scan service")
	}
}

// blockingSearch lets the test hold R1's search-index call open while a
// newer query completes, then release it.
type blockingSearch struct {
	entered chan struct{}
	release chan struct{}
	blocked bool
	mu      sync.Mutex
}

func (b *blockingSearch) SearchAssets(ctx context.Context, text string) ([]searchindex.Hit, error) {
	b.mu.Lock()
	first := !b.blocked
	b.blocked = true
	b.mu.Unlock()
	if first {
		close(b.entered)
		<-b.release
	}
	return []searchindex.Hit{{Code: text, Issuer: usdcIssuer}}, nil
}

func TestCancellationMonotonicity(t *testing.T) {
	f := newFixture()
	blocking := &blockingSearch{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	slowRes := resolver.NewResolver(f.lists, f.meta, blocking, f.scans)

	g := guard.NewGuard()
	bulk := &fakeBulk{}
	pipe := resolver.NewPipeline(g, slowRes, scanner.NewCoordinator(bulk), f.lists)

	var mu sync.Mutex
	var published []resolver.Result

	emit := func(r resolver.Result) {
		mu.Lock()
		published = append(published, r)
		mu.Unlock()
	}

	// R1: slow — its search call blocks until released
	done := make(chan error, 1)
	go func() {
		done <- pipe.Search(context.Background(), f.net, "SLOW", resolver.Options{NoScan: true}, emit)
	}()
	<-blocking.entered

	// R2: fast — supersedes R1 and completes
	err := pipe.Search(context.Background(), f.net, "FAST", resolver.Options{NoScan: true}, emit)
	if err != nil {
		t.Fatalf("R2 must complete: %s", err)
	}

	// release R1; its late completion must publish nothing
	close(blocking.release)
	if err := <-done; err != resolver.ErrSuperseded {
		t.Fatalf("R1 must report supersession, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 {
		t.Fatalf("only R2 may publish, got %d publishes", len(published))
	}
	if len(published[0].UnverifiedAssets) != 1 || published[0].UnverifiedAssets[0].Code != "FAST" {
		t.Errorf("final state must equal R2's result, got %+v", published[0])
	}
}
