package assetidx_test

import (
	"testing"

	"github.com/astrolabe-cli/astrolabe/assetidx"
	"github.com/astrolabe-cli/astrolabe/assetlist"
)

const (
	usdcIssuer   = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	usdcContract = "CBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

func testEntries() []assetlist.Entry {
	return []assetlist.Entry{
		{Code: "USDC", Issuer: usdcIssuer, ContractID: usdcContract, Domain: "centre.io"},
		{Code: "AQUA", Issuer: usdcIssuer, Domain: "aqua.network"},
	}
}

func TestUpdateAndSearch(t *testing.T) {
	index, err := assetidx.NewAssetIndexAt(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error opening the index, got: %s", err)
	}
	defer index.Close()

	if err = index.Update(testEntries()); err != nil {
		t.Fatalf("expected no error indexing entries, got: %s", err)
	}

	results, scores := index.Search("USDC")
	if len(results) == 0 {
		t.Fatalf("expected at least one hit for USDC")
	}
	if len(results) != len(scores) {
		t.Fatalf("expected one score per result, got %d results and %d scores", len(results), len(scores))
	}
	if results[0].ID != usdcContract {
		t.Fatalf("expected the top hit to be the USDC contract, got %s", results[0].ID)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	index, err := assetidx.NewAssetIndexAt(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error opening the index, got: %s", err)
	}
	defer index.Close()

	if err = index.Update(testEntries()); err != nil {
		t.Fatalf("expected no error indexing entries, got: %s", err)
	}
	hash := index.Hash
	if hash == "" {
		t.Fatalf("expected a non empty hash after indexing")
	}
	if err = index.Update(testEntries()); err != nil {
		t.Fatalf("expected no error on a repeated update, got: %s", err)
	}
	if index.Hash != hash {
		t.Fatalf("expected the hash to be stable for unchanged entries")
	}
}

func TestHashSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	index, err := assetidx.NewAssetIndexAt(dir)
	if err != nil {
		t.Fatalf("expected no error opening the index, got: %s", err)
	}
	if err = index.Update(testEntries()); err != nil {
		t.Fatalf("expected no error indexing entries, got: %s", err)
	}
	hash := index.Hash
	if err = index.Close(); err != nil {
		t.Fatalf("expected no error closing the index, got: %s", err)
	}

	reopened, err := assetidx.NewAssetIndexAt(dir)
	if err != nil {
		t.Fatalf("expected no error reopening the index, got: %s", err)
	}
	defer reopened.Close()

	if reopened.Hash != hash {
		t.Fatalf("expected the hash to survive a reopen, got %q want %q", reopened.Hash, hash)
	}
	results, _ := reopened.Search("AQUA")
	if len(results) == 0 {
		t.Fatalf("expected the reopened index to still serve searches")
	}
}
