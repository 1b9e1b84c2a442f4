package searchindex_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/astrolabe-cli/astrolabe/searchindex"
)

const testIssuer = "GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"

func TestSearchAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asset" || r.URL.Query().Get("search") != "USDC" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{
			"_embedded": {
				"records": [
					{"asset": "USDC-%s", "domain": "centre.io", "tomlInfo": {"image": "https://centre.io/usdc.png"}},
					{"asset": "USDCFAKE-%s", "domain": ""},
					{"asset": "XLM"}
				]
			}
		}`, testIssuer, testIssuer)
	}))
	defer server.Close()

	client := searchindex.NewClientWithHTTP(server.URL, server.Client())
	hits, err := client.SearchAssets(context.Background(), "USDC")
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	first := hits[0]
	if first.Code != "USDC" || first.Issuer != testIssuer {
		t.Fatalf("unexpected first hit: %+v", first)
	}
	if first.Domain != "centre.io" || first.IconURL != "https://centre.io/usdc.png" {
		t.Fatalf("expected domain and icon to be carried over, got: %+v", first)
	}
	if hits[1].IconURL != "" {
		t.Fatalf("expected no icon for a record without tomlInfo, got %q", hits[1].IconURL)
	}
	if hits[2].Code != "XLM" || hits[2].Issuer != "" {
		t.Fatalf("expected the native record to keep an empty issuer, got: %+v", hits[2])
	}
}

func TestSearchAssetsEmptyBaseURL(t *testing.T) {
	client := searchindex.NewClient("")
	hits, err := client.SearchAssets(context.Background(), "USDC")
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits without a search index, got %d", len(hits))
	}
}

func TestSearchAssetsErrorOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[1, 2, 3]`)
	}))
	defer server.Close()

	client := searchindex.NewClientWithHTTP(server.URL, server.Client())
	if _, err := client.SearchAssets(context.Background(), "USDC"); err == nil {
		t.Fatalf("expected an error for a malformed response body")
	}
}

func TestSearchAssetsErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := searchindex.NewClientWithHTTP(server.URL, server.Client())
	if _, err := client.SearchAssets(context.Background(), "USDC"); err == nil {
		t.Fatalf("expected an error for a non-200 status")
	}
}
