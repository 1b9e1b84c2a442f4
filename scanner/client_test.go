package scanner_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/scanner"
)

func TestScanBulkParsesVerdicts(t *testing.T) {
	issuer := "G" + strings.Repeat("A", 55)
	id := "USDC-" + issuer

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scan-asset-bulk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		got := r.URL.Query()["asset_ids"]
		if len(got) != 2 {
			t.Errorf("expected 2 asset_ids params, got %v", got)
		}
		fmt.Fprintf(w, `{"data": {"results": {
			%q: {"result_type": "Benign", "features": [], "malicious_score": 0},
			"EVIL-%s": {"result_type": "Malicious", "features": ["airdrop scam"], "malicious_score": 0.97}
		}}}`, id, issuer)
	}))
	defer server.Close()

	c := scanner.NewClientWithHTTP(server.URL, server.Client())
	verdicts, err := c.ScanBulk(context.Background(), []string{id, "EVIL-" + issuer})
	if err != nil {
		t.Fatalf("ScanBulk: %s", err)
	}

	if v := verdicts[id]; v.ResultType != common.VerdictBenign {
		t.Errorf("want Benign for %s, got %s", id, v.ResultType)
	}
	evil := verdicts["EVIL-"+issuer]
	if !evil.IsMalicious() {
		t.Errorf("want Malicious verdict, got %+v", evil)
	}
	if evil.MaliciousScore != 0.97 {
		t.Errorf("want score 0.97, got %f", evil.MaliciousScore)
	}
}

func TestScanBulkUnknownResultType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"results": {"X-G": {"result_type": "Spam"}}}}`)
	}))
	defer server.Close()

	c := scanner.NewClientWithHTTP(server.URL, server.Client())
	verdicts, err := c.ScanBulk(context.Background(), []string{"X-G"})
	if err != nil {
		t.Fatalf("ScanBulk: %s", err)
	}
	if verdicts["X-G"].ResultType != common.VerdictUnknown {
		t.Errorf("unrecognised result types must map to Unknown, got %s", verdicts["X-G"].ResultType)
	}
}

func TestScanBulkMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[1, 2, 3]`)
	}))
	defer server.Close()

	c := scanner.NewClientWithHTTP(server.URL, server.Client())
	if _, err := c.ScanBulk(context.Background(), []string{"X-G"}); err == nil {
		t.Fatalf("expected an error on a malformed response shape")
	}
}

func TestScanAssetSingleVariant(t *testing.T) {
	contract := "C" + strings.Repeat("B", 55)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scan-asset" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("address") != contract {
			t.Errorf("unexpected address %s", r.URL.Query().Get("address"))
		}
		fmt.Fprint(w, `{"data": {"result_type": "Warning", "features": ["new issuer"], "malicious_score": 0.4}}`)
	}))
	defer server.Close()

	c := scanner.NewClientWithHTTP(server.URL, server.Client())
	verdict, err := c.ScanAsset(context.Background(), contract)
	if err != nil {
		t.Fatalf("ScanAsset: %s", err)
	}
	if verdict.ResultType != common.VerdictWarning {
		t.Errorf("want Warning, got %s", verdict.ResultType)
	}
	if !verdict.IsSuspicious() {
		t.Errorf("a Warning verdict is suspicious")
	}
}

func TestScanBulkNoServiceConfigured(t *testing.T) {
	c := scanner.NewClient("")
	if _, err := c.ScanBulk(context.Background(), []string{"X-G"}); err == nil {
		t.Fatalf("expected an error when no scan service is configured")
	}
}
