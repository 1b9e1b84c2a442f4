// Package scanner integrates the third-party asset security service. The
// client issues single and bulk scan calls; the coordinator refines an
// already-published result set chunk by chunk without blocking display.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/astrolabe-cli/astrolabe/common"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithHTTP is used by tests to point the client at a test server.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type verdictPayload struct {
	ResultType     string   `json:"result_type"`
	Features       []string `json:"features"`
	MaliciousScore float64  `json:"malicious_score"`
}

func (p verdictPayload) toVerdict() common.Verdict {
	v := common.Verdict{
		Features:       p.Features,
		MaliciousScore: p.MaliciousScore,
	}
	switch p.ResultType {
	case "Benign":
		v.ResultType = common.VerdictBenign
	case "Warning":
		v.ResultType = common.VerdictWarning
	case "Malicious":
		v.ResultType = common.VerdictMalicious
	default:
		v.ResultType = common.VerdictUnknown
	}
	return v
}

type bulkResponse struct {
	Data struct {
		Results map[string]verdictPayload `json:"results"`
	} `json:"data"`
}

// ScanBulk submits up to a chunk's worth of asset ids ("CODE-ISSUER") in
// one call and returns the verdicts keyed by the same ids. Ids the service
// has no verdict for are simply absent from the result.
func (c *Client) ScanBulk(ctx context.Context, ids []string) (map[string]common.Verdict, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no scan service configured for this network")
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("asset_ids", id)
	}
	endpoint := fmt.Sprintf("%s/scan-asset-bulk?%s", c.baseURL, params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	parsed := bulkResponse{}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal %s from the scan service, err: %w", string(body), err)
	}

	verdicts := map[string]common.Verdict{}
	for id, payload := range parsed.Data.Results {
		verdicts[id] = payload.toVerdict()
	}
	return verdicts, nil
}

type singleResponse struct {
	Data verdictPayload `json:"data"`
}

// ScanAsset is the single-asset variant used inline on contract-id lookups
// so the first published record already carries a verdict when possible.
func (c *Client) ScanAsset(ctx context.Context, id string) (*common.Verdict, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no scan service configured for this network")
	}

	endpoint := fmt.Sprintf("%s/scan-asset?address=%s", c.baseURL, url.QueryEscape(id))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	parsed := singleResponse{}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal %s from the scan service, err: %w", string(body), err)
	}
	verdict := parsed.Data.toVerdict()
	return &verdict, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scan service returned status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
