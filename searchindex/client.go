// Package searchindex queries the external asset search index for free-text
// asset code lookups. Transport failures degrade to an empty result at the
// caller; a malformed response shape is surfaced as an error so it can be
// reported, never crashing the pipeline.
package searchindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Hit is one record from the search index. Asset is "CODE-ISSUER" for
// classic assets, or the bare code for the native asset.
type Hit struct {
	Code    string
	Issuer  string
	Domain  string
	IconURL string
}

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

type searchResponse struct {
	Embedded struct {
		Records []struct {
			Asset    string `json:"asset"`
			Domain   string `json:"domain"`
			TomlInfo *struct {
				Image string `json:"image"`
			} `json:"tomlInfo"`
		} `json:"records"`
	} `json:"_embedded"`
}

// SearchAssets queries the index for assets whose code matches text.
func (c *Client) SearchAssets(ctx context.Context, text string) ([]Hit, error) {
	if c.baseURL == "" {
		// networks without a search index resolve free text to nothing
		return []Hit{}, nil
	}

	endpoint := fmt.Sprintf("%s/asset?search=%s", c.baseURL, url.QueryEscape(text))
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
		return nil, fmt.Errorf("search index returned status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed := searchResponse{}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal %s from the search index, err: %w", string(body), err)
	}

	hits := []Hit{}
	for _, rec := range parsed.Embedded.Records {
		code, issuer := splitAssetID(rec.Asset)
		if code == "" {
			continue
		}
		hit := Hit{
			Code:   code,
			Issuer: issuer,
			Domain: rec.Domain,
		}
		if rec.TomlInfo != nil {
			hit.IconURL = rec.TomlInfo.Image
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// splitAssetID splits the index's "CODE-ISSUER" identifier. The native
// asset appears as a bare code with no issuer part.
func splitAssetID(id string) (code, issuer string) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
