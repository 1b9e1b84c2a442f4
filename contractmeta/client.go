// Package contractmeta talks to the indexer's contract metadata service: it
// resolves a contract id to its on-chain token metadata and answers whether
// the contract is a Stellar Asset Contract wrapping a classic asset.
package contractmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type TokenDetails struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
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

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("indexer returned status %s for %s", resp.Status, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("couldn't unmarshal %s from the indexer, err: %w", string(body), err)
	}
	return nil
}

// TokenDetails fetches name, symbol and decimals for a deployed token
// contract. For a SAC wrapper the returned name is "CODE:ISSUER".
func (c *Client) TokenDetails(ctx context.Context, contractID string) (*TokenDetails, error) {
	details := &TokenDetails{}
	err := c.get(ctx, fmt.Sprintf("/token-details/%s", url.PathEscape(contractID)), details)
	if err != nil {
		return nil, err
	}
	return details, nil
}

type isSACResponse struct {
	IsSACContract bool `json:"isSacContract"`
}

// IsSACContract reports whether the contract's executable is the built-in
// Stellar Asset Contract, i.e. a thin wrapper over a classic asset.
func (c *Client) IsSACContract(ctx context.Context, contractID string) (bool, error) {
	resp := isSACResponse{}
	err := c.get(ctx, fmt.Sprintf("/is-sac-contract/%s", url.PathEscape(contractID)), &resp)
	if err != nil {
		return false, err
	}
	return resp.IsSACContract, nil
}
