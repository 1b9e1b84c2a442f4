// Package horizon reads account state from a Horizon server: balance lines
// for the searching account and the home domain shown next to an issuer.
// Both lookups read through the shared cache store with their kind's TTL.
package horizon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/astrolabe-cli/astrolabe/cache"
	"github.com/astrolabe-cli/astrolabe/networks"
)

// Balance is one balance line on an account.
type Balance struct {
	Amount    string `json:"balance"`
	AssetType string `json:"asset_type"`
	Code      string `json:"asset_code,omitempty"`
	Issuer    string `json:"asset_issuer,omitempty"`
}

// IsNative reports whether the line is the account's lumen balance.
func (b Balance) IsNative() bool {
	return b.AssetType == "native"
}

type Client struct {
	store      *cache.Store
	httpClient *http.Client
}

func NewClient(store *cache.Store) *Client {
	return &Client{
		store:      store,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithHTTP is used by tests to point the client at a test server.
func NewClientWithHTTP(store *cache.Store, httpClient *http.Client) *Client {
	return &Client{store: store, httpClient: httpClient}
}

type accountResponse struct {
	HomeDomain string    `json:"home_domain"`
	Balances   []Balance `json:"balances"`
}

// AccountBalances returns the account's balance lines, serving from the
// cache store when a fresh entry exists and writing back after a fetch.
func (c *Client) AccountBalances(ctx context.Context, net networks.Network, accountID string) ([]Balance, error) {
	cached := []Balance{}
	if c.store.LookupJSON(cache.KindBalances, net.GetName(), accountID, &cached) {
		return cached, nil
	}

	account, err := c.fetchAccount(ctx, net, accountID)
	if err != nil {
		return nil, err
	}

	c.store.WriteJSON(cache.KindBalances, net.GetName(), accountID, account.Balances)
	c.store.WriteJSON(cache.KindDomains, net.GetName(), accountID, account.HomeDomain)
	return account.Balances, nil
}

// HomeDomain returns the domain an account advertises, read through the
// cache store. An account without one returns "".
func (c *Client) HomeDomain(ctx context.Context, net networks.Network, accountID string) (string, error) {
	var cached string
	if c.store.LookupJSON(cache.KindDomains, net.GetName(), accountID, &cached) {
		return cached, nil
	}

	account, err := c.fetchAccount(ctx, net, accountID)
	if err != nil {
		return "", err
	}

	c.store.WriteJSON(cache.KindDomains, net.GetName(), accountID, account.HomeDomain)
	c.store.WriteJSON(cache.KindBalances, net.GetName(), accountID, account.Balances)
	return account.HomeDomain, nil
}

// InvalidateBalances drops the cached balance lines for an account, e.g.
// right after a balance-changing operation.
func (c *Client) InvalidateBalances(net networks.Network, accountID string) {
	c.store.Invalidate(cache.KindBalances, net.GetName(), accountID)
}

func (c *Client) fetchAccount(ctx context.Context, net networks.Network, accountID string) (*accountResponse, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s", net.GetHorizonURL(), url.PathEscape(accountID))
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
		return nil, fmt.Errorf("horizon returned status %s for account %s", resp.Status, accountID)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	account := &accountResponse{}
	if err = json.Unmarshal(body, account); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal %s from horizon, err: %w", string(body), err)
	}
	return account, nil
}
