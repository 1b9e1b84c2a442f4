package assetlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches allow-list documents over HTTP.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithHTTP is used by tests to point the client at a test server.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// FetchList downloads and validates one allow-list document.
func (c *Client) FetchList(ctx context.Context, url string) (*List, []ValidationError, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	list, verrs := ParseList(body, url)
	if list == nil {
		return nil, verrs, nil
	}
	return list, verrs, nil
}
