package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	pageSize       = 30
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20
)

// Article is a provider record normalized to the common shape.
type Article struct {
	Title       string
	Content     string
	Author      string
	Source      string
	Category    string
	PublishedAt time.Time
}

type Client struct {
	provider   Provider
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(provider Provider, apiKey string) *Client {
	return &Client{
		provider:   provider,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// WithBaseURL points the client at another host, keeping the provider's path.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *Client) Provider() Provider {
	return c.provider
}

// FetchRaw performs one GET against the provider and returns the response body.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	endpoint := c.provider.endpoint()
	if c.baseURL != "" {
		endpoint = c.baseURL + c.provider.path()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+c.provider.query(c.apiKey).Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", c.provider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s read: %w", c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s fetch: unexpected status %d", c.provider, resp.StatusCode)
	}

	return body, nil
}

// Fetch retrieves and normalizes the provider's current articles.
func (c *Client) Fetch(ctx context.Context) ([]Article, error) {
	raw, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(c.provider, raw)
}
