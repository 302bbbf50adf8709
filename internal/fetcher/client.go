package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// nodeTransport injects a Bearer token into every request when a token is
// set, except for nodes that serve their data publicly.
type nodeTransport struct {
	base  http.RoundTripper
	token string
}

func (t *nodeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" && !IsPublicURL(req.URL.String()) {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient creates an *http.Client configured for soda4LCA calls.
// timeout is the per-request deadline (0 = no timeout).
// token is injected as a Bearer token on every request to a non-public node.
func NewHTTPClient(timeout time.Duration, token string) *http.Client {
	token = strings.TrimSpace(token)
	var transport http.RoundTripper = http.DefaultTransport
	if token != "" {
		transport = &nodeTransport{base: http.DefaultTransport, token: token}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Cache stores response bodies by request key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Client reads JSON resources from soda4LCA nodes.
type Client struct {
	HTTP *http.Client
	// Cache is optional; successful responses are stored in it.
	Cache Cache
}

// New returns a Client with a token-injecting HTTP client.
func New(timeout time.Duration, token string, cache Cache) *Client {
	return &Client{HTTP: NewHTTPClient(timeout, token), Cache: cache}
}

// CacheKey is the key a request is cached under.
func CacheKey(rawURL string, query url.Values) string {
	if len(query) == 0 {
		return rawURL
	}
	return rawURL + "?" + query.Encode()
}

// Fetch performs a GET and returns the body of a 200 response. Other statuses
// are reported as *StatusError.
func (c *Client) Fetch(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	key := CacheKey(rawURL, query)
	if c.Cache != nil {
		body, ok, err := c.Cache.Get(ctx, key)
		if err != nil {
			logf("cache read failed for %s: %v", key, err)
		} else if ok {
			logf("cache hit %s", key)
			return body, nil
		}
	}

	body, err := c.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		if err := c.Cache.Put(ctx, key, body); err != nil {
			logf("cache write failed for %s: %v", key, err)
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	client := http.DefaultClient
	if c != nil && c.HTTP != nil {
		client = c.HTTP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	logf("GET %s", fullURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: fullURL}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fullURL, err)
	}
	return body, nil
}
