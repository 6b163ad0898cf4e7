package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient uses browser-like headers for hosts that reject unknown agents
	BrowserClient ClientType = "browser"

	// APIClient identifies the scraper explicitly, as MediaWiki API etiquette asks
	APIClient ClientType = "api"
)

// DefaultTimeout bounds every request made through a client.
const DefaultTimeout = 30 * time.Second

// UserAgent is sent by APIClient.
const UserAgent = "voicelines-scraper/1.0 (+https://github.com/voicelines)"

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
	timeout    time.Duration
}

// NewClient creates a new HTTP client with the specified type and per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(clientType ClientType, timeout time.Duration) *HTTPClient {
	return NewClientWith(&http.Client{}, clientType, timeout)
}

// NewClientWith wraps an existing http.Client (tests inject transports this way).
func NewClientWith(client *http.Client, clientType ClientType, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}

	return &HTTPClient{
		client:     client,
		clientType: clientType,
		timeout:    timeout,
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get fetches url and returns the body of a 200 response.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

// HTTP exposes the underlying client for libraries that take an *http.Client.
func (c *HTTPClient) HTTP() *http.Client {
	return c.client
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	case APIClient:
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "application/json, application/atom+xml;q=0.9, */*;q=0.5")

	default:
		// Default: use Go's default User-Agent
	}
}
