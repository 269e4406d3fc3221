// Package scrape provides a client for the ScrapeCreators metadata API,
// which resolves a social-media post URL into a direct, time-limited video URL.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/solerv/socialvid-api/internal/platform"
)

// Static errors for scrape client operations.
var (
	// ErrAPIKeyRequired is returned when the client is created without an API key.
	ErrAPIKeyRequired = errors.New("scrape: API key is required")
	// ErrUnknownPlatform is returned when no extraction rule exists for the platform.
	ErrUnknownPlatform = errors.New("scrape: no extraction rule for platform")
	// ErrUpstreamMetadata is returned when the metadata API fails or the
	// expected media container is absent from its response.
	ErrUpstreamMetadata = errors.New("scrape: failed to fetch media object")
	// ErrNoVideoURL is returned when the media container is present but no
	// candidate field resolves to a non-empty direct video URL.
	ErrNoVideoURL = errors.New("scrape: no direct video URL found in response")
)

// defaultBaseURL is the production ScrapeCreators endpoint.
const defaultBaseURL = "https://api.scrapecreators.com"

// Client fetches direct video URLs from the ScrapeCreators API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the metadata API.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new ScrapeCreators client. The API key is mandatory;
// requests are authenticated with an x-api-key header.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// DirectVideoURL resolves a post URL to a direct video URL using the
// platform's API route and extraction rule. Upstream or parsing failures are
// surfaced as errors and never collapsed into an empty result.
func (c *Client) DirectVideoURL(ctx context.Context, originalURL string, p platform.Platform) (string, error) {
	extract, ok := extractors[p]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}

	endpoint := fmt.Sprintf("%s/%s?url=%s", c.baseURL, p.Route(), url.QueryEscape(originalURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("scrape: create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamMetadata, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUpstreamMetadata, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d for %s", ErrUpstreamMetadata, resp.StatusCode, p.Route())
	}

	return extract(body)
}
