// Package kyobo provides a client for the Kyobo Book store: keyword and
// ISBN search, detail-page scraping, and series lookup.
package kyobo

import (
	"net/http"
	"strings"
	"time"

	"github.com/leoincedo/kyobokr/internal/cache"
	"github.com/leoincedo/kyobokr/internal/ratelimit"
)

const (
	defaultSearchBaseURL  = "https://search.kyobobook.co.kr"
	defaultProductBaseURL = "https://product.kyobobook.co.kr"
	defaultEbookBaseURL   = "https://ebook-product.kyobobook.co.kr"
	defaultMaxAttempts    = 3
	defaultTimeout        = 30 * time.Second

	// seriesTimeout bounds the best-effort series endpoint call.
	seriesTimeout = 3 * time.Second

	// The store rejects obviously non-browser requests, so every fetch
	// pins the Referer and a desktop Safari User-Agent.
	referer   = "https://search.kyobobook.co.kr/"
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) " +
		"Version/14.1 Safari/605.1.15"
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client fetches and parses Kyobo Book pages.
type Client struct {
	searchBaseURL   string
	productBaseURL  string
	ebookBaseURL    string
	httpClient      HTTPDoer
	rateLimiter     *ratelimit.Limiter
	retryAttempts   int
	covers          *cache.CoverCache
	details         *cache.DetailCache
	fallbackHTMLDir string
}

// NewClient creates a Kyobo Book client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		searchBaseURL:  defaultSearchBaseURL,
		productBaseURL: defaultProductBaseURL,
		ebookBaseURL:   defaultEbookBaseURL,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		rateLimiter:    ratelimit.New("KyoboBook", 4),
		retryAttempts:  defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithSearchBaseURL sets a custom base URL for the search endpoint.
func WithSearchBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.searchBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithProductBaseURL sets a custom base URL for detail pages and the
// series API.
func WithProductBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.productBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithEbookBaseURL sets a custom base URL for digital-edition detail pages.
func WithEbookBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.ebookBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRetryAttempts sets the number of attempts for failed requests.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithCoverCache attaches the identifier → cover-URL cache that detail
// fetches populate.
func WithCoverCache(covers *cache.CoverCache) Option {
	return func(client *Client) {
		client.covers = covers
	}
}

// WithDetailCache attaches a cache of fetched detail pages, letting
// repeat lookups of the same product skip the network.
func WithDetailCache(details *cache.DetailCache) Option {
	return func(client *Client) {
		client.details = details
	}
}

// WithFallbackHTMLDir sets the directory holding operator-saved detail
// pages used to recover age-restricted listings.
func WithFallbackHTMLDir(dir string) Option {
	return func(client *Client) {
		client.fallbackHTMLDir = dir
	}
}

// Covers returns the cover cache attached to the client, which may be nil.
func (c *Client) Covers() *cache.CoverCache {
	return c.covers
}

// DetailURL returns the detail-page URL for a product id, choosing the
// digital-edition template for 'E'-prefixed ids.
func (c *Client) DetailURL(id string) string {
	if strings.HasPrefix(id, "E") {
		return c.ebookBaseURL + "/dig/epd/ebook/" + id
	}
	return c.productBaseURL + "/detail/" + id
}

// BookURL resolves the detail-page URL for a known product id carried in
// an identifier map, or "" when none is present.
func (c *Client) BookURL(identifiers map[string]string) string {
	id := ProductID(identifiers)
	if id == "" {
		return ""
	}
	return c.DetailURL(id)
}

// ProductID extracts the Kyobo product id from an identifier map, trying
// both keys the host application uses.
func ProductID(identifiers map[string]string) string {
	if id := identifiers["kyobo"]; id != "" {
		return id
	}
	return identifiers["kyobobook.co.kr"]
}
