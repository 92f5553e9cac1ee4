package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"bookyear/internal/books"
	"bookyear/internal/cache"
	"bookyear/internal/config"

	gbooks "google.golang.org/api/books/v1"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
)

const (
	defaultMaxResults = 5
	defaultCacheSize  = 256
	defaultCacheTTL   = time.Hour
)

// Client looks up volumes through the Google Books API. Answers, including
// "no match", are cached by query so repeated lookups of the same book cost
// one request.
type Client struct {
	svc        *gbooks.Service
	apiKey     string
	maxResults int64
	cache      *cache.LRUCache[lookup]
	logger     *slog.Logger
}

type lookup struct {
	volume books.Volume
	found  bool
}

// Ensure interface conformance
var _ books.VolumeFinder = (*Client)(nil)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIKey     string
	MaxResults int
	CacheSize  int
	CacheTTL   time.Duration

	// Endpoint overrides the API base URL, used by tests.
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New creates a Books client. The API key is optional; anonymous requests
// work with a lower quota.
func New(ctx context.Context, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClientWithPooling()
	}
	clientOpts := []goption.ClientOption{goption.WithHTTPClient(httpClient)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, goption.WithEndpoint(opts.Endpoint))
	}

	svc, err := gbooks.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create books service: %w", err)
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		svc:        svc,
		apiKey:     strings.TrimSpace(opts.APIKey),
		maxResults: int64(maxResults),
		cache:      cache.NewLRUCache[lookup](size, ttl),
		logger:     logger,
	}, nil
}

// NewFromConfig creates a client from the application configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return New(ctx, Options{
		APIKey:     cfg.GoogleBooksAPIKey,
		MaxResults: cfg.GoogleBooksMaxResults,
		CacheSize:  cfg.LookupCacheSize,
		CacheTTL:   cfg.LookupCacheTTL,
		Logger:     logger,
	})
}

// newHTTPClientWithPooling creates an HTTP client for the Books API with
// connection pooling, timeouts and keep-alive.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		// Lookups are sequential against a single host
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// Query builds the search expression for a title and author.
func Query(title, author string) string {
	return fmt.Sprintf("intitle:%s inauthor:%s", strings.TrimSpace(title), strings.TrimSpace(author))
}

// FindVolume implements books.VolumeFinder. Only the first search result is
// considered. ErrNoVolume is returned when the search has no items.
func (c *Client) FindVolume(ctx context.Context, title, author string) (books.Volume, error) {
	if c.svc == nil {
		return books.Volume{}, errors.New("books service not initialized")
	}

	q := Query(title, author)
	key := strings.ToLower(q)
	if hit, ok := c.cache.Get(key); ok {
		c.logger.DebugContext(ctx, "Volume lookup served from cache", "query", q, "found", hit.found)
		if !hit.found {
			return books.Volume{}, fmt.Errorf("%w: %s", books.ErrNoVolume, q)
		}
		return hit.volume, nil
	}

	call := c.svc.Volumes.List(q).MaxResults(c.maxResults).Context(ctx)
	var callOpts []googleapi.CallOption
	if c.apiKey != "" {
		callOpts = append(callOpts, googleapi.QueryParameter("key", c.apiKey))
	}

	start := time.Now()
	res, err := call.Do(callOpts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return books.Volume{}, fmt.Errorf("books api status %d for %q: %w", apiErr.Code, q, err)
		}
		return books.Volume{}, fmt.Errorf("search volumes: %w", err)
	}

	c.logger.DebugContext(ctx, "Volume search completed",
		"query", q,
		"items", len(res.Items),
		"duration", time.Since(start))

	vol, found := firstVolume(res)
	c.cache.Set(key, lookup{volume: vol, found: found})
	if !found {
		return books.Volume{}, fmt.Errorf("%w: %s", books.ErrNoVolume, q)
	}
	return vol, nil
}

// CacheStats exposes the lookup cache counters.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// Cache returns the lookup cache so it can be registered with a cache.Manager.
func (c *Client) Cache() cache.Cleaner {
	return c.cache
}

func firstVolume(res *gbooks.Volumes) (books.Volume, bool) {
	if res == nil || len(res.Items) == 0 || res.Items[0] == nil {
		return books.Volume{}, false
	}
	info := res.Items[0].VolumeInfo
	if info == nil {
		return books.Volume{}, true
	}
	return books.Volume{
		Title:      info.Title,
		Authors:    info.Authors,
		PageCount:  int(info.PageCount),
		Categories: info.Categories,
	}, true
}
