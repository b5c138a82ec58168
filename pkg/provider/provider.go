// Package provider implements the client for the external media metadata API.
// The API is paginated per category and must be treated as unreliable: it
// rate-limits, times out and intermittently errors. The client enforces its
// own request rate independent of the provider's and retries transient
// failures with capped exponential backoff.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/time/rate"

	"github.com/20ns/movierec-sub005/pkg/domain"
)

// ErrTransient marks a retriable provider failure (timeout, 5xx, throttling)
var ErrTransient = errors.New("transient provider error")

// ErrExhausted marks a page given up on after all retry attempts
var ErrExhausted = errors.New("provider retries exhausted")

// errFatal marks a non-retriable provider response, terminates the retrier early
var errFatal = errors.New("fatal provider error")

// Config holds client settings. The rate limiter is owned by the client
// instance so tests can construct isolated clients with their own limits.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration // per-request timeout
	RateLimit   float64       // requests per second
	Burst       int
	MaxAttempts int // attempts per page including the first
}

// Client fetches media metadata pages from the provider
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	apiKey      string
	timeout     time.Duration
	maxAttempts int
}

// Page is a single page of provider results. NextPage is zero when the
// category is exhausted.
type Page struct {
	Items    []domain.MediaItem
	NextPage int
}

// New creates a provider client with its own rate limiter and HTTP transport
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 4
	}
	if cfg.Burst == 0 {
		cfg.Burst = 2
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 4
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
	}
}

// FetchPage retrieves one page of a category. Transient failures are retried
// with exponential backoff and jitter; after the attempt budget is exhausted
// the returned error wraps ErrExhausted and the caller decides what to skip.
func (c *Client) FetchPage(ctx context.Context, category Category, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	var result Page
	retrier := repeater.NewBackoff(c.maxAttempts, 200*time.Millisecond,
		repeater.WithMaxDelay(3*time.Second), repeater.WithJitter(0.2))

	err := retrier.Do(ctx, func() error {
		p, err := c.fetchOnce(ctx, category, page)
		if err != nil {
			lgr.Printf("[DEBUG] provider request failed for %s page %d: %v", category.Name, page, err)
			return err
		}
		result = p
		return nil
	}, errFatal)

	if err != nil {
		if errors.Is(err, errFatal) || errors.Is(err, context.Canceled) {
			return Page{}, fmt.Errorf("fetch %s page %d: %w", category.Name, page, err)
		}
		return Page{}, fmt.Errorf("fetch %s page %d: %w: %w", category.Name, page, ErrExhausted, err)
	}
	return result, nil
}

// fetchOnce performs a single rate-limited request attempt
func (c *Client) fetchOnce(ctx context.Context, category Category, page int) (Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("rate limiter: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL, err := c.buildURL(category, page)
	if err != nil {
		return Page{}, fmt.Errorf("%w: build url: %w", errFatal, err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return Page{}, fmt.Errorf("%w: create request: %w", errFatal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// network errors and timeouts are retriable
		return Page{}, fmt.Errorf("%w: %w", ErrTransient, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Page{}, fmt.Errorf("%w: status %d", ErrTransient, resp.StatusCode)
	default:
		return Page{}, fmt.Errorf("%w: status %d", errFatal, resp.StatusCode)
	}

	var body pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page{}, fmt.Errorf("%w: decode response: %w", ErrTransient, err)
	}

	items := make([]domain.MediaItem, 0, len(body.Results))
	for _, r := range body.Results {
		items = append(items, r.toMediaItem(category.MediaType))
	}

	next := 0
	if body.Page < body.TotalPages {
		next = body.Page + 1
	}
	return Page{Items: items, NextPage: next}, nil
}

// buildURL composes the request URL from the category endpoint, paging and auth
func (c *Client) buildURL(category Category, page int) (string, error) {
	u, err := url.Parse(c.baseURL + category.Path)
	if err != nil {
		return "", err
	}

	q := u.Query()
	for key, vals := range category.Query {
		for _, v := range vals {
			q.Set(key, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
