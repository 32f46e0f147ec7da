package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"syscall"
	"time"

	"archivedoc/internal/model"
)

// Fetcher retrieves single pages with bounded retries.
type Fetcher struct {
	// client performs the HTTP requests. Its Timeout field bounds each
	// individual attempt.
	client *http.Client

	// maxAttempts is the total attempt budget per URL, including the first.
	maxAttempts int

	// baseDelay is the exponential backoff base between attempts.
	baseDelay time.Duration

	// userAgent is the User-Agent header sent with each request.
	userAgent string

	// maxBodySize limits the response body bytes read.
	maxBodySize int64

	// logger narrates attempts and backoff waits. Observability only;
	// callers never parse these lines.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxAttempts sets the total attempt budget per URL.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		f.maxAttempts = n
	}
}

// WithBaseDelay sets the exponential backoff base.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher using the given HTTP client.
//
// Design decision: We require an external client rather than building one
// because:
//  1. The request timeout is configuration owned by the caller
//  2. Tests inject clients pointed at httptest servers
//  3. Consistent with how the crawl engine receives its collaborators
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		maxAttempts: 5,
		baseDelay:   30 * time.Second,
		userAgent:   "archivedoc/1.0",
		maxBodySize: model.MaxPageSize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Backoff returns the wait before the k-th retry (k >= 1):
// base * 2^(k-1). The schedule is strictly increasing; the wait applies
// only between attempts, never after the final failure.
func Backoff(base time.Duration, k int) time.Duration {
	return base << (k - 1)
}

// Fetch retrieves url, retrying with exponential backoff up to the
// attempt budget. On success it returns the page with raw body, headers,
// and content hash populated. After exhausting all attempts it returns an
// error wrapping ErrExhausted and the last attempt's failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.Page, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := Backoff(f.baseDelay, attempt-1)
			f.logger.Info("waiting before retry",
				"url", url,
				"nextAttempt", attempt,
				"delay", delay,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		f.logger.Info("fetching", "url", url, "attempt", attempt, "of", f.maxAttempts)

		page, err := f.fetchOnce(ctx, url)
		if err == nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		var fe *Error
		if errors.As(err, &fe) && fe.Kind == KindRateLimited {
			f.logger.Warn("connection actively refused, server is rate-limiting", "url", url)
		} else {
			f.logger.Warn("request failed", "url", url, "error", err)
		}
	}

	f.logger.Warn("max attempts reached, giving up on this URL",
		"url", url,
		"attempts", f.maxAttempts,
	)
	return nil, fmt.Errorf("%w: %s: %w", ErrExhausted, url, lastErr)
}

// fetchOnce performs a single GET attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Kind: KindNetwork, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	// Any non-error status is a success; redirects were already followed
	// by the client.
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{URL: url, Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &Error{URL: url, Kind: KindNetwork, Err: err}
	}

	page := &model.Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Raw:         body,
	}
	page.TruncateRaw()
	page.ComputeHash()

	return page, nil
}

// classifyTransport distinguishes active refusal from other transport
// failures. Informational only: both kinds retry identically.
func classifyTransport(err error) Kind {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindRateLimited
	}
	return KindNetwork
}
