// Package httpclient holds the retry, rate limit and status handling shared
// by the outbound metadata provider clients.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPStatusError reports a non-2xx reply from a provider.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// IsStatus reports whether err is an HTTPStatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *HTTPStatusError
	return errors.As(err, &se) && se.StatusCode == code
}

type Options struct {
	UserAgent  string
	RPS        int
	MaxRetries int
	Backoff    time.Duration
	Timeout    time.Duration
	Header     http.Header
	HTTPClient *http.Client
}

// Client issues rate-limited GET requests with bounded exponential backoff on
// transport errors, 429 and 5xx replies.
type Client struct {
	httpClient *http.Client
	userAgent  string
	header     http.Header
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func New(opts Options) *Client {
	if opts.RPS <= 0 {
		opts.RPS = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		httpClient: hc,
		userAgent:  opts.UserAgent,
		header:     opts.Header.Clone(),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RPS)), 1),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}
}

// Get returns the body of a 200 reply. Non-retryable statuses are returned
// as *HTTPStatusError immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: base, 2*base, 4*base...
			wait := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		serr := &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, serr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
