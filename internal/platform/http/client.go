// Package http provides the outbound HTTP stack shared by every vendor adapter:
// a tuned client, a lazily built proxy transport and a retrying request wrapper.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxBodyBytes bounds a single vendor response.
const maxBodyBytes = 64 << 20

// RetryConfig controls attempts and backoff of Client.Do.
type RetryConfig struct {
	MaxRetries        int           // retries after the first attempt
	InitialDelay      time.Duration // delay before the first retry
	MaxDelay          time.Duration // cap for any single delay
	BackoffMultiplier float64       // growth factor between delays
	Timeout           time.Duration // deadline for one attempt, body read included
}

// DefaultRetryConfig returns 3 retries, 1s initial delay, x2 growth capped at 10s and a 30s attempt timeout.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2,
		Timeout:           30 * time.Second,
	}
}

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	Header http.Header
	Body   []byte
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client performs requests with per-attempt deadlines and retries on transient network failures.
// HTTP error statuses are returned to the caller unchanged.
type Client struct {
	doer Doer
	cfg  RetryConfig
}

// NewClient wraps doer with the retry policy in cfg.
func NewClient(doer Doer, cfg RetryConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRetryConfig().Timeout
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{doer: doer, cfg: cfg}
}

// Get is shorthand for Do with GET.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, RequestOptions{Header: header})
}

// Do sends the request, retrying classified-transient failures with exponential backoff.
// It fails with *TransportError once the retry budget is spent or a non-transient error occurs.
func (c *Client) Do(ctx context.Context, method, url string, opts RequestOptions) (*Response, error) {
	attempts := 0
	var out *Response

	err := retry.Do(ctx, NewBackoff(c.cfg), func(ctx context.Context) error {
		attempts++
		res, err := c.attempt(ctx, method, url, opts)
		if err == nil {
			out = res
			return nil
		}
		// 呼び出し元のキャンセルはリトライしない
		if ctx.Err() != nil || !IsTransient(err) {
			return err
		}
		slog.Warn("http attempt failed", "method", method, "url", url, "attempt", attempts, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		slog.Error("http request failed", "method", method, "url", url, "attempts", attempts, "error", err)
		return nil, &TransportError{URL: url, Attempts: attempts, Err: err}
	}
	return out, nil
}

// attempt runs one request under its own deadline. The body is read before the
// deadline is released so a stalled body aborts with the attempt.
func (c *Client) attempt(ctx context.Context, method, url string, opts RequestOptions) (*Response, error) {
	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(actx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: b}, nil
}

// NewBackoff returns the delay schedule for cfg: retry i waits
// min(InitialDelay * BackoffMultiplier^i, MaxDelay), for at most MaxRetries retries.
func NewBackoff(cfg RetryConfig) retry.Backoff {
	i := 0
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		f := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffMultiplier, float64(i))
		i++
		if cfg.MaxDelay > 0 && f > float64(cfg.MaxDelay) {
			return cfg.MaxDelay, false
		}
		return time.Duration(f), false
	})
	return retry.WithMaxRetries(uint64(max(cfg.MaxRetries, 0)), next)
}
