// Package api is the HTTP client for the remote todo service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Makepad-fr/tada/internal/auth"
	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultBaseURL is the public service the app was built against.
const DefaultBaseURL = "https://dummyjson.com"

// HeaderRequestID carries the per-request id.
const HeaderRequestID = "X-Request-ID"

const (
	defaultTimeout        = 10 * time.Second
	defaultRetries        = 2
	defaultBackoff        = 200 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
	defaultRateLimit      = 5
	defaultRateLimitBurst = 10
	defaultPageSize       = 30
	defaultFetchWorkers   = 4
)

// Options configures the client.
type Options struct {
	Timeout        time.Duration
	RateLimit      rate.Limit
	RateLimitBurst int
	// MaxRetries applies to GET requests only. Negative disables retries.
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
	// Token is sent as a bearer token when set.
	Token     string
	UserAgent string
	Logger    *zerolog.Logger
}

// Client talks to a dummyjson-compatible todo service.
type Client struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	token      string
	userAgent  string
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	log        zerolog.Logger
}

var _ model.Backend = (*Client)(nil)

// New creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts Options) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	opts = normalizeOptions(opts)

	log := tlog.WithComponent("api")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Client{
		baseURL:    trimmed,
		http:       &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(opts.RateLimit, opts.RateLimitBurst),
		token:      auth.StripBearer(opts.Token),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		maxBackoff: opts.MaxBackoff,
		log:        log,
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	switch {
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	case opts.MaxRetries == 0:
		opts.MaxRetries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "tada"
	}
	return opts
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections.
func (c *Client) Close() { c.http.CloseIdleConnections() }

// do sends one request and decodes a JSON answer into out when out is
// non-nil. GET requests are retried on transport errors and 5xx answers.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleepWithContext(ctx, c.backoffFor(attempt-2)); err != nil {
				return err
			}
		}
		resp, reqID, err := c.send(ctx, method, u, path, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %s %s: %v", ErrUpstream, method, path, err)
			continue
		}

		if resp.StatusCode >= http.StatusBadRequest {
			apiErr := decodeError(resp, reqID)
			_ = resp.Body.Close()
			if resp.StatusCode >= http.StatusInternalServerError {
				lastErr = apiErr
				continue
			}
			return apiErr
		}

		err = decodeBody(resp.Body, out)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
		}
		return nil
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, rawURL, path string, payload []byte) (*http.Response, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, "", err
	}
	reqID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	evt := c.log.Debug().
		Str(tlog.FieldMethod, method).
		Str(tlog.FieldPath, path).
		Str(tlog.FieldRequestID, reqID).
		Dur(tlog.FieldDuration, time.Since(start))
	if err != nil {
		evt.Err(err).Msg("request failed")
		return nil, reqID, err
	}
	evt.Int(tlog.FieldStatus, resp.StatusCode).Msg("request")
	return resp, reqID, nil
}

func decodeBody(r io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return nil
	}
	return json.NewDecoder(r).Decode(out)
}

func (c *Client) backoffFor(retry int) time.Duration {
	wait := c.backoff * time.Duration(1<<retry)
	if wait > c.maxBackoff {
		wait = c.maxBackoff
	}
	return wait
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
