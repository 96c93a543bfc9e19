package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	// BaseURL is the storefront API root, e.g. "http://localhost:8080/api".
	BaseURL string
	Timeout time.Duration
	// CacheTTL bounds how long GET payloads are served from memory.
	// Zero means DefaultCacheTTL.
	CacheTTL time.Duration
	// EnableBreaker trips a circuit breaker after repeated transport
	// failures so a dead backend fails fast instead of burning retries.
	EnableBreaker bool
	// EnableTracing wraps the transport with otelhttp instrumentation.
	EnableTracing bool
	// Sleep replaces the inter-retry wait. Tests inject a recorder here;
	// nil means a real timer honoring ctx cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// RequestOptions tune a single call.
type RequestOptions struct {
	Query url.Values
	// RetryRateLimited opts this call into the 429 backoff policy.
	RetryRateLimited bool
	// NoCache bypasses the response cache for a GET.
	NoCache bool
}

// Client is the storefront transport: base URL resolution, bearer token
// injection, request ids, response caching, retry/backoff and error
// classification. It owns the ResponseCache and observes the Session so an
// auth change always empties the cache.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cache   *ResponseCache
	sess    *session.Session
	log     zerolog.Logger
	breaker *gobreaker.CircuitBreaker[*http.Response]
	sleep   func(ctx context.Context, d time.Duration) error

	mu                 sync.Mutex
	currentPath        string
	onUnauthorized     []func(intendedPath string)
	onUserTypeConflict []func(message string)
}

func New(cfg Config, sess *session.Session, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.EnableTracing {
		transport = otelhttp.NewTransport(transport)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout, Transport: transport},
		cache:   NewResponseCache(cfg.CacheTTL),
		sess:    sess,
		log:     log.With().Str("component", "transport").Logger(),
		sleep:   cfg.Sleep,
	}
	if c.sleep == nil {
		c.sleep = sleepCtx
	}

	if cfg.EnableBreaker {
		c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:    "storefront-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.log.Warn().Str("breaker", name).
					Str("from", from.String()).Str("to", to.String()).
					Msg("circuit breaker state change")
			},
		})
	}

	// Any login/logout empties the cache so a new identity never reads
	// payloads fetched under the old one.
	sess.OnChange(c.cache.Clear)

	return c, nil
}

// Cache exposes the response cache for explicit invalidation after
// mutations.
func (c *Client) Cache() *ResponseCache { return c.cache }

// SetCurrentLocation records where the embedding app currently is; captured
// as the intended path when a 401 tears the session down.
func (c *Client) SetCurrentLocation(path string) {
	c.mu.Lock()
	c.currentPath = path
	c.mu.Unlock()
}

// OnUnauthorized registers a redirect-to-login signal handler. Handlers
// accumulate and every registered handler runs.
func (c *Client) OnUnauthorized(fn func(intendedPath string)) {
	c.mu.Lock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
	c.mu.Unlock()
}

// OnUserTypeConflict registers a handler for 400 responses that indicate
// the server no longer agrees with the client's user-type selection.
// Handlers accumulate and every registered handler runs.
func (c *Client) OnUserTypeConflict(fn func(message string)) {
	c.mu.Lock()
	c.onUserTypeConflict = append(c.onUserTypeConflict, fn)
	c.mu.Unlock()
}

func (c *Client) Get(ctx context.Context, path string, out any, opts *RequestOptions) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts *RequestOptions) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts *RequestOptions) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts *RequestOptions) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts)
}

// Do performs one logical API call: cache consult for GETs, bounded retries
// per failure class, then either decodes the payload into out or returns a
// classified error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts *RequestOptions) error {
	if opts == nil {
		opts = &RequestOptions{}
	}
	rawQuery := ""
	if opts.Query != nil {
		rawQuery = opts.Query.Encode()
	}

	isGet := method == http.MethodGet
	key := cacheKey(method, path, rawQuery)
	if isGet && !opts.NoCache {
		if payload, ok := c.cache.Get(key); ok {
			c.log.Debug().Str("path", path).Msg("cache hit")
			return decodePayload(payload, out)
		}
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/"), RawQuery: rawQuery})
	if !strings.HasSuffix(c.baseURL.Path, "/") {
		// ResolveReference drops the last base segment without a
		// trailing slash, so join by hand instead.
		joined := *c.baseURL
		joined.Path = strings.TrimSuffix(c.baseURL.Path, "/") + "/" + strings.TrimPrefix(path, "/")
		joined.RawQuery = rawQuery
		u = &joined
	}

	stdAttempt, rlAttempt := 0, 0
	for {
		resp, err := c.roundTrip(ctx, method, u.String(), bodyBytes)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return &NetworkError{Err: err}
			}
			if ctx.Err() != nil {
				return &NetworkError{Err: ctx.Err()}
			}
			if stdAttempt < StandardRetry.MaxRetries {
				delay := StandardRetry.Delay(stdAttempt)
				stdAttempt++
				c.log.Warn().Err(err).Str("path", path).Int("attempt", stdAttempt).
					Dur("delay", delay).Msg("network error, retrying")
				if serr := c.sleep(ctx, delay); serr != nil {
					return &NetworkError{Err: serr}
				}
				continue
			}
			return &NetworkError{Err: err}
		}

		payload, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return &NetworkError{Err: readErr}
		}

		status := resp.StatusCode
		switch {
		case status >= 200 && status < 300:
			if isGet && !opts.NoCache {
				c.cache.Put(key, payload)
			}
			return decodePayload(payload, out)

		case status == http.StatusTooManyRequests:
			if opts.RetryRateLimited && rlAttempt < RateLimitRetry.MaxRetries {
				delay := RateLimitRetry.Delay(rlAttempt)
				rlAttempt++
				c.log.Warn().Str("path", path).Int("attempt", rlAttempt).
					Dur("delay", delay).Msg("rate limited, backing off")
				if serr := c.sleep(ctx, delay); serr != nil {
					return &NetworkError{Err: serr}
				}
				continue
			}
			return c.classify(status, payload, resp)

		case status >= 500:
			if stdAttempt < StandardRetry.MaxRetries {
				delay := StandardRetry.Delay(stdAttempt)
				stdAttempt++
				c.log.Warn().Int("status", status).Str("path", path).
					Int("attempt", stdAttempt).Dur("delay", delay).
					Msg("server error, retrying")
				if serr := c.sleep(ctx, delay); serr != nil {
					return &NetworkError{Err: serr}
				}
				continue
			}
			return c.classify(status, payload, resp)

		case status == http.StatusUnauthorized:
			c.handleUnauthorized(path)
			return c.classify(status, payload, resp)

		case status == http.StatusBadRequest:
			herr := c.classify(status, payload, resp)
			if msg := errorMessage(payload); isUserTypeMessage(msg) {
				c.mu.Lock()
				handlers := make([]func(string), len(c.onUserTypeConflict))
				copy(handlers, c.onUserTypeConflict)
				c.mu.Unlock()
				for _, fn := range handlers {
					fn(msg)
				}
			}
			return herr

		default:
			return c.classify(status, payload, resp)
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	send := func() (*http.Response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set(HeaderRequestID, newRequestID())
		if token := c.sess.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return c.http.Do(req)
	}

	if c.breaker != nil {
		return c.breaker.Execute(send)
	}
	return send()
}

// handleUnauthorized implements the global 401 behavior: tear down the
// session, remember where the user was, signal redirect-to-login.
func (c *Client) handleUnauthorized(path string) {
	c.mu.Lock()
	intended := c.currentPath
	handlers := make([]func(string), len(c.onUnauthorized))
	copy(handlers, c.onUnauthorized)
	c.mu.Unlock()

	c.log.Error().Str("path", path).Str("intendedPath", intended).
		Msg("unauthorized, clearing session")

	c.sess.Clear()
	if intended != "" {
		c.sess.SetIntendedPath(intended)
	}
	for _, fn := range handlers {
		fn(intended)
	}
}

func (c *Client) classify(status int, payload []byte, resp *http.Response) *HTTPError {
	return &HTTPError{
		Status:    status,
		Message:   errorMessage(payload),
		RequestID: resp.Request.Header.Get(HeaderRequestID),
	}
}

// errorMessage pulls the server-provided message out of an error payload.
// The API answers either {"message": ...} or {"error": ...}.
func errorMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func isUserTypeMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "user type") || strings.Contains(m, "usertype") ||
		strings.Contains(m, "user-type")
}

func decodePayload(payload []byte, out any) error {
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
