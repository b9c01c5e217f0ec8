package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/knutwalker/latest-maven-version/pkg/buildinfo"
	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/httputil"
	"github.com/knutwalker/latest-maven-version/pkg/observability"
)

// Client provides shared HTTP functionality for resolver clients.
// It handles retries, circuit breaking, authentication and common headers.
//
// All methods are safe for concurrent use.
type Client struct {
	http     *http.Client
	headers  map[string]string
	auth     *basicAuth
	attempts int
	delay    time.Duration
	breakers *httputil.Breakers
	logger   *log.Logger
}

type basicAuth struct {
	user, pass string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout sets the per-request timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			h := *c.http
			h.Timeout = d
			c.http = &h
		}
	}
}

// WithHeaders adds headers sent with every request. They override the defaults.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithBasicAuth authenticates every request with HTTP Basic Auth.
func WithBasicAuth(user, pass string) Option {
	return func(c *Client) {
		c.auth = &basicAuth{user: user, pass: pass}
	}
}

// WithMaxAttempts sets how often a transient failure is tried in total.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.attempts = n
	}
}

// WithBaseDelay sets the initial delay between attempts.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithBreakers shares a circuit breaker registry between clients.
func WithBreakers(b *httputil.Breakers) Option {
	return func(c *Client) {
		c.breakers = b
	}
}

// WithLogger sets the logger for request tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: NewHTTPClient(),
		headers: map[string]string{
			"User-Agent": buildinfo.UserAgent(),
			"Accept":     "application/xml, text/xml;q=0.9, */*;q=0.8",
		},
		attempts: defaultAttempts,
		delay:    defaultBaseDelay,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breakers == nil {
		c.breakers = httputil.NewBreakers(0)
	}
	return c
}

// Breakers returns the circuit breaker registry used by c.
func (c *Client) Breakers() *httputil.Breakers {
	return c.breakers
}

// GetBody performs an HTTP GET and returns the full response body.
// Transient failures are retried; the call goes through the host's
// circuit breaker.
//
// Errors wrap one of the package sentinels ([ErrNotFound], [ErrNetwork],
// [ErrUpstream], ...), [httputil.ErrCircuitOpen], or the context error.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		return c.breakers.Call(url, func() error {
			b, err := c.doRequest(ctx, url)
			if err != nil {
				return err
			}
			body = b
			return nil
		}, httputil.IsRetryable)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.auth != nil {
		req.SetBasicAuth(c.auth.user, c.auth.pass)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("request failed", "url", url, "request_id", requestID, "err", err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, elapsed)
	c.logger.Debug("response", "url", url, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", elapsed.Round(time.Millisecond))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: reading body: %w", ErrNetwork, err)}
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrForbidden, code)
	case code == http.StatusTooManyRequests:
		limited := &errs.RateLimitedError{RetryAfter: retryAfter(resp)}
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %w", ErrRateLimited, limited)}
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d%s", ErrUpstream, code, bodySnippet(resp))}
	default:
		return fmt.Errorf("%w: status %d%s", ErrClient, code, bodySnippet(resp))
	}
}

func retryAfter(resp *http.Response) int {
	n, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func bodySnippet(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if s := strings.TrimSpace(string(body)); s != "" {
		return ": " + s
	}
	return ""
}
