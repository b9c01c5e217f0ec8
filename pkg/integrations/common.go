package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/knutwalker/latest-maven-version/pkg/httputil"
)

const (
	httpTimeout = 30 * time.Second

	defaultAttempts  = 3
	defaultBaseDelay = 500 * time.Millisecond

	// maxBodySize bounds how much of a response is read.
	maxBodySize = 32 << 20
)

var (
	// ErrNotFound is returned when the resolver answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (DNS, connection, TLS, reading the body).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned for 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrUpstream is returned for 5xx responses.
	ErrUpstream = errors.New("upstream server error")

	// ErrClient is returned for any other non-200 response.
	ErrClient = errors.New("request rejected")
)

// NewHTTPClient creates an HTTP client with a standard timeout and the
// DNS-caching transport.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   httpTimeout,
		Transport: httputil.NewTransport(),
	}
}
