package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/httputil"
)

func newTestClient(server *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{
		WithHTTPClient(server.Client()),
		WithBaseDelay(time.Millisecond),
	}, opts...)
	return NewClient(opts...)
}

func TestNewClient(t *testing.T) {
	client := NewClient()
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.breakers == nil {
		t.Error("NewClient() breakers are nil")
	}
	if client.attempts != defaultAttempts {
		t.Errorf("attempts = %d, want %d", client.attempts, defaultAttempts)
	}
	if !strings.HasPrefix(client.headers["User-Agent"], "latest-maven-version/") {
		t.Errorf("User-Agent = %q", client.headers["User-Agent"])
	}
}

func TestWithTimeoutCopiesClient(t *testing.T) {
	base := &http.Client{Timeout: time.Second}
	client := NewClient(WithHTTPClient(base), WithTimeout(5*time.Second))
	if client.http.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.http.Timeout)
	}
	if base.Timeout != time.Second {
		t.Error("WithTimeout() must not modify the given client")
	}
}

func TestClientGetBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	got, err := newTestClient(server).GetBody(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBody() error: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("GetBody() = %q, want %q", got, "hello")
	}
}

func TestClientHeaders(t *testing.T) {
	var got http.Header
	var user, pass string
	var ok bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		user, pass, ok = r.BasicAuth()
	}))
	defer server.Close()

	client := newTestClient(server,
		WithHeaders(map[string]string{"X-Custom": "custom", "User-Agent": "override"}),
		WithBasicAuth("alice", "s3cret"),
	)
	if _, err := client.GetBody(context.Background(), server.URL); err != nil {
		t.Fatalf("GetBody() error: %v", err)
	}

	if got.Get("X-Custom") != "custom" {
		t.Errorf("X-Custom = %q", got.Get("X-Custom"))
	}
	if got.Get("User-Agent") != "override" {
		t.Errorf("User-Agent = %q, want override", got.Get("User-Agent"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
	if !ok || user != "alice" || pass != "s3cret" {
		t.Errorf("BasicAuth() = %q, %q, %v", user, pass, ok)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized, false},
		{"forbidden", http.StatusForbidden, ErrForbidden, false},
		{"bad request", http.StatusBadRequest, ErrClient, false},
		{"gone", http.StatusGone, ErrClient, false},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited, true},
		{"server error", http.StatusInternalServerError, ErrUpstream, true},
		{"bad gateway", http.StatusBadGateway, ErrUpstream, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server, WithMaxAttempts(2)).GetBody(context.Background(), server.URL)
			if !errors.Is(err, tt.want) {
				t.Fatalf("GetBody() error = %v, want %v", err, tt.want)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", !tt.retryable, tt.retryable)
			}
			wantCalls := int32(1)
			if tt.retryable {
				wantCalls = 2
			}
			if calls.Load() != wantCalls {
				t.Errorf("server called %d times, want %d", calls.Load(), wantCalls)
			}
		})
	}
}

func TestClientRateLimitedRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server, WithMaxAttempts(1)).GetBody(context.Background(), server.URL)
	var limited *errs.RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("GetBody() error = %v, want RateLimitedError", err)
	}
	if limited.RetryAfter != 7 {
		t.Errorf("RetryAfter = %d, want 7", limited.RetryAfter)
	}
}

func TestClientRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	got, err := newTestClient(server, WithMaxAttempts(3)).GetBody(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBody() error: %v", err)
	}
	if string(got) != "ok" || calls.Load() != 3 {
		t.Errorf("GetBody() = %q after %d calls", got, calls.Load())
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	client := newTestClient(server, WithMaxAttempts(1))
	server.Close()

	_, err := client.GetBody(context.Background(), url)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetBody() error = %v, want ErrNetwork", err)
	}
}

func TestClientCircuitOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server, WithMaxAttempts(1), WithBreakers(httputil.NewBreakers(2)))
	for i := 0; i < 2; i++ {
		if _, err := client.GetBody(context.Background(), server.URL); !errors.Is(err, ErrUpstream) {
			t.Fatalf("call %d: error = %v, want ErrUpstream", i, err)
		}
	}

	_, err := client.GetBody(context.Background(), server.URL)
	if !errors.Is(err, httputil.ErrCircuitOpen) {
		t.Errorf("GetBody() error = %v, want ErrCircuitOpen", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestClientNotFoundDoesNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server, WithBreakers(httputil.NewBreakers(1)))
	for i := 0; i < 3; i++ {
		if _, err := client.GetBody(context.Background(), server.URL); !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d: error = %v, want ErrNotFound", i, err)
		}
	}
}

func TestClientContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server).GetBody(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetBody() error = %v, want context.Canceled", err)
	}
}
