// Package httputil provides HTTP plumbing for talking to Maven resolvers.
//
// # Overview
//
//   - [Retry]: Automatic retry with exponential backoff (github.com/cenk/backoff)
//   - [Breakers]: Per-host circuit breakers (github.com/rubyist/circuitbreaker)
//   - [NewTransport]: Transport dialing through a DNS cache (github.com/rs/dnscache)
//
// # Retry
//
// [Retry] re-runs an operation only when it fails with a [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Any other error stops the loop immediately.
//
// # Circuit breaking
//
// [Breakers] trips a host's breaker after 5 consecutive counted failures
// and re-probes with exponential backoff starting at 30 seconds. Callers
// decide which errors count; a 404 says nothing about the host's health.
package httputil
