// Package integrations provides the HTTP client used to talk to Maven
// resolvers.
//
// # Overview
//
// [Client] wraps net/http with the behaviour every resolver call needs:
//
//   - retry of transient failures with exponential backoff
//   - a circuit breaker per resolver host
//   - a DNS-caching transport
//   - HTTP Basic Auth, a User-Agent and an X-Request-ID per request
//
// Resolver specific clients live in subpackages:
//
//   - [maven]: maven-metadata.xml from any Maven style repository
//
// # Errors
//
// Failures are reported through sentinels so callers can tell them apart:
// [ErrNotFound] for 404, [ErrUnauthorized] and [ErrForbidden] for 401/403,
// [ErrRateLimited] for 429, [ErrUpstream] for 5xx, [ErrClient] for other
// rejected requests and [ErrNetwork] for transport failures. Only
// network failures, 429 and 5xx are retried and count against the
// circuit breaker.
//
// [maven]: github.com/knutwalker/latest-maven-version/pkg/integrations/maven
package integrations
