package httputil

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrCircuitOpen is returned when a host's breaker refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

// defaultTripThreshold is the number of consecutive failures that opens a breaker.
const defaultTripThreshold = 5

// Breakers holds one circuit breaker per host.
// It is safe for concurrent use.
type Breakers struct {
	threshold int64
	breakers  map[string]*circuit.Breaker
	mu        sync.RWMutex
}

// NewBreakers creates a registry whose breakers trip after threshold
// consecutive failures. A threshold <= 0 uses the default of 5.
func NewBreakers(threshold int64) *Breakers {
	if threshold <= 0 {
		threshold = defaultTripThreshold
	}
	return &Breakers{
		threshold: threshold,
		breakers:  make(map[string]*circuit.Breaker),
	}
}

// For returns or creates the breaker for host.
func (b *Breakers) For(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, exists := b.breakers[host]
	b.mu.RUnlock()

	if exists {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, exists := b.breakers[host]; exists {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.MaxElapsedTime = 0 // a tripped breaker keeps half-opening
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(b.threshold),
	})
	b.breakers[host] = breaker
	return breaker
}

// Call runs fn through the breaker of rawURL's host. Only errors for which
// counts returns true are recorded as failures; the others pass through
// without affecting the breaker.
func (b *Breakers) Call(rawURL string, fn func() error, counts func(error) bool) error {
	host := HostOf(rawURL)
	breaker := b.For(host)

	var passthrough error
	err := breaker.Call(func() error {
		err := fn()
		if err != nil && !counts(err) {
			passthrough = err
			return nil
		}
		return err
	}, 0)
	if errors.Is(err, circuit.ErrBreakerOpen) {
		return fmt.Errorf("%w for %s", ErrCircuitOpen, host)
	}
	if err != nil {
		return err
	}
	return passthrough
}

// State reports "open" or "closed" per host, for health checks.
func (b *Breakers) State() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, breaker := range b.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

// HostOf extracts the host used to group breakers.
func HostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
