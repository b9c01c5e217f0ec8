package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("404")

	tests := []struct {
		name         string
		attempts     int
		results      []error
		wantCalls    int
		wantErr      error
		wantRetrying bool
	}{
		{"success first try", 3, []error{nil}, 1, nil, false},
		{"success after retry", 3, []error{transient, nil}, 2, nil, false},
		{"permanent error stops", 3, []error{permanent, nil}, 1, permanent, false},
		{"exhausted", 3, []error{transient, transient, transient, nil}, 3, transient, true},
		{"zero attempts means one", 0, []error{transient, nil}, 1, transient, true},
		{"single attempt does not retry", 1, []error{transient, nil}, 1, transient, true},
		{"two attempts", 2, []error{transient, transient, nil}, 2, transient, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				err := tt.results[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if got := IsRetryable(err); got != tt.wantRetrying {
				t.Errorf("IsRetryable(err) = %v, want %v", got, tt.wantRetrying)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, 50*time.Millisecond, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("timeout")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, attempts := range []int{1, 3} {
		calls := 0
		err := Retry(ctx, attempts, time.Millisecond, func() error { calls++; return nil })
		if !errors.Is(err, context.Canceled) || calls != 0 {
			t.Errorf("attempts %d: err = %v, calls = %d", attempts, err, calls)
		}
	}
}

func TestRetryableErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &RetryableError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("RetryableError should unwrap to its cause")
	}
	if err.Error() != "inner" {
		t.Errorf("Error() = %q", err.Error())
	}
}
