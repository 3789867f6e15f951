package translator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oukeidos/locstr/internal/apperrors"
)

func TestRetryDecision(t *testing.T) {
	ctx := context.Background()
	transient := apperrors.Transient(errors.New("503"))

	tests := []struct {
		name    string
		err     error
		attempt int
		max     int
		retry   bool
	}{
		{"nil error", nil, 1, 3, false},
		{"transient mid-run", transient, 1, 3, true},
		{"attempts exhausted", transient, 3, 3, false},
		{"context canceled", context.Canceled, 1, 3, false},
		{"deadline exceeded", context.DeadlineExceeded, 1, 3, false},
		{"auth error", apperrors.Auth(errors.New("401")), 1, 3, false},
		{"bad request", apperrors.BadRequest(errors.New("400")), 1, 3, false},
		{"rate limit", apperrors.RateLimit(errors.New("429")), 1, 3, true},
		{"validation", apperrors.Validation(errors.New("parity")), 1, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retry, _ := retryDecision(ctx, tt.err, tt.attempt, tt.max)
			if retry != tt.retry {
				t.Errorf("retry = %v, want %v", retry, tt.retry)
			}
		})
	}
}

func TestRetryDecisionBackoffGrows(t *testing.T) {
	ctx := context.Background()
	transient := apperrors.Transient(errors.New("503"))

	_, b1 := retryDecision(ctx, transient, 1, 10)
	_, b3 := retryDecision(ctx, transient, 3, 10)

	// Jitter is at most one second, so attempt 3 (4s base) always beats
	// attempt 1 (1s base).
	if b3 <= b1-time.Second {
		t.Errorf("backoff should grow with attempts: attempt1=%v attempt3=%v", b1, b3)
	}
	if b1 < time.Second || b1 > 2*time.Second {
		t.Errorf("attempt 1 backoff out of range: %v", b1)
	}
}

func TestRetryDecisionRateLimitDoubles(t *testing.T) {
	ctx := context.Background()

	_, b := retryDecision(ctx, apperrors.RateLimit(errors.New("429")), 1, 10)
	if b < 2*time.Second || b > 3*time.Second {
		t.Errorf("rate-limit backoff out of range: %v", b)
	}
}
