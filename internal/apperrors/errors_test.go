package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   Kind
		wantOK bool
	}{
		{"nil error", nil, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"format error", Format(errors.New("bad json")), KindFormat, true},
		{"schema error", Schema(errors.New("not a catalog")), KindSchema, true},
		{"rate limit", RateLimit(errors.New("429")), KindRateLimit, true},
		{"wrapped app error", fmt.Errorf("outer: %w", Auth(errors.New("no key"))), KindAuth, true},
		{"validation", Validation(errors.New("length mismatch")), KindValidation, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("KindOf() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transient", Transient(errors.New("timeout")), true},
		{"rate limit", RateLimit(errors.New("429")), true},
		{"validation", Validation(errors.New("parity")), true},
		{"auth", Auth(errors.New("401")), false},
		{"bad request", BadRequest(errors.New("400")), false},
		{"format", Format(errors.New("bad json")), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Transient(cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should extract *Error")
	}
	if appErr.Kind != KindTransient {
		t.Errorf("Kind = %q, want %q", appErr.Kind, KindTransient)
	}
}

func TestPublicMessage(t *testing.T) {
	if msg := PublicMessage(New(KindAuth, "", nil)); msg != defaultSafeMessage(KindAuth) {
		t.Errorf("empty SafeMessage should fall back to the kind default, got %q", msg)
	}
	if msg := PublicMessage(New(KindRateLimit, "custom limit message", nil)); msg != "custom limit message" {
		t.Errorf("PublicMessage() = %q, want custom message", msg)
	}
	if msg := PublicMessage(nil); msg != "" {
		t.Errorf("PublicMessage(nil) = %q, want empty", msg)
	}
}
