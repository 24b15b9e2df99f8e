package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("generate: %w", context.Canceled), "canceled"},
		{&ErrRateLimit{Err: errors.New("429")}, "rate_limit"},
		{&ErrMaxTokensExceeded{}, "max_tokens"},
		{fmt.Errorf("item: %w", &ErrInvalidResponse{Err: errors.New("schema")}), "invalid_response"},
		{&ErrProviderUnavailable{}, "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStatusError(t *testing.T) {
	var rl *ErrRateLimit
	if !errors.As(statusError(429, errors.New("x")), &rl) {
		t.Error("statusError(429) is not a rate limit")
	}
	var unavail *ErrProviderUnavailable
	for _, code := range []int{0, 500, 502, 503, 401} {
		if !errors.As(statusError(code, errors.New("x")), &unavail) {
			t.Errorf("statusError(%d) is not provider unavailable", code)
		}
	}
}
