package reliability

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{200, false},
		{400, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tc := range cases {
		got := IsRetryableHTTPStatus(tc.code)
		if got != tc.want {
			t.Fatalf("IsRetryableHTTPStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	rateLimited := &googleapi.Error{Code: 429}
	if !IsRetryableError(rateLimited) {
		t.Fatalf("googleapi 429 should be retryable")
	}
	if !IsRetryableError(fmt.Errorf("generate: %w", rateLimited)) {
		t.Fatalf("wrapped googleapi 429 should be retryable")
	}
	if IsRetryableError(&googleapi.Error{Code: 400}) {
		t.Fatalf("googleapi 400 should not be retryable")
	}
	if IsRetryableError(errors.New("connection refused")) {
		t.Fatalf("plain errors should not be retryable")
	}
}

func TestExponentialBackoffCap(t *testing.T) {
	base := 100 * time.Millisecond
	capDur := 700 * time.Millisecond
	if got := ExponentialBackoff(0, base, capDur); got != base {
		t.Fatalf("attempt 0 = %v, want %v", got, base)
	}
	if got := ExponentialBackoff(10, base, capDur); got != capDur {
		t.Fatalf("attempt 10 = %v, want %v", got, capDur)
	}
}
