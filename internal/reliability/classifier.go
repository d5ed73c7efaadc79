package reliability

import (
	"errors"
	"time"

	"google.golang.org/api/googleapi"
)

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// IsRetryableError reports whether err is a transient upstream API failure.
// Only googleapi errors carry a usable status code; anything else is treated
// as permanent.
func IsRetryableError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return IsRetryableHTTPStatus(apiErr.Code)
	}
	return false
}

// ExponentialBackoff computes a deterministic capped backoff duration.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}
