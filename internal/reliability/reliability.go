// Package reliability classifies external-call failures. Calls are made
// once; classification feeds metrics and logs so transient upstream
// trouble is visible without automated retries hiding it.
package reliability

import "time"

// IsRetryableHTTPStatus classifies HTTP status codes that indicate a
// transient upstream condition.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ErrorKind labels a capability failure for metrics.
func ErrorKind(statusCode int) string {
	if IsRetryableHTTPStatus(statusCode) {
		return "transient"
	}
	return "permanent"
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
