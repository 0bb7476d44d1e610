package riot

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError reports that the provider signaled quota exhaustion.
// RetryAfter carries the provider-indicated resume delay, or the conservative
// default when the header was absent.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// APIError is any other non-success upstream response, including a payload
// that failed schema validation. Temporary errors may be retried; permanent
// ones never are.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("riot api error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("riot api error: status %d", e.Status)
}

func (e *APIError) Temporary() bool {
	return e.Status >= 500 || e.Status == 408
}

// IsRateLimited reports whether err is (or wraps) a provider rate-limit
// signal, returning the resume delay when it is.
func IsRateLimited(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
