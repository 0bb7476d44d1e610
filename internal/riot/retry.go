package riot

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/lolData-cc/loldata-backend/internal/constants"
)

// Do wraps a single upstream operation with bounded retry. Rate-limit
// responses wait the provider-indicated delay up to a total wait budget;
// temporary failures use linear backoff capped at
// constants.MaxTransientAttempts; permanent failures propagate immediately.
// Callers treat an exhausted retry as a hard failure for that unit of work
// only.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	b := &rateAwareBackoff{}

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			b.lastErr = err
			if retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func retryable(err error) bool {
	if _, ok := IsRateLimited(err); ok {
		return true
	}
	var api *APIError
	return errors.As(err, &api) && api.Temporary()
}

// rateAwareBackoff picks the next wait from the error that triggered the
// retry: the provider resume delay for rate limits, counted against a total
// wait budget rather than the attempt cap, and linear steps for transient
// failures, counted against the attempt cap. Exhausting either limit stops
// the retry.
type rateAwareBackoff struct {
	lastErr    error
	transient  int
	rateWaited time.Duration
}

func (b *rateAwareBackoff) Next() (time.Duration, bool) {
	if wait, ok := IsRateLimited(b.lastErr); ok {
		if wait < constants.MinRateLimitWait {
			wait = constants.MinRateLimitWait
		}
		if b.rateWaited+wait > constants.RateLimitWaitBudget {
			return 0, true
		}
		b.rateWaited += wait
		return wait, false
	}

	b.transient++
	if b.transient >= constants.MaxTransientAttempts {
		return 0, true
	}
	return time.Duration(b.transient) * constants.TransientRetryStep, false
}
