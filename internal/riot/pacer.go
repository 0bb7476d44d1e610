package riot

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces successive upstream calls by a fixed minimum interval. It is a
// deliberately conservative, non-adaptive throttle that keeps batch work under
// the provider quota independently of reactive backoff.
type Pacer struct {
	lim *rate.Limiter
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
