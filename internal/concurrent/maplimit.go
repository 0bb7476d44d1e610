package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapLimit applies fn to every item with at most limit calls in flight,
// preserving input order in the results. The first error cancels the
// remaining work and is returned.
func MapLimit[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	out := make([]R, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gCtx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
