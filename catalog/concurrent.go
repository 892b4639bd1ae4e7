package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// both runs two independent reads concurrently and returns the first error.
func both(ctx context.Context, a, b func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a(gctx) })
	g.Go(func() error { return b(gctx) })
	return g.Wait()
}
