package scrape

import (
	"context"

	"github.com/fwojciec/cbprofile"
	"golang.org/x/sync/errgroup"
)

// writeAll hands the profile to every writer concurrently and returns the
// first error.
func writeAll(ctx context.Context, writers []cbprofile.ProfileWriter, p *cbprofile.Profile) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range writers {
		g.Go(func() error {
			return w.WriteProfile(gctx, p)
		})
	}
	return g.Wait()
}
