package pixelsnap

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SnapAll snaps every image concurrently with the same options. Results
// keep the input order. The first failure cancels the remaining work.
func SnapAll(ctx context.Context, imgs []image.Image, opts ...Option) ([]*Result, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.RunAll(ctx, imgs)
}

func (s *Snapper) RunAll(ctx context.Context, imgs []image.Image) ([]*Result, error) {
	results := make([]*Result, len(imgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, img := range imgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.Run(img)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
