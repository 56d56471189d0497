package glubpage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Mount starts the four renderers once doc is ready. They run concurrently
// and independently; the returned channel is closed when all of them have
// written their mounts.
func (r *Renderer) Mount(ctx context.Context, doc Document) <-chan struct{} {
	done := make(chan struct{})
	start := func() {
		go func() {
			defer close(done)
			r.run(ctx, doc)
		}()
	}

	if rn, ok := doc.(ReadyNotifier); ok && rn.Loading() {
		rn.OnReady(start)
	} else {
		start()
	}
	return done
}

func (r *Renderer) run(ctx context.Context, doc Document) {
	var g errgroup.Group
	for _, fn := range []func(context.Context, Document){
		r.RenderLatest,
		r.RenderArchive,
		r.InjectAds,
		r.RenderAffiliates,
	} {
		fn := fn
		g.Go(func() error {
			fn(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()
}
