package worker

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/cache"
)

// Pool spreads builds over several workers that share one atlas cache.
//
// Pool is safe for concurrent use.
type Pool struct {
	clients []*Client
	next    atomic.Uint64
	cache   *glyphatlas.AtlasCache
}

// NewPool creates a pool over clients, which must be ready to use. The
// pool owns them and closes them on Close.
func NewPool(clients ...*Client) *Pool {
	p := &Pool{clients: clients}
	p.cache = glyphatlas.NewAtlasCache(p.build, 0)
	return p
}

// StartPool starts n in-process workers, each with a builder from
// newBuilder, and waits until all are ready.
func StartPool(ctx context.Context, n int, newBuilder func() *glyphatlas.Builder) (*Pool, error) {
	n = max(n, 1)
	clients := make([]*Client, n)
	for i := range clients {
		clients[i] = Start(ctx, newBuilder())
	}
	p := NewPool(clients...)
	for _, c := range clients {
		if err := c.Ready(ctx); err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.clients) }

// build sends f to the workers in turn.
func (p *Pool) build(ctx context.Context, f glyphatlas.Font) (*glyphatlas.Result, error) {
	if len(p.clients) == 0 {
		return nil, ErrClosed
	}
	c := p.clients[(p.next.Add(1)-1)%uint64(len(p.clients))]
	return c.makeFontAtlas(ctx, f)
}

// MakeFontAtlas returns the atlas for f, building it on the next worker
// on a cache miss.
func (p *Pool) MakeFontAtlas(ctx context.Context, f glyphatlas.Font) (*glyphatlas.Result, error) {
	return p.cache.Get(ctx, f)
}

// MakeFontAtlasAll builds the atlases for fonts concurrently. Results
// follow the order of fonts. The first failure cancels the rest.
func (p *Pool) MakeFontAtlasAll(ctx context.Context, fonts []glyphatlas.Font) ([]*glyphatlas.Result, error) {
	results := make([]*glyphatlas.Result, len(fonts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(len(p.clients), 1))
	for i, f := range fonts {
		g.Go(func() error {
			res, err := p.MakeFontAtlas(ctx, f)
			if err != nil {
				return err
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

// Stats returns statistics of the shared cache.
func (p *Pool) Stats() cache.Stats { return p.cache.Stats() }

// Close closes every worker client.
func (p *Pool) Close() error {
	var errs []error
	for _, c := range p.clients {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
