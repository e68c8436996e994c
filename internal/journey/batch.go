package journey

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

// BatchOptions controls a multi-session simulation run.
type BatchOptions struct {
	// Sessions is the number of visitor sessions to simulate.
	Sessions int

	// Archetypes are the visitor archetype tags to draw from. Empty means
	// every session is tagged "new_visitor".
	Archetypes []string

	// Workers bounds concurrent sessions. Values < 1 mean sequential.
	Workers int

	// Seed is the base random seed. Session i derives its own source from
	// Seed+i, so results are reproducible regardless of worker count or
	// completion order.
	Seed int64

	// Now overrides the per-stage clock (tests). Nil means time.Now.
	Now func() time.Time
}

// RunBatch simulates opts.Sessions visitor sessions against the provider and
// returns their records in submission order. Sessions are independent: each
// owns its random source and output slot, so no locking is needed, and a
// provider failure in one session never disturbs the others.
func RunBatch(ctx context.Context, cfg Config, provider signals.Provider, opts BatchOptions) ([]SessionRecord, error) {
	if opts.Sessions <= 0 {
		return nil, nil
	}

	archetypes := opts.Archetypes
	if len(archetypes) == 0 {
		archetypes = []string{"new_visitor"}
	}

	records := make([]SessionRecord, opts.Sessions)

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}

	for i := 0; i < opts.Sessions; i++ {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.Seed + int64(i)))
			sim := New(cfg, provider, rng)
			if opts.Now != nil {
				sim.Now = opts.Now
			}
			archetype := archetypes[rng.Intn(len(archetypes))]
			records[i] = sim.Simulate(gctx, archetype)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
