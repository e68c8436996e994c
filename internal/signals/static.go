package signals

import (
	"context"
	"fmt"
	"sync"
)

// StaticProvider serves pre-configured signal snapshots keyed by stage name.
// It is the default provider for local simulation runs: the snapshots come
// from configuration (or from a recorded crawl) rather than a live fetch.
// Safe for concurrent use.
type StaticProvider struct {
	mu    sync.RWMutex
	pages map[string]PageSignals
	errs  map[string]error
}

// NewStaticProvider creates a provider serving the given per-stage snapshots.
// Stages without an entry receive a fully healthy snapshot.
func NewStaticProvider(pages map[string]PageSignals) *StaticProvider {
	copied := make(map[string]PageSignals, len(pages))
	for stage, sig := range pages {
		copied[stage] = sig
	}
	return &StaticProvider{
		pages: copied,
		errs:  make(map[string]error),
	}
}

// Set replaces the snapshot for a stage.
func (p *StaticProvider) Set(stage string, sig PageSignals) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[stage] = sig
}

// Fail makes every subsequent fetch for the stage return the given error,
// simulating an unreachable or unparseable page.
func (p *StaticProvider) Fail(stage string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[stage] = err
}

// Fetch implements Provider. It honors context cancellation so a stalled
// batch can be torn down.
func (p *StaticProvider) Fetch(ctx context.Context, stage, target string) (PageSignals, error) {
	if err := ctx.Err(); err != nil {
		return PageSignals{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if err, ok := p.errs[stage]; ok {
		return PageSignals{}, fmt.Errorf("fetch %s (%s): %w", stage, target, err)
	}
	if sig, ok := p.pages[stage]; ok {
		return sig, nil
	}
	return Healthy(), nil
}
