// Package watcher provides background monitoring of storefront funnel
// health: it re-runs a simulation batch at a regular interval, compares
// consecutive funnel states, and emits alerts on conversion drops, friction
// spikes, and page fetch failures.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/funnelwatch/internal/funnel"
	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

// FunnelState captures one monitored batch: the aggregated funnel plus the
// ranked friction tables.
type FunnelState struct {
	Timestamp    time.Time
	Snapshot     funnel.Snapshot
	Friction     []funnel.FrictionEntry
	Reasons      []funnel.ReasonEntry
	FailedFetches int

	// Internal: keep the raw batch for comparison detail.
	records []journey.SessionRecord
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Watcher re-simulates the configured funnel at a regular interval and
// emits alerts when consecutive states diverge beyond the thresholds.
type Watcher struct {
	cfg      journey.Config
	provider signals.Provider
	batch    journey.BatchOptions
	interval time.Duration
	previous *FunnelState
	alertFn  func(Alert)
	checks   int64

	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts

	// ConversionDropPct is the conversion-rate drop (percentage points)
	// that triggers a critical alert.
	ConversionDropPct float64

	// FrictionSpikePct is the per-stage abandonment share increase
	// (percentage points) that triggers a warning.
	FrictionSpikePct float64
}

// New creates a Watcher that monitors the given funnel configuration.
func New(cfg journey.Config, provider signals.Provider, batch journey.BatchOptions, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		cfg:               cfg,
		provider:          provider,
		batch:             batch,
		interval:          interval,
		alertFn:           alertFn,
		lastAlertKeys:     make(map[string]bool),
		ConversionDropPct: 5.0,
		FrictionSpikePct:  15.0,
	}
}

// Run starts the watch loop. It takes an initial baseline batch, then
// checks at every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Sample(ctx)
	if err != nil {
		return fmt.Errorf("initial batch: %w", err)
	}
	w.previous = initial

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			alerts := w.Check(ctx)
			for _, a := range alerts {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Sample simulates one batch and aggregates it into a FunnelState. Each
// sample derives a fresh seed offset so consecutive checks draw new
// sessions rather than replaying the baseline.
func (w *Watcher) Sample(ctx context.Context) (*FunnelState, error) {
	opts := w.batch
	opts.Seed = w.batch.Seed + w.checks*int64(max(opts.Sessions, 1))
	w.checks++

	records, err := journey.RunBatch(ctx, w.cfg, w.provider, opts)
	if err != nil {
		return nil, err
	}

	snap := funnel.Aggregate(w.cfg.Stages, records)
	friction, reasons := funnel.RankFriction(records)

	state := &FunnelState{
		Timestamp: time.Now(),
		Snapshot:  snap,
		Friction:  friction,
		Reasons:   reasons,
		records:   records,
	}
	for _, r := range records {
		if n := len(r.Steps); n > 0 && !r.Steps[n-1].Success {
			state.FailedFetches++
		}
	}
	return state, nil
}

// Check performs a single check cycle: samples a new batch, compares it
// against the previous state, updates the previous state, and returns any
// alerts. Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Sample(ctx)
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Batch failed",
			Message: fmt.Sprintf("Could not simulate funnel batch: %v", err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr, w.ConversionDropPct, w.FrictionSpikePct)
	}
	w.previous = curr

	// Dedup: only emit alerts whose key wasn't emitted last cycle.
	seen := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + "|" + a.Title
		seen[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = seen

	return alerts
}
