package journey

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

// GenericAbandonReason is recorded when a session stops without any
// stage-required capability being absent: the visitor simply lost intent.
const GenericAbandonReason = "no further purchase intent"

// Config holds the fixed inputs shared by every session in a run.
type Config struct {
	// Stages is the ordered funnel sequence, including per-stage retention.
	Stages []Stage

	// CartValueMin/Max bound the uniform draw for a converted session's
	// cart value.
	CartValueMin float64
	CartValueMax float64
}

// Simulator drives individual visitor sessions through the configured stage
// sequence. Each simulator owns its random source and has no shared mutable
// state, so distinct simulators may run concurrently; a single simulator is
// not safe for concurrent use.
type Simulator struct {
	cfg      Config
	provider signals.Provider
	rng      *rand.Rand

	// Now is the clock used to measure time spent per stage. Overridable
	// in tests for reproducible records.
	Now func() time.Time
}

// New creates a simulator. A nil rng falls back to a time-seeded source;
// pass a seeded rand.New(rand.NewSource(seed)) for reproducible sessions.
func New(cfg Config, provider signals.Provider, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		cfg:      cfg,
		provider: provider,
		rng:      rng,
		Now:      time.Now,
	}
}

// Simulate runs one visitor session and returns its record. The archetype
// tag is recorded for later segmentation but does not alter behavior.
//
// At each stage the provider is queried and a step is stamped; a retention
// draw then decides whether the visitor continues. A provider failure
// terminates the session at that stage with the failure description as the
// abandonment reason and is the only path that skips the retention draw.
// With zero configured stages the session converts immediately.
func (s *Simulator) Simulate(ctx context.Context, archetype string) SessionRecord {
	rec := SessionRecord{Archetype: archetype}

	for _, stage := range s.cfg.Stages {
		start := s.Now()
		sig, err := s.provider.Fetch(ctx, stage.Name, stage.Target)
		elapsed := round2(s.Now().Sub(start).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}

		if err != nil {
			rec.Steps = append(rec.Steps, StepOutcome{
				Stage:     stage.Name,
				TimeSpent: elapsed,
				Success:   false,
			})
			rec.TotalTime = round2(rec.TotalTime + elapsed)
			rec.AbandonedAt = stage.Name
			rec.AbandonReasons = []string{err.Error()}
			return rec
		}

		rec.Steps = append(rec.Steps, StepOutcome{
			Stage:     stage.Name,
			TimeSpent: elapsed,
			Success:   true,
			Signals:   sig,
		})
		rec.TotalTime = round2(rec.TotalTime + elapsed)

		if !s.continuePast(stage) {
			rec.AbandonedAt = stage.Name
			rec.AbandonReasons = abandonReasons(stage.Kind, sig)
			return rec
		}
	}

	rec.Converted = true
	rec.CartValue = s.drawCartValue()
	return rec
}

// continuePast draws the retention decision for a stage. Probabilities of
// exactly 0 or 1 short-circuit without consuming a random sample, so fully
// deterministic configurations stay deterministic regardless of the source.
func (s *Simulator) continuePast(stage Stage) bool {
	switch {
	case stage.Retention >= 1:
		return true
	case stage.Retention <= 0:
		return false
	}
	return s.rng.Float64() < stage.Retention
}

func (s *Simulator) drawCartValue() float64 {
	min, max := s.cfg.CartValueMin, s.cfg.CartValueMax
	if max <= min {
		return round2(min)
	}
	return round2(min + s.rng.Float64()*(max-min))
}

// abandonReasons derives the reason tags for a retention-driven abandonment
// from the most recent signal snapshot. Every absent stage-required
// capability is recorded, not just the first; when nothing is missing the
// generic no-intent reason is used.
func abandonReasons(kind StageKind, sig signals.PageSignals) []string {
	var reasons []string

	switch kind {
	case KindListing:
		if sig.ProductCount == 0 {
			reasons = append(reasons, "no products available")
		}
	case KindProduct, KindCart:
		if !sig.HasAddToCart {
			reasons = append(reasons, "no add to cart control")
		}
		if sig.Stock == signals.StockOutOfStock {
			reasons = append(reasons, "product out of stock")
		}
		if !sig.HasSizeSelector {
			reasons = append(reasons, "no size selector available")
		}
	case KindCheckout:
		if !sig.HasCheckoutForm {
			reasons = append(reasons, "missing checkout element: customer info form")
		}
		if !sig.HasShippingOptions {
			reasons = append(reasons, "missing checkout element: shipping options")
		}
		if !sig.HasPaymentOptions {
			reasons = append(reasons, "missing checkout element: payment options")
		}
		if !sig.HasPlaceOrderButton {
			reasons = append(reasons, "missing checkout element: place order button")
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, GenericAbandonReason)
	}
	return reasons
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
