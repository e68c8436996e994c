// Package detect derives remediation issues from an aggregated simulation
// batch. Each rule examines the funnel context and produces zero or more
// issues; the engine runs every registered rule and collects the results.
// Thresholds are configured heuristics matched to storefront conversion
// benchmarks, not learned parameters.
package detect

import (
	"github.com/blackwell-systems/funnelwatch/internal/funnel"
	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
)

// FunnelContext provides everything rules need: the aggregated snapshot,
// the ranked friction tables, and the stage sequence (for kind lookups).
type FunnelContext struct {
	Stages   []journey.Stage
	Snapshot funnel.Snapshot
	Friction []funnel.FrictionEntry
	Reasons  []funnel.ReasonEntry
}

// StageRate returns the cumulative rate of the first stage with the given
// kind, and whether such a stage exists in the sequence.
func (c *FunnelContext) StageRate(kind journey.StageKind) (float64, bool) {
	for i, stage := range c.Stages {
		if stage.Kind != kind {
			continue
		}
		if i < len(c.Snapshot.Stages) {
			return c.Snapshot.Stages[i].CumulativeRate, true
		}
	}
	return 0, false
}

// ReasonShare returns the combined batch percentage of all reasons whose
// normalized tag contains the given substring.
func (c *FunnelContext) ReasonShare(substr string) float64 {
	var share float64
	for _, r := range c.Reasons {
		if containsFold(r.Reason, substr) {
			share += r.Percentage
		}
	}
	return share
}

// Rule examines the funnel context and produces zero or more issues.
type Rule func(ctx *FunnelContext) []recommend.Issue
