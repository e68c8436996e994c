// Package funnel aggregates batches of simulated sessions into conversion
// funnel snapshots and ranked friction tables. All computations are pure
// over an already-materialized batch: the same sessions always yield the
// same snapshot, and degenerate inputs (empty batch, empty stage at the top
// of the funnel) produce zero-valued results rather than errors.
package funnel

import (
	"math"

	"github.com/blackwell-systems/funnelwatch/internal/journey"
)

// StageCount is the population and rates for one funnel stage.
type StageCount struct {
	Stage string `json:"stage"`

	// Count is the number of sessions that reached this stage.
	Count int `json:"count"`

	// Rate is the stage-to-stage conversion from the previous stage, as a
	// percentage. The first stage's rate is relative to the total batch.
	Rate float64 `json:"rate"`

	// CumulativeRate is the share of all sessions reaching this stage.
	CumulativeRate float64 `json:"cumulative_rate"`
}

// Snapshot is the derived, read-only aggregate over one session batch.
type Snapshot struct {
	TotalSessions  int          `json:"total_sessions"`
	Stages         []StageCount `json:"stages"`
	ConvertedCount int          `json:"converted_count"`

	// ConversionRate is converted/total as a percentage, two decimals.
	ConversionRate float64 `json:"conversion_rate"`

	// AvgCartValue is the mean cart value across converted sessions.
	AvgCartValue float64 `json:"avg_cart_value"`
}

// Aggregate computes the funnel snapshot for a batch of sessions over the
// given stage sequence. Population at stage k counts sessions whose step
// list reached that stage regardless of later outcome, so populations are
// non-increasing in stage order.
func Aggregate(stages []journey.Stage, sessions []journey.SessionRecord) Snapshot {
	snap := Snapshot{
		TotalSessions: len(sessions),
		Stages:        make([]StageCount, len(stages)),
	}

	for k, stage := range stages {
		count := 0
		for _, s := range sessions {
			if s.ReachedStage(k) {
				count++
			}
		}
		snap.Stages[k] = StageCount{Stage: stage.Name, Count: count}
	}

	for k := range snap.Stages {
		prev := snap.TotalSessions
		if k > 0 {
			prev = snap.Stages[k-1].Count
		}
		snap.Stages[k].Rate = percent(snap.Stages[k].Count, prev)
		snap.Stages[k].CumulativeRate = percent(snap.Stages[k].Count, snap.TotalSessions)
	}

	var cartTotal float64
	for _, s := range sessions {
		if s.Converted {
			snap.ConvertedCount++
			cartTotal += s.CartValue
		}
	}
	snap.ConversionRate = percent(snap.ConvertedCount, snap.TotalSessions)
	if snap.ConvertedCount > 0 {
		snap.AvgCartValue = round2(cartTotal / float64(snap.ConvertedCount))
	}

	return snap
}

// percent returns num/den as a percentage rounded to two decimals, defined
// as 0 when the denominator is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round2(float64(num) / float64(den) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
