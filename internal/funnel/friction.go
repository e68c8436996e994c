package funnel

import (
	"sort"
	"strings"

	"github.com/blackwell-systems/funnelwatch/internal/journey"
)

// FrictionEntry is a funnel stage ranked by how many sessions abandoned
// there, with its share of the total batch.
type FrictionEntry struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ReasonEntry is a normalized abandonment reason ranked by occurrence.
type ReasonEntry struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RankFriction groups non-converted sessions by abandonment stage and,
// separately, by normalized abandonment reason. Both tables are sorted
// descending by count; ties keep first-seen input order so repeated runs
// over the same batch produce identical tables.
func RankFriction(sessions []journey.SessionRecord) ([]FrictionEntry, []ReasonEntry) {
	total := len(sessions)

	stageCounts := make(map[string]int)
	reasonCounts := make(map[string]int)
	var stageOrder, reasonOrder []string

	for _, s := range sessions {
		if s.Converted || s.AbandonedAt == "" {
			continue
		}
		if _, seen := stageCounts[s.AbandonedAt]; !seen {
			stageOrder = append(stageOrder, s.AbandonedAt)
		}
		stageCounts[s.AbandonedAt]++

		for _, raw := range s.AbandonReasons {
			reason := NormalizeReason(raw)
			if reason == "" {
				continue
			}
			if _, seen := reasonCounts[reason]; !seen {
				reasonOrder = append(reasonOrder, reason)
			}
			reasonCounts[reason]++
		}
	}

	friction := make([]FrictionEntry, 0, len(stageOrder))
	for _, stage := range stageOrder {
		friction = append(friction, FrictionEntry{
			Stage:      stage,
			Count:      stageCounts[stage],
			Percentage: percent(stageCounts[stage], total),
		})
	}
	sort.SliceStable(friction, func(i, j int) bool {
		return friction[i].Count > friction[j].Count
	})

	reasons := make([]ReasonEntry, 0, len(reasonOrder))
	for _, reason := range reasonOrder {
		reasons = append(reasons, ReasonEntry{
			Reason:     reason,
			Count:      reasonCounts[reason],
			Percentage: percent(reasonCounts[reason], total),
		})
	}
	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Count > reasons[j].Count
	})

	return friction, reasons
}

// NormalizeReason lowercases and trims a raw reason tag so the same reason
// reported with different casing or padding counts as one.
func NormalizeReason(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
