// Package store persists simulation run results to SQLite so consecutive
// runs can be listed and compared. It is a collaborator around the core:
// everything it stores is a plain derived record produced by the funnel
// aggregator and the recommendation ranker.
package store

import "time"

// Run is one persisted simulation run.
type Run struct {
	ID             string    `json:"id"`
	TakenAt        time.Time `json:"taken_at"`
	Sessions       int       `json:"sessions"`
	Converted      int       `json:"converted"`
	ConversionRate float64   `json:"conversion_rate"`
	AvgCartValue   float64   `json:"avg_cart_value"`
}

// StageCountRow is the population of one funnel stage within a run.
type StageCountRow struct {
	RunID          string  `json:"run_id"`
	Position       int     `json:"position"`
	Stage          string  `json:"stage"`
	Count          int     `json:"count"`
	Rate           float64 `json:"rate"`
	CumulativeRate float64 `json:"cumulative_rate"`
}

// FrictionRow is one ranked abandonment stage within a run.
type FrictionRow struct {
	RunID      string  `json:"run_id"`
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ReasonRow is one ranked abandonment reason within a run.
type ReasonRow struct {
	RunID      string  `json:"run_id"`
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RecommendationRow is one ranked recommendation within a run.
type RecommendationRow struct {
	RunID           string  `json:"run_id"`
	Rank            int     `json:"rank"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Severity        string  `json:"severity"`
	PriorityScore   float64 `json:"priority_score"`
	MinimumDays     int     `json:"minimum_days"`
	RecommendedDays int     `json:"recommended_days"`
}

// ImpactRow is the business impact summary of a run.
type ImpactRow struct {
	RunID                   string  `json:"run_id"`
	RevenueIncrease         float64 `json:"revenue_increase"`
	CostSavings             float64 `json:"cost_savings"`
	SatisfactionImprovement float64 `json:"satisfaction_improvement"`
	ImplementationCost      float64 `json:"implementation_cost"`
	NetBenefit              float64 `json:"net_benefit"`
	ROI                     float64 `json:"roi"`
}
