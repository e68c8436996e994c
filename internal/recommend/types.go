// Package recommend turns detected storefront issues into a ranked,
// capped list of remediation recommendations. Scoring is a configured
// heuristic: a weighted combination of severity, user impact, business
// value, and inverse implementation effort. The weights and lookup tables
// are constants, not learned parameters.
package recommend

// Severity tiers for an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ImpactType classifies how an issue affects visitors.
type ImpactType string

const (
	ImpactConversionBlocker ImpactType = "conversion_blocker"
	ImpactUserFrustration   ImpactType = "user_frustration"
	ImpactAccessibility     ImpactType = "accessibility"
	ImpactPerformance       ImpactType = "performance"
)

// Category groups issues by the area of the storefront they concern.
type Category string

const (
	CategoryConversion     Category = "conversion"
	CategoryUserExperience Category = "user_experience"
	CategoryPerformance    Category = "performance"
	CategoryInventory      Category = "inventory"
)

// Issue is a detected problem as produced by upstream detectors. Detectors
// are independent and best-effort, so missing enum fields are tolerated:
// the scoring engine applies documented defaults instead of failing.
type Issue struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       Category   `json:"category"`
	Severity       Severity   `json:"severity"`
	Impact         ImpactType `json:"impact"`
	BusinessValue  float64    `json:"business_value"`        // 0-100
	Effort         float64    `json:"implementation_effort"` // 0-100
	Dependencies   []string   `json:"dependencies,omitempty"`
	ExpectedImpact string     `json:"expected_impact,omitempty"`
}

// Weights configures the scoring factors. The engine normalizes by the
// weight total, so a fully saturated issue scores 100 for any non-zero
// configuration.
type Weights struct {
	Severity      float64 `mapstructure:"conversion_rate" json:"conversion_rate"`
	Impact        float64 `mapstructure:"user_experience" json:"user_experience"`
	BusinessValue float64 `mapstructure:"business_value" json:"business_value"`
	Effort        float64 `mapstructure:"implementation_effort" json:"implementation_effort"`
}

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	return w.Severity + w.Impact + w.BusinessValue + w.Effort
}

// Timeline is the estimated implementation window for a recommendation.
type Timeline struct {
	MinimumDays     int    `json:"minimum_days"`
	RecommendedDays int    `json:"recommended_days"`
	Label           string `json:"label"`
}

// Recommendation is a scored issue ready for ranking.
type Recommendation struct {
	Issue          Issue    `json:"issue"`
	PriorityScore  float64  `json:"priority_score"` // 0-100
	Timeline       Timeline `json:"timeline"`
	SuccessMetrics []string `json:"success_metrics"`
}

// BusinessImpact is the aggregate dollar-figure summary over a ranked
// recommendation list. All figures are configured-multiplier estimates.
type BusinessImpact struct {
	RevenueIncrease         float64 `json:"revenue_increase"`
	CostSavings             float64 `json:"cost_savings"`
	SatisfactionImprovement float64 `json:"satisfaction_improvement"`
	ImplementationCost      float64 `json:"implementation_cost"`
	NetBenefit              float64 `json:"net_benefit"`
	ROI                     float64 `json:"roi"`
}
