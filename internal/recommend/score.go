package recommend

// severityScores maps severity tiers to their 0-100 sub-score.
var severityScores = map[Severity]float64{
	SeverityCritical: 100,
	SeverityHigh:     75,
	SeverityMedium:   50,
	SeverityLow:      25,
}

// impactScores maps impact types to their 0-100 sub-score.
var impactScores = map[ImpactType]float64{
	ImpactConversionBlocker: 100,
	ImpactUserFrustration:   75,
	ImpactAccessibility:     50,
	ImpactPerformance:       25,
}

// DefaultWeights is the reference scoring configuration.
var DefaultWeights = Weights{
	Severity:      0.30,
	Impact:        0.25,
	BusinessValue: 0.15,
	Effort:        0.10,
}

// Score computes an issue's priority score in [0,100]. Each factor is
// bounded to [0,100] before weighting so no single input can dominate, and
// the weighted sum is normalized by the weight total: unbalanced weight
// configurations rescale rather than compress or overflow the score band.
// A zero weight total scores 0. Unknown or missing severity defaults to
// medium; unknown impact defaults to the performance tier.
func Score(issue Issue, weights Weights) float64 {
	total := weights.Total()
	if total <= 0 {
		return 0
	}

	severity, ok := severityScores[issue.Severity]
	if !ok {
		severity = severityScores[SeverityMedium]
	}
	impact, ok := impactScores[issue.Impact]
	if !ok {
		impact = impactScores[ImpactPerformance]
	}
	value := clamp100(issue.BusinessValue)
	effort := clamp100(100 - clamp100(issue.Effort))

	sum := severity*weights.Severity +
		impact*weights.Impact +
		value*weights.BusinessValue +
		effort*weights.Effort

	return clamp100(sum / total)
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
