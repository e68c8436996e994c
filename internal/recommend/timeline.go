package recommend

import "fmt"

// severityBaseDays maps severity to the base implementation window in days.
var severityBaseDays = map[Severity]int{
	SeverityLow:      7,
	SeverityMedium:   21,
	SeverityHigh:     42,
	SeverityCritical: 63,
}

// daysPerDependency is added to the window for each dependency an issue
// carries before work can start.
const daysPerDependency = 7

// riskBufferDays separates the recommended figure from the minimum one.
const riskBufferDays = 7

// EstimateTimeline derives the implementation window for an issue: a
// severity-keyed base, plus a week per dependency, plus a fixed risk buffer
// on the recommended figure. Unknown severity uses the medium base.
func EstimateTimeline(issue Issue) Timeline {
	base, ok := severityBaseDays[issue.Severity]
	if !ok {
		base = severityBaseDays[SeverityMedium]
	}

	minimum := base + len(issue.Dependencies)*daysPerDependency

	label := fmt.Sprintf("%d days", minimum)
	if minimum >= 7 {
		label = fmt.Sprintf("%d weeks", minimum/7)
	}

	return Timeline{
		MinimumDays:     minimum,
		RecommendedDays: minimum + riskBufferDays,
		Label:           label,
	}
}
