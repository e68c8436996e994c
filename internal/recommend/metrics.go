package recommend

// successMetrics maps each issue category to the measurements that define a
// successful remediation.
var successMetrics = map[Category][]string{
	CategoryPerformance: {
		"Page load time < 2 seconds",
		"Core Web Vitals in green zone",
		"Mobile performance score > 80",
	},
	CategoryConversion: {
		"Conversion rate > 2%",
		"Cart abandonment rate < 60%",
		"Checkout completion rate > 80%",
	},
	CategoryInventory: {
		"Stock availability > 90%",
		"Restock time < 48 hours",
		"Inventory accuracy > 95%",
	},
	CategoryUserExperience: {
		"User satisfaction score > 4.0",
		"Support tickets reduced by 30%",
		"Return rate < 15%",
	},
}

// SuccessMetrics returns the metric set for a category. Unknown categories
// get a single generic metric so a scored recommendation never surfaces
// with an empty metric list.
func SuccessMetrics(category Category) []string {
	if metrics, ok := successMetrics[category]; ok {
		out := make([]string, len(metrics))
		copy(out, metrics)
		return out
	}
	return []string{"Issue resolved successfully"}
}

// Build scores every issue and attaches its timeline and success metrics,
// returning one recommendation per issue in input order.
func Build(issues []Issue, weights Weights) []Recommendation {
	recs := make([]Recommendation, 0, len(issues))
	for _, issue := range issues {
		recs = append(recs, Recommendation{
			Issue:          issue,
			PriorityScore:  Score(issue, weights),
			Timeline:       EstimateTimeline(issue),
			SuccessMetrics: SuccessMetrics(issue.Category),
		})
	}
	return recs
}
