package recommend

import "sort"

// DefaultCategoryCap is the default maximum number of recommendations
// surfaced per category.
const DefaultCategoryCap = 3

// Impact summary multipliers. Revenue and savings are currency units per
// business-value point; cost is currency units per effort point.
const (
	revenuePerValuePoint      = 1000
	savingsPerValuePoint      = 500
	satisfactionPerValuePoint = 0.5
	costPerEffortPoint        = 100
)

// Rank groups recommendations by category, orders each group by priority
// score descending (ties keep input order), keeps at most limit per group,
// and flattens the groups back in first-seen category order. A limit < 1
// keeps every recommendation.
func Rank(recs []Recommendation, limit int) []Recommendation {
	groups := make(map[Category][]Recommendation)
	var order []Category

	for _, rec := range recs {
		if _, seen := groups[rec.Issue.Category]; !seen {
			order = append(order, rec.Issue.Category)
		}
		groups[rec.Issue.Category] = append(groups[rec.Issue.Category], rec)
	}

	var ranked []Recommendation
	for _, category := range order {
		group := groups[category]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PriorityScore > group[j].PriorityScore
		})
		if limit > 0 && len(group) > limit {
			group = group[:limit]
		}
		ranked = append(ranked, group...)
	}
	return ranked
}

// SummarizeImpact computes the aggregate business impact over a ranked
// recommendation list. Revenue accrues from conversion-category items,
// savings from performance-category items, satisfaction and implementation
// cost from every item. ROI is defined as 0 when implementation cost is 0.
func SummarizeImpact(recs []Recommendation) BusinessImpact {
	var impact BusinessImpact

	for _, rec := range recs {
		value := clamp100(rec.Issue.BusinessValue)
		effort := clamp100(rec.Issue.Effort)

		switch rec.Issue.Category {
		case CategoryConversion:
			impact.RevenueIncrease += value * revenuePerValuePoint
		case CategoryPerformance:
			impact.CostSavings += value * savingsPerValuePoint
		}
		impact.SatisfactionImprovement += value * satisfactionPerValuePoint
		impact.ImplementationCost += effort * costPerEffortPoint
	}

	benefit := impact.RevenueIncrease + impact.CostSavings + impact.SatisfactionImprovement
	impact.NetBenefit = benefit - impact.ImplementationCost
	if impact.ImplementationCost > 0 {
		impact.ROI = (benefit - impact.ImplementationCost) / impact.ImplementationCost * 100
	}

	return impact
}
