package recommend

import (
	"math"
	"testing"
)

func rec(title string, category Category, score float64) Recommendation {
	return Recommendation{
		Issue:         Issue{Title: title, Category: category},
		PriorityScore: score,
	}
}

func TestRank_CapsPerCategory(t *testing.T) {
	var recs []Recommendation
	for i := 0; i < 10; i++ {
		recs = append(recs, rec("conv", CategoryConversion, float64(i*10)))
	}

	ranked := Rank(recs, DefaultCategoryCap)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 recommendations after capping, got %d", len(ranked))
	}
	want := []float64{90, 80, 70}
	for i, w := range want {
		if ranked[i].PriorityScore != w {
			t.Errorf("position %d: score %.0f, want %.0f", i, ranked[i].PriorityScore, w)
		}
	}
}

func TestRank_CapAppliesPerGroup(t *testing.T) {
	recs := []Recommendation{
		rec("c1", CategoryConversion, 90),
		rec("u1", CategoryUserExperience, 80),
		rec("c2", CategoryConversion, 70),
		rec("c3", CategoryConversion, 60),
		rec("c4", CategoryConversion, 50),
		rec("u2", CategoryUserExperience, 40),
	}

	ranked := Rank(recs, 3)

	if len(ranked) != 5 {
		t.Fatalf("expected 3 conversion + 2 ux, got %d", len(ranked))
	}
	// Categories flatten in first-seen order: conversion first.
	for i, title := range []string{"c1", "c2", "c3", "u1", "u2"} {
		if ranked[i].Issue.Title != title {
			t.Errorf("position %d: %q, want %q", i, ranked[i].Issue.Title, title)
		}
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	recs := []Recommendation{
		rec("first", CategoryConversion, 50),
		rec("second", CategoryConversion, 50),
		rec("third", CategoryConversion, 50),
	}

	ranked := Rank(recs, 0)

	for i, title := range []string{"first", "second", "third"} {
		if ranked[i].Issue.Title != title {
			t.Errorf("position %d: %q, want %q", i, ranked[i].Issue.Title, title)
		}
	}
}

func TestRank_NoLimitKeepsEverything(t *testing.T) {
	var recs []Recommendation
	for i := 0; i < 7; i++ {
		recs = append(recs, rec("r", CategoryInventory, float64(i)))
	}

	if got := Rank(recs, 0); len(got) != 7 {
		t.Errorf("expected all 7 kept with limit 0, got %d", len(got))
	}
}

func TestSummarizeImpact_CategoryMultipliers(t *testing.T) {
	recs := []Recommendation{
		{Issue: Issue{Category: CategoryConversion, BusinessValue: 90, Effort: 70}},
		{Issue: Issue{Category: CategoryPerformance, BusinessValue: 40, Effort: 30}},
		{Issue: Issue{Category: CategoryInventory, BusinessValue: 95, Effort: 50}},
	}

	impact := SummarizeImpact(recs)

	if impact.RevenueIncrease != 90*1000 {
		t.Errorf("revenue: %.0f, want 90000", impact.RevenueIncrease)
	}
	if impact.CostSavings != 40*500 {
		t.Errorf("savings: %.0f, want 20000", impact.CostSavings)
	}
	if want := (90 + 40 + 95) * 0.5; impact.SatisfactionImprovement != want {
		t.Errorf("satisfaction: %.1f, want %.1f", impact.SatisfactionImprovement, want)
	}
	if want := float64(70+30+50) * 100; impact.ImplementationCost != want {
		t.Errorf("cost: %.0f, want %.0f", impact.ImplementationCost, want)
	}

	benefit := impact.RevenueIncrease + impact.CostSavings + impact.SatisfactionImprovement
	if impact.NetBenefit != benefit-impact.ImplementationCost {
		t.Errorf("net benefit %.2f inconsistent", impact.NetBenefit)
	}
	wantROI := (benefit - impact.ImplementationCost) / impact.ImplementationCost * 100
	if math.Abs(impact.ROI-wantROI) > 1e-9 {
		t.Errorf("roi %.2f, want %.2f", impact.ROI, wantROI)
	}
}

func TestSummarizeImpact_ZeroCostDefinesZeroROI(t *testing.T) {
	recs := []Recommendation{
		{Issue: Issue{Category: CategoryConversion, BusinessValue: 80, Effort: 0}},
	}

	impact := SummarizeImpact(recs)

	if impact.ImplementationCost != 0 {
		t.Fatalf("expected zero cost, got %.0f", impact.ImplementationCost)
	}
	if impact.ROI != 0 {
		t.Errorf("expected ROI defined as 0 at zero cost, got %.2f", impact.ROI)
	}
	if impact.NetBenefit <= 0 {
		t.Errorf("expected positive net benefit, got %.2f", impact.NetBenefit)
	}
}

func TestSummarizeImpact_Empty(t *testing.T) {
	impact := SummarizeImpact(nil)
	if impact != (BusinessImpact{}) {
		t.Errorf("expected zero impact for empty list, got %+v", impact)
	}
}

func TestBuild_AttachesTimelineAndMetrics(t *testing.T) {
	issues := []Issue{
		{Title: "a", Category: CategoryConversion, Severity: SeverityCritical, Impact: ImpactConversionBlocker, BusinessValue: 100},
		{Title: "b", Category: "novelty", Severity: SeverityLow, Impact: ImpactPerformance},
	}

	recs := Build(issues, DefaultWeights)

	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Timeline.MinimumDays != 63 {
		t.Errorf("expected critical timeline base, got %d", recs[0].Timeline.MinimumDays)
	}
	if len(recs[0].SuccessMetrics) != 3 {
		t.Errorf("expected conversion metric set, got %v", recs[0].SuccessMetrics)
	}
	if recs[0].PriorityScore <= recs[1].PriorityScore {
		t.Error("expected the critical blocker to outscore the low-severity issue")
	}
	// Unknown category falls back to the generic metric.
	if len(recs[1].SuccessMetrics) != 1 || recs[1].SuccessMetrics[0] != "Issue resolved successfully" {
		t.Errorf("expected generic fallback metric, got %v", recs[1].SuccessMetrics)
	}
}

func TestSuccessMetrics_ReturnsCopy(t *testing.T) {
	a := SuccessMetrics(CategoryInventory)
	a[0] = "mutated"
	b := SuccessMetrics(CategoryInventory)
	if b[0] == "mutated" {
		t.Error("SuccessMetrics exposed shared backing storage")
	}
}
