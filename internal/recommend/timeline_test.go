package recommend

import "testing"

func TestEstimateTimeline_SeverityBases(t *testing.T) {
	cases := []struct {
		severity Severity
		minimum  int
		label    string
	}{
		{SeverityLow, 7, "1 weeks"},
		{SeverityMedium, 21, "3 weeks"},
		{SeverityHigh, 42, "6 weeks"},
		{SeverityCritical, 63, "9 weeks"},
	}

	for _, c := range cases {
		tl := EstimateTimeline(Issue{Severity: c.severity})
		if tl.MinimumDays != c.minimum {
			t.Errorf("%s: minimum %d, want %d", c.severity, tl.MinimumDays, c.minimum)
		}
		if tl.RecommendedDays != c.minimum+7 {
			t.Errorf("%s: recommended %d, want %d", c.severity, tl.RecommendedDays, c.minimum+7)
		}
		if tl.Label != c.label {
			t.Errorf("%s: label %q, want %q", c.severity, tl.Label, c.label)
		}
	}
}

func TestEstimateTimeline_DependenciesExtendWindow(t *testing.T) {
	tl := EstimateTimeline(Issue{
		Severity:     SeverityMedium,
		Dependencies: []string{"supplier_contact", "restock_order"},
	})

	if tl.MinimumDays != 21+2*7 {
		t.Errorf("expected 35 minimum days, got %d", tl.MinimumDays)
	}
	if tl.RecommendedDays != tl.MinimumDays+7 {
		t.Errorf("expected risk buffer of 7 days, got %d over %d", tl.RecommendedDays, tl.MinimumDays)
	}
	if tl.Label != "5 weeks" {
		t.Errorf("expected label \"5 weeks\", got %q", tl.Label)
	}
}

func TestEstimateTimeline_UnknownSeverityUsesMediumBase(t *testing.T) {
	tl := EstimateTimeline(Issue{Severity: "apocalyptic"})
	if tl.MinimumDays != 21 {
		t.Errorf("expected medium base for unknown severity, got %d", tl.MinimumDays)
	}
}
