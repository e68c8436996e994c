package output

import (
	"strings"
	"testing"
)

func TestFunnelBar_Proportions(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	full := FunnelBar(10, 10, 10)
	if strings.Count(full, "█") != 10 {
		t.Errorf("expected a full bar, got %q", full)
	}

	half := FunnelBar(5, 10, 10)
	if strings.Count(half, "█") != 5 || strings.Count(half, "░") != 5 {
		t.Errorf("expected a half bar, got %q", half)
	}

	empty := FunnelBar(0, 10, 10)
	if strings.Count(empty, "░") != 10 {
		t.Errorf("expected an empty bar, got %q", empty)
	}
}

func TestFunnelBar_ZeroTotal(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	bar := FunnelBar(0, 0, 8)
	if strings.Count(bar, "░") != 8 {
		t.Errorf("expected a fully empty bar for zero total, got %q", bar)
	}
}

func TestScoreBar_Bounds(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	top := ScoreBar(100, 10)
	if strings.Count(top, "█") != 10 {
		t.Errorf("expected full bar at score 100, got %q", top)
	}
	if !strings.Contains(top, "100/100") {
		t.Errorf("expected score caption, got %q", top)
	}

	over := ScoreBar(250, 10)
	if strings.Count(over, "█") != 10 {
		t.Errorf("expected the bar clamped at width, got %q", over)
	}

	under := ScoreBar(-5, 10)
	if strings.Count(under, "█") != 0 {
		t.Errorf("expected no fill below zero, got %q", under)
	}
}

func TestTrendArrow(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	up := TrendArrow(2.5, true)
	if !strings.Contains(up, "▲") || !strings.Contains(up, "+2.50") {
		t.Errorf("expected up arrow with delta, got %q", up)
	}

	down := TrendArrow(-1.25, true)
	if !strings.Contains(down, "▼") || !strings.Contains(down, "-1.25") {
		t.Errorf("expected down arrow with delta, got %q", down)
	}

	flat := TrendArrow(0, true)
	if !strings.Contains(flat, "─") {
		t.Errorf("expected dash for zero delta, got %q", flat)
	}
}

func TestSection(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	s := Section("Conversion Funnel")
	if !strings.Contains(s, "Conversion Funnel") {
		t.Errorf("expected title in section, got %q", s)
	}
	if !strings.Contains(s, "─") {
		t.Errorf("expected rule under the title, got %q", s)
	}
}
