package output

import (
	"fmt"
	"strings"
)

// ScoreBar renders a visual bar for a 0-100 score.
// Example: "████████░░ 80/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((score / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case score >= 70:
		style = func(s string) string { return StyleError.Render(s) }
	case score >= 40:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleMuted.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.0f/100", score)))
}

// FunnelBar renders a proportional bar for a stage population relative to
// the batch size, colored by how healthy the cumulative rate is.
func FunnelBar(count, total, width int) string {
	if width <= 0 {
		width = 30
	}
	if total <= 0 {
		return StyleMuted.Render(strings.Repeat("░", width))
	}

	filled := count * width / total
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	share := float64(count) / float64(total)
	switch {
	case share >= 0.5:
		return StyleSuccess.Render(bar)
	case share >= 0.2:
		return StyleWarning.Render(bar)
	default:
		return StyleError.Render(bar)
	}
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
// The higherIsBetter parameter indicates whether higher values are better.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter)

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.2f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.2f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
