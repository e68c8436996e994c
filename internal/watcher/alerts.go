package watcher

import (
	"fmt"
	"time"
)

// Compare detects notable changes between two funnel states and returns
// alerts. dropPct and spikePct are the conversion-drop and friction-spike
// thresholds in percentage points.
func Compare(prev, curr *FunnelState, dropPct, spikePct float64) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareConversion(prev, curr, dropPct)...)
	alerts = append(alerts, compareFriction(prev, curr, spikePct)...)
	alerts = append(alerts, compareFetchFailures(prev, curr)...)

	return alerts
}

// compareConversion alerts on conversion-rate movement between batches.
func compareConversion(prev, curr *FunnelState, dropPct float64) []Alert {
	var alerts []Alert
	now := time.Now()

	delta := curr.Snapshot.ConversionRate - prev.Snapshot.ConversionRate

	if -delta >= dropPct {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Title:   "Conversion rate drop",
			Message: fmt.Sprintf("Conversion fell from %.2f%% to %.2f%%", prev.Snapshot.ConversionRate, curr.Snapshot.ConversionRate),
			Time:    now,
		})
	}

	// A funnel that stops converting entirely is critical even below the
	// configured drop threshold.
	if curr.Snapshot.ConvertedCount == 0 && prev.Snapshot.ConvertedCount > 0 {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Title:   "Zero conversions",
			Message: fmt.Sprintf("No conversions in the latest batch of %d sessions", curr.Snapshot.TotalSessions),
			Time:    now,
		})
	}

	if delta >= dropPct {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Conversion rate recovery",
			Message: fmt.Sprintf("Conversion rose from %.2f%% to %.2f%%", prev.Snapshot.ConversionRate, curr.Snapshot.ConversionRate),
			Time:    now,
		})
	}

	return alerts
}

// compareFriction alerts when a stage's abandonment share spikes.
func compareFriction(prev, curr *FunnelState, spikePct float64) []Alert {
	var alerts []Alert
	now := time.Now()

	prevShare := make(map[string]float64, len(prev.Friction))
	for _, f := range prev.Friction {
		prevShare[f.Stage] = f.Percentage
	}

	for _, f := range curr.Friction {
		delta := f.Percentage - prevShare[f.Stage]
		if delta >= spikePct {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   fmt.Sprintf("Friction spike at %s", f.Stage),
				Message: fmt.Sprintf("Abandonment share rose from %.2f%% to %.2f%%", prevShare[f.Stage], f.Percentage),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareFetchFailures alerts when page fetches start failing.
func compareFetchFailures(prev, curr *FunnelState) []Alert {
	if curr.FailedFetches == 0 || curr.FailedFetches <= prev.FailedFetches {
		return nil
	}
	return []Alert{{
		Level:   "warning",
		Title:   "Page fetch failures",
		Message: fmt.Sprintf("%d of %d sessions hit an unreachable page (was %d)", curr.FailedFetches, curr.Snapshot.TotalSessions, prev.FailedFetches),
		Time:    time.Now(),
	}}
}
