package funnel

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

func testStages() []journey.Stage {
	return []journey.Stage{
		{Name: "homepage", Kind: journey.KindLanding, Target: "/", Retention: 0.70},
		{Name: "browse", Kind: journey.KindListing, Target: "/collections/all", Retention: 0.80},
		{Name: "product_view", Kind: journey.KindProduct, Target: "/products/featured", Retention: 0.60},
		{Name: "add_to_cart", Kind: journey.KindCart, Target: "/cart", Retention: 0.40},
		{Name: "checkout", Kind: journey.KindCheckout, Target: "/checkout", Retention: 0.70},
	}
}

// runBatch simulates a deterministic batch for aggregation tests.
func runBatch(t *testing.T, stages []journey.Stage, sessions int) []journey.SessionRecord {
	t.Helper()
	at := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	records, err := journey.RunBatch(context.Background(),
		journey.Config{Stages: stages, CartValueMin: 350, CartValueMax: 1200},
		signals.NewStaticProvider(nil),
		journey.BatchOptions{
			Sessions: sessions,
			Seed:     17,
			Now:      func() time.Time { return at },
		})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	return records
}

func TestAggregate_EmptyBatch(t *testing.T) {
	snap := Aggregate(testStages(), nil)

	if snap.TotalSessions != 0 || snap.ConvertedCount != 0 {
		t.Errorf("expected zero counts, got %+v", snap)
	}
	if snap.ConversionRate != 0 || snap.AvgCartValue != 0 {
		t.Errorf("expected zero rates for empty batch, got %+v", snap)
	}
	for _, stage := range snap.Stages {
		if stage.Count != 0 || stage.Rate != 0 || stage.CumulativeRate != 0 {
			t.Errorf("expected zeroed stage, got %+v", stage)
		}
	}
}

func TestAggregate_FullRetention(t *testing.T) {
	stages := testStages()
	for i := range stages {
		stages[i].Retention = 1.0
	}
	records := runBatch(t, stages, 25)

	snap := Aggregate(stages, records)

	if snap.TotalSessions != 25 || snap.ConvertedCount != 25 {
		t.Fatalf("expected 25/25 converted, got %d/%d", snap.ConvertedCount, snap.TotalSessions)
	}
	if snap.ConversionRate != 100 {
		t.Errorf("expected 100%% conversion, got %.2f", snap.ConversionRate)
	}
	for _, stage := range snap.Stages {
		if stage.Count != 25 || stage.Rate != 100 || stage.CumulativeRate != 100 {
			t.Errorf("stage %s: expected full population, got %+v", stage.Stage, stage)
		}
	}
	if snap.AvgCartValue < 350 || snap.AvgCartValue > 1200 {
		t.Errorf("average cart value %.2f outside draw bounds", snap.AvgCartValue)
	}
}

func TestAggregate_ImpassableStage(t *testing.T) {
	stages := testStages()
	stages[0].Retention = 1.0
	stages[1].Retention = 0 // nobody continues past browse
	records := runBatch(t, stages, 30)

	snap := Aggregate(stages, records)

	if snap.ConvertedCount != 0 {
		t.Fatalf("expected no conversions, got %d", snap.ConvertedCount)
	}
	// Every session still reaches browse before stopping there.
	if snap.Stages[1].Count != 30 {
		t.Errorf("expected all 30 sessions at browse, got %d", snap.Stages[1].Count)
	}
	for _, stage := range snap.Stages[2:] {
		if stage.Count != 0 {
			t.Errorf("stage %s: expected empty population past the block, got %d", stage.Stage, stage.Count)
		}
	}
	if snap.AvgCartValue != 0 {
		t.Errorf("expected zero average cart value, got %.2f", snap.AvgCartValue)
	}
}

func TestAggregate_MonotonicPopulations(t *testing.T) {
	stages := testStages()
	records := runBatch(t, stages, 100)

	snap := Aggregate(stages, records)

	prev := snap.TotalSessions
	for _, stage := range snap.Stages {
		if stage.Count > prev {
			t.Errorf("stage %s population %d exceeds predecessor %d", stage.Stage, stage.Count, prev)
		}
		prev = stage.Count
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	stages := testStages()
	records := runBatch(t, stages, 50)

	a := Aggregate(stages, records)
	b := Aggregate(stages, records)

	if !reflect.DeepEqual(a, b) {
		t.Error("same batch produced different snapshots")
	}
}

func TestAggregate_EmptyStageMidFunnel(t *testing.T) {
	// With an impassable first stage every later stage has a zero
	// population; its step rate is 0/0, defined as 0.
	stages := testStages()
	stages[0].Retention = 0
	records := runBatch(t, stages, 10)

	snap := Aggregate(stages, records)

	if snap.Stages[0].Count != 10 {
		t.Fatalf("expected all sessions at the first stage, got %d", snap.Stages[0].Count)
	}
	for _, stage := range snap.Stages[1:] {
		if stage.Count != 0 || stage.Rate != 0 || stage.CumulativeRate != 0 {
			t.Errorf("stage %s: expected all-zero row, got %+v", stage.Stage, stage)
		}
	}
}
