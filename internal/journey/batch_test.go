package journey

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

// constClock returns a frozen Now func. Batch workers share the option's
// clock across goroutines, so batch tests use a constant rather than an
// advancing one.
func constClock() func() time.Time {
	at := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestRunBatch_Empty(t *testing.T) {
	records, err := RunBatch(context.Background(), testConfig(), healthyProvider(), BatchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records for zero sessions, got %d", len(records))
	}
}

func TestRunBatch_SubmissionOrderIndependentOfWorkers(t *testing.T) {
	cfg := testConfig()
	provider := healthyProvider()

	opts := BatchOptions{
		Sessions:   40,
		Archetypes: []string{"new_visitor", "returning_customer", "bargain_hunter", "brand_loyal"},
		Seed:       99,
		Now:        constClock(),
	}

	run := func(workers int) []SessionRecord {
		o := opts
		o.Workers = workers
		o.Now = constClock()
		records, err := RunBatch(context.Background(), cfg, provider, o)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		return records
	}

	sequential := run(1)
	concurrent := run(8)

	if len(sequential) != 40 || len(concurrent) != 40 {
		t.Fatalf("expected 40 records, got %d and %d", len(sequential), len(concurrent))
	}
	if !reflect.DeepEqual(sequential, concurrent) {
		t.Error("worker count changed batch results for the same seed")
	}
}

func TestRunBatch_DefaultArchetype(t *testing.T) {
	records, err := RunBatch(context.Background(), testConfig(), healthyProvider(), BatchOptions{
		Sessions: 5,
		Seed:     1,
		Now:      constClock(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, rec := range records {
		if rec.Archetype != "new_visitor" {
			t.Errorf("record %d: expected default archetype, got %q", i, rec.Archetype)
		}
	}
}

func TestRunBatch_ProviderFailureDoesNotFailBatch(t *testing.T) {
	cfg := testConfig()
	for i := range cfg.Stages {
		cfg.Stages[i].Retention = 1.0
	}

	provider := signals.NewStaticProvider(nil)
	provider.Fail("checkout", errors.New("gateway timeout"))

	records, err := RunBatch(context.Background(), cfg, provider, BatchOptions{
		Sessions: 10,
		Workers:  4,
		Seed:     5,
		Now:      constClock(),
	})
	if err != nil {
		t.Fatalf("batch failed on per-session provider error: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(records))
	}

	for i, rec := range records {
		if rec.Converted {
			t.Errorf("record %d: converted despite broken checkout fetch", i)
		}
		if rec.AbandonedAt != "checkout" {
			t.Errorf("record %d: abandoned at %q, want checkout", i, rec.AbandonedAt)
		}
		last := rec.Steps[len(rec.Steps)-1]
		if last.Success {
			t.Errorf("record %d: failing step marked successful", i)
		}
	}
}
