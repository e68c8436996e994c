package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}

	if len(cfg.Stages) != 5 {
		t.Errorf("expected 5 default stages, got %d", len(cfg.Stages))
	}
	if cfg.Stages[0].Name != "homepage" || cfg.Stages[4].Name != "checkout" {
		t.Errorf("unexpected default stage sequence: %+v", cfg.Stages)
	}
	if cfg.Simulation.Sessions != 20 {
		t.Errorf("expected 20 default sessions, got %d", cfg.Simulation.Sessions)
	}
	if cfg.Simulation.CartValueMin != 350 || cfg.Simulation.CartValueMax != 1200 {
		t.Errorf("unexpected default cart bounds: %+v", cfg.Simulation)
	}
	if cfg.CategoryCap != 3 {
		t.Errorf("expected default category cap 3, got %d", cfg.CategoryCap)
	}
	if cfg.Weights != DefaultWeights {
		t.Errorf("expected default weights, got %+v", cfg.Weights)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  sessions: 50
  seed: 9
weights:
  conversion_rate: 0.4
category_cap: 5
stages:
  - name: landing
    kind: landing
    target: /
    retention: 0.9
  - name: checkout
    kind: checkout
    target: /checkout
    retention: 0.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Simulation.Sessions != 50 || cfg.Simulation.Seed != 9 {
		t.Errorf("simulation overrides not applied: %+v", cfg.Simulation)
	}
	if cfg.CategoryCap != 5 {
		t.Errorf("expected category cap 5, got %d", cfg.CategoryCap)
	}
	if len(cfg.Stages) != 2 || cfg.Stages[0].Name != "landing" {
		t.Errorf("configured stages not applied: %+v", cfg.Stages)
	}
	// Unset weight keys keep their defaults.
	if cfg.Weights.ConversionRate != 0.4 || cfg.Weights.UserExperience != DefaultWeights.UserExperience {
		t.Errorf("weight merge wrong: %+v", cfg.Weights)
	}
}

func TestLoad_ClampsRetention(t *testing.T) {
	path := writeConfig(t, `
stages:
  - name: landing
    kind: landing
    retention: 1.7
  - name: checkout
    kind: checkout
    retention: -0.2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Stages[0].Retention != 1 {
		t.Errorf("expected retention clamped to 1, got %v", cfg.Stages[0].Retention)
	}
	if cfg.Stages[1].Retention != 0 {
		t.Errorf("expected retention clamped to 0, got %v", cfg.Stages[1].Retention)
	}
}

func TestLoad_RejectsNonPositiveWeightTotal(t *testing.T) {
	path := writeConfig(t, `
weights:
  conversion_rate: 0
  user_experience: 0
  business_value: 0
  implementation_effort: 0
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero weight total")
	}
}

func TestJourneyStages(t *testing.T) {
	cfg := &Config{Stages: []StageConfig{
		{Name: "browse", Kind: "listing", Target: "/collections/all", Retention: 0.8},
	}}

	stages := cfg.JourneyStages()
	if len(stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(stages))
	}
	want := journey.Stage{Name: "browse", Kind: journey.KindListing, Target: "/collections/all", Retention: 0.8}
	if stages[0] != want {
		t.Errorf("got %+v, want %+v", stages[0], want)
	}
}

func TestScoringWeights(t *testing.T) {
	cfg := &Config{Weights: Weights{
		ConversionRate:       0.3,
		UserExperience:       0.25,
		BusinessValue:        0.15,
		ImplementationEffort: 0.1,
	}}

	w := cfg.ScoringWeights()
	if w.Severity != 0.3 || w.Impact != 0.25 || w.BusinessValue != 0.15 || w.Effort != 0.1 {
		t.Errorf("unexpected weight mapping: %+v", w)
	}
}

func TestSignalPages(t *testing.T) {
	cfg := &Config{Pages: map[string]PageConfig{
		"product_view": {
			ProductCount: 3,
			AddToCart:    true,
			StockStatus:  "out_of_stock",
		},
	}}

	pages := cfg.SignalPages()
	sig, ok := pages["product_view"]
	if !ok {
		t.Fatal("expected product_view snapshot")
	}
	if !sig.HasAddToCart || sig.Stock != signals.StockOutOfStock || sig.ProductCount != 3 {
		t.Errorf("unexpected snapshot: %+v", sig)
	}
}
