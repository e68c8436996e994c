package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/funnelwatch/internal/config"
	"github.com/blackwell-systems/funnelwatch/internal/funnel"
	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/output"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
	"github.com/blackwell-systems/funnelwatch/internal/signals"
	"github.com/blackwell-systems/funnelwatch/internal/store"
)

var (
	simulateSessions int
	simulateWorkers  int
	simulateSeed     int64
	simulateSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate visitor sessions and display the conversion funnel",
	Long: `Simulate a batch of visitor sessions against the configured stage
sequence and page signals, then display stage populations, conversion rates,
and ranked friction points and abandonment reasons.

A fixed --seed reproduces the exact same batch, which makes runs comparable
across configuration changes.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateSessions, "sessions", 0, "Number of sessions to simulate (default from config)")
	simulateCmd.Flags().IntVar(&simulateWorkers, "workers", 0, "Concurrent session workers (default from config)")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Base random seed (default from config)")
	simulateCmd.Flags().BoolVar(&simulateSave, "save", false, "Persist the run to the local database")
	rootCmd.AddCommand(simulateCmd)
}

// batchResult bundles everything one simulated batch produces.
type batchResult struct {
	Records  []journey.SessionRecord `json:"sessions"`
	Snapshot funnel.Snapshot         `json:"funnel"`
	Friction []funnel.FrictionEntry  `json:"friction_points"`
	Reasons  []funnel.ReasonEntry    `json:"abandonment_reasons"`
}

// runFunnelBatch simulates one batch per the config (with optional flag
// overrides) and aggregates it.
func runFunnelBatch(ctx context.Context, cfg *config.Config) (*batchResult, error) {
	sim := cfg.Simulation
	if simulateSessions > 0 {
		sim.Sessions = simulateSessions
	}
	if simulateWorkers > 0 {
		sim.Workers = simulateWorkers
	}
	if simulateSeed != 0 {
		sim.Seed = simulateSeed
	}

	jcfg := journey.Config{
		Stages:       cfg.JourneyStages(),
		CartValueMin: sim.CartValueMin,
		CartValueMax: sim.CartValueMax,
	}
	provider := signals.NewStaticProvider(cfg.SignalPages())

	records, err := journey.RunBatch(ctx, jcfg, provider, journey.BatchOptions{
		Sessions:   sim.Sessions,
		Archetypes: sim.Archetypes,
		Workers:    sim.Workers,
		Seed:       sim.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("simulating batch: %w", err)
	}

	friction, reasons := funnel.RankFriction(records)
	return &batchResult{
		Records:  records,
		Snapshot: funnel.Aggregate(jcfg.Stages, records),
		Friction: friction,
		Reasons:  reasons,
	}, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyColorFlags()

	result, err := runFunnelBatch(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if simulateSave {
		db, err := store.Open(config.DBPath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() { _ = db.Close() }()

		runID, err := db.SaveRun(result.Snapshot, result.Friction, result.Reasons, nil, recommend.BusinessImpact{})
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		if flagVerbose {
			fmt.Fprintln(os.Stderr, "saved run", runID)
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderFunnel(result)
	return nil
}

// renderFunnel prints the funnel snapshot and friction tables.
func renderFunnel(result *batchResult) {
	snap := result.Snapshot

	fmt.Println(output.Section("Conversion Funnel"))
	fmt.Println()

	table := output.NewTable("STAGE", "SESSIONS", "STEP RATE", "OF TOTAL", "").AlignRight(1, 2, 3)
	for _, stage := range snap.Stages {
		table.AddRow(
			stage.Stage,
			fmt.Sprintf("%d", stage.Count),
			fmt.Sprintf("%.2f%%", stage.Rate),
			fmt.Sprintf("%.2f%%", stage.CumulativeRate),
			output.FunnelBar(stage.Count, snap.TotalSessions, 24),
		)
	}
	fmt.Print(indent(table.Render()))

	fmt.Println()
	fmt.Printf(" Sessions: %d   Converted: %d (%s)   Avg cart: %.2f\n",
		snap.TotalSessions,
		snap.ConvertedCount,
		styleRate(snap.ConversionRate),
		snap.AvgCartValue,
	)

	if len(result.Friction) > 0 {
		fmt.Println(output.Section("Friction Points"))
		fmt.Println()
		ft := output.NewTable("STAGE", "ABANDONED", "OF BATCH").AlignRight(1, 2)
		for _, f := range result.Friction {
			ft.AddRow(f.Stage, fmt.Sprintf("%d", f.Count), fmt.Sprintf("%.2f%%", f.Percentage))
		}
		fmt.Print(indent(ft.Render()))
	}

	if len(result.Reasons) > 0 {
		fmt.Println(output.Section("Abandonment Reasons"))
		fmt.Println()
		rt := output.NewTable("REASON", "COUNT", "OF BATCH").AlignRight(1, 2)
		for _, r := range result.Reasons {
			rt.AddRow(r.Reason, fmt.Sprintf("%d", r.Count), fmt.Sprintf("%.2f%%", r.Percentage))
		}
		fmt.Print(indent(rt.Render()))
	}
	fmt.Println()
}

// styleRate colors a conversion percentage by health.
func styleRate(rate float64) string {
	text := fmt.Sprintf("%.2f%%", rate)
	switch {
	case rate >= 2.0:
		return output.StyleSuccess.Render(text)
	case rate > 0:
		return output.StyleWarning.Render(text)
	default:
		return output.StyleError.Render(text)
	}
}

// indent prefixes every table line with a single space to match section
// headers.
func indent(s string) string {
	out := ""
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out += " " + s[start:i+1]
			start = i + 1
		}
	}
	if start < len(s) {
		out += " " + s[start:]
	}
	return out
}
