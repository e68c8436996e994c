package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/funnelwatch/internal/config"
	"github.com/blackwell-systems/funnelwatch/internal/output"
	"github.com/blackwell-systems/funnelwatch/internal/store"
)

var (
	runsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted runs and their conversion trend",
	Long: `List recent persisted runs with conversion rate, average cart value,
and a trend arrow against the preceding run. Use "runs show <id>" for the
full funnel, friction tables, and recommendations of a single run.`,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one persisted run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "Max runs to list")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	applyColorFlags()

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	runs, err := db.ListRuns(runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs yet. Use simulate --save or recommend --save first.")
		return nil
	}

	fmt.Println(output.Section("Saved Runs"))
	fmt.Println()

	table := output.NewTable("WHEN", "RUN", "SESSIONS", "CONVERTED", "RATE", "AVG CART", "TREND").AlignRight(2, 3, 4, 5)
	for i, r := range runs {
		trend := ""
		if i+1 < len(runs) {
			// Runs are newest first, so the trend compares to the next row.
			trend = output.TrendArrow(r.ConversionRate-runs[i+1].ConversionRate, true)
		}
		table.AddRow(
			r.TakenAt.Local().Format("2006-01-02 15:04"),
			shortID(r.ID),
			fmt.Sprintf("%d", r.Sessions),
			fmt.Sprintf("%d", r.Converted),
			fmt.Sprintf("%.2f%%", r.ConversionRate),
			fmt.Sprintf("%.2f", r.AvgCartValue),
			trend,
		)
	}
	fmt.Print(indent(table.Render()))
	fmt.Println()
	return nil
}

// runDetail is the JSON shape of "runs show".
type runDetail struct {
	Run             *store.Run                `json:"run"`
	Stages          []store.StageCountRow     `json:"stages"`
	Friction        []store.FrictionRow       `json:"friction_points"`
	Reasons         []store.ReasonRow         `json:"abandonment_reasons"`
	Recommendations []store.RecommendationRow `json:"recommendations"`
	Impact          *store.ImpactRow          `json:"impact,omitempty"`
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	applyColorFlags()

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	run, err := db.FindRun(args[0])
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %q not found", args[0])
	}

	detail := runDetail{Run: run}
	if detail.Stages, err = db.GetStageCounts(run.ID); err != nil {
		return fmt.Errorf("loading stage counts: %w", err)
	}
	if detail.Friction, err = db.GetFrictionPoints(run.ID); err != nil {
		return fmt.Errorf("loading friction points: %w", err)
	}
	if detail.Reasons, err = db.GetReasons(run.ID); err != nil {
		return fmt.Errorf("loading abandonment reasons: %w", err)
	}
	if detail.Recommendations, err = db.GetRecommendations(run.ID); err != nil {
		return fmt.Errorf("loading recommendations: %w", err)
	}
	if detail.Impact, err = db.GetImpact(run.ID); err != nil {
		return fmt.Errorf("loading impact summary: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Println(output.Section("Run " + shortID(run.ID)))
	fmt.Println()
	fmt.Printf(" Taken:    %s\n", run.TakenAt.Local().Format(time.RFC1123))
	fmt.Printf(" Sessions: %d   Converted: %d (%s)   Avg cart: %.2f\n",
		run.Sessions, run.Converted, styleRate(run.ConversionRate), run.AvgCartValue)

	if len(detail.Stages) > 0 {
		fmt.Println()
		table := output.NewTable("STAGE", "SESSIONS", "STEP RATE", "OF TOTAL").AlignRight(1, 2, 3)
		for _, s := range detail.Stages {
			table.AddRow(s.Stage, fmt.Sprintf("%d", s.Count),
				fmt.Sprintf("%.2f%%", s.Rate), fmt.Sprintf("%.2f%%", s.CumulativeRate))
		}
		fmt.Print(indent(table.Render()))
	}

	if len(detail.Friction) > 0 {
		fmt.Println(output.Section("Friction Points"))
		fmt.Println()
		ft := output.NewTable("STAGE", "ABANDONED", "OF BATCH").AlignRight(1, 2)
		for _, f := range detail.Friction {
			ft.AddRow(f.Stage, fmt.Sprintf("%d", f.Count), fmt.Sprintf("%.2f%%", f.Percentage))
		}
		fmt.Print(indent(ft.Render()))
	}

	if len(detail.Reasons) > 0 {
		fmt.Println(output.Section("Abandonment Reasons"))
		fmt.Println()
		rt := output.NewTable("REASON", "COUNT", "OF BATCH").AlignRight(1, 2)
		for _, r := range detail.Reasons {
			rt.AddRow(r.Reason, fmt.Sprintf("%d", r.Count), fmt.Sprintf("%.2f%%", r.Percentage))
		}
		fmt.Print(indent(rt.Render()))
	}

	if len(detail.Recommendations) > 0 {
		fmt.Println(output.Section("Recommendations"))
		fmt.Println()
		rt := output.NewTable("#", "TITLE", "CATEGORY", "SEVERITY", "SCORE", "DAYS").AlignRight(0, 4, 5)
		for _, r := range detail.Recommendations {
			rt.AddRow(
				fmt.Sprintf("%d", r.Rank),
				r.Title,
				r.Category,
				r.Severity,
				fmt.Sprintf("%.1f", r.PriorityScore),
				fmt.Sprintf("%d-%d", r.MinimumDays, r.RecommendedDays),
			)
		}
		fmt.Print(indent(rt.Render()))
	}

	if detail.Impact != nil {
		fmt.Println(output.Section("Business Impact"))
		fmt.Println()
		fmt.Printf("  Net benefit: $%.0f   ROI: %.1f%%\n", detail.Impact.NetBenefit, detail.Impact.ROI)
	}
	fmt.Println()
	return nil
}

// shortID trims a run UUID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
