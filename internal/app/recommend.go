package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/funnelwatch/internal/config"
	"github.com/blackwell-systems/funnelwatch/internal/detect"
	"github.com/blackwell-systems/funnelwatch/internal/output"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
	"github.com/blackwell-systems/funnelwatch/internal/store"
)

var (
	recommendCap  int
	recommendSave bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Detect funnel issues and rank remediation recommendations",
	Long: `Simulate a batch, detect storefront issues from the aggregated
funnel, and print a prioritized recommendation list with timelines, success
metrics, and an estimated business impact summary.

Recommendations are grouped by category and capped per group so the list
stays actionable.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVar(&recommendCap, "cap", 0, "Max recommendations per category (default from config)")
	recommendCmd.Flags().IntVar(&simulateSessions, "sessions", 0, "Number of sessions to simulate (default from config)")
	recommendCmd.Flags().IntVar(&simulateWorkers, "workers", 0, "Concurrent session workers (default from config)")
	recommendCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Base random seed (default from config)")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "Persist the run to the local database")
	rootCmd.AddCommand(recommendCmd)
}

// recommendReport is the JSON shape of a full recommend run.
type recommendReport struct {
	Funnel          *batchResult               `json:"funnel"`
	Issues          []recommend.Issue          `json:"issues"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Impact          recommend.BusinessImpact   `json:"business_impact"`
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyColorFlags()

	limit := cfg.CategoryCap
	if recommendCap > 0 {
		limit = recommendCap
	}

	result, err := runFunnelBatch(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fctx := &detect.FunnelContext{
		Stages:   cfg.JourneyStages(),
		Snapshot: result.Snapshot,
		Friction: result.Friction,
		Reasons:  result.Reasons,
	}
	issues := detect.NewEngine().Run(fctx)

	weights := cfg.ScoringWeights()
	recs := recommend.Rank(recommend.Build(issues, weights), limit)
	impact := recommend.SummarizeImpact(recs)

	if recommendSave {
		db, err := store.Open(config.DBPath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() { _ = db.Close() }()

		runID, err := db.SaveRun(result.Snapshot, result.Friction, result.Reasons, recs, impact)
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
		return enc.Encode(recommendReport{
			Funnel:          result,
			Issues:          issues,
			Recommendations: recs,
			Impact:          impact,
		})
	}

	renderFunnel(result)
	renderRecommendations(recs, impact)
	return nil
}

func renderRecommendations(recs []recommend.Recommendation, impact recommend.BusinessImpact) {
	fmt.Println(output.Section("Recommendations"))

	if len(recs) == 0 {
		fmt.Println()
		fmt.Println(" " + output.StyleSuccess.Render("No issues detected. The funnel looks healthy."))
		fmt.Println()
		return
	}

	var lastCategory recommend.Category
	for i, rec := range recs {
		if rec.Issue.Category != lastCategory {
			lastCategory = rec.Issue.Category
			fmt.Println()
			fmt.Println(" " + output.StyleHeader.Render(categoryLabel(lastCategory)))
		}
		fmt.Println()
		fmt.Printf("  %d. %s  %s\n", i+1, rec.Issue.Title, output.ScoreBar(rec.PriorityScore, 16))
		fmt.Printf("     %s\n", output.StyleMuted.Render(rec.Issue.Description))
		fmt.Printf("     severity: %s   timeline: %s (%d-%d days)\n",
			severityText(rec.Issue.Severity),
			rec.Timeline.Label, rec.Timeline.MinimumDays, rec.Timeline.RecommendedDays,
		)
		if rec.Issue.ExpectedImpact != "" {
			fmt.Printf("     expected: %s\n", rec.Issue.ExpectedImpact)
		}
		for _, m := range rec.SuccessMetrics {
			fmt.Printf("     - %s\n", m)
		}
	}

	fmt.Println(output.Section("Business Impact"))
	fmt.Println()
	fmt.Printf("  Revenue increase:      $%.0f\n", impact.RevenueIncrease)
	fmt.Printf("  Cost savings:          $%.0f\n", impact.CostSavings)
	fmt.Printf("  Satisfaction uplift:   %.1f pts\n", impact.SatisfactionImprovement)
	fmt.Printf("  Implementation cost:   $%.0f\n", impact.ImplementationCost)
	fmt.Printf("  Net benefit:           $%.0f\n", impact.NetBenefit)
	fmt.Printf("  ROI:                   %.1f%%\n", impact.ROI)
	fmt.Println()
}

func categoryLabel(c recommend.Category) string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "_", " "))
}

func severityText(s recommend.Severity) string {
	switch s {
	case recommend.SeverityCritical:
		return output.StyleError.Render(string(s))
	case recommend.SeverityHigh:
		return output.StyleWarning.Render(string(s))
	default:
		return string(s)
	}
}
