// Package app contains the Cobra command tree for funnelwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/funnelwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "funnelwatch",
	Short: "Conversion funnel simulation and remediation ranking for storefronts",
	Long: `funnelwatch models how visitors move through a storefront's purchase
funnel. It simulates visitor sessions against observed page signals, aggregates
them into a conversion funnel with ranked friction points, and converts the
observed friction into scored, ranked remediation recommendations.

Run 'funnelwatch' with no arguments to see the available commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("funnelwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  simulate   Simulate visitor sessions and display the conversion funnel")
		fmt.Println("  recommend  Score and rank remediation recommendations from a batch")
		fmt.Println("  runs       List and inspect persisted simulation runs")
		fmt.Println("  watch      Monitor funnel health and alert on conversion drops")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// applyColorFlags reconciles the color preference from flags and TTY state.
func applyColorFlags() {
	if flagNoColor {
		output.SetNoColor(true)
		return
	}
	output.AutoDetect()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/funnelwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
