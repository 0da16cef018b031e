package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "mashkanta"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Mortgage guardrail and mix optimization engine",
		Version: version,
		Long: `Mashkanta evaluates Israeli mortgage scenarios against the Bank of Israel
Directive 329 guardrails and shapes candidate rate-track mixes for them.

Commands read a JSON payload from a file (or stdin with -) and print the
engine result as JSON on stdout. Diagnostics go to stderr.`,
	}

	rootCmd.PersistentFlags().String("limits", "", "Path to a regulatory limits yaml (defaults are built in)")
	rootCmd.PersistentFlags().String("archive-dsn", "", "PostgreSQL DSN for the run snapshot archive (optional)")
	rootCmd.PersistentFlags().String("session", "", "Advisory session ID attached to archived snapshots")

	feasibilityCmd := &cobra.Command{
		Use:   "feasibility [input.json]",
		Short: "Run the fast feasibility triage",
		Long:  "Decodes loose scenario parameters, applies the regulatory guardrails, and prints coded issues",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFeasibility,
	}

	eligibilityCmd := &cobra.Command{
		Use:   "eligibility [input.json]",
		Short: "Run a full eligibility evaluation",
		Long:  "Computes max financeable amount, actual ratios, and itemized violations for one scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEligibility,
	}
	eligibilityCmd.Flags().Bool("adjustments", false, "Also compute adjustment paths to qualification")

	planCmd := &cobra.Command{
		Use:   "plan [intake.json]",
		Short: "Derive the planning context from a confirmed intake record",
		Long:  "Maps preference sliders, rate views, and future plans onto optimization weights, soft caps, and timelines",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlan,
	}

	optimizeCmd := &cobra.Command{
		Use:   "optimize [intake.json]",
		Short: "Rank candidate rate-track mixes for an intake record",
		Long:  "Runs planning, candidate generation, scenario and stress pricing, and feasibility in one pass",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().String("menu", "", "Path to an average-rate menu yaml")
	optimizeCmd.Flags().String("menu-url", "", "URL of a published average-rate menu (overrides --menu)")
	optimizeCmd.Flags().String("redis-addr", "", "Redis address for the shared menu cache (optional)")

	rootCmd.AddCommand(feasibilityCmd)
	rootCmd.AddCommand(eligibilityCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
