package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "triarb",
	Short: "Triangular arbitrage execution engine",
	Long: `triarb is the execution core for triangular arbitrage on a single
centralized exchange: given a candidate cycle (C0->C1->C2->C0) from an
external detector, it revalidates profitability against fresh top-of-book
data, sequentially places the three market orders, and records the
outcome.

Opportunity discovery is out of scope; "run" wires the engine against the
venue selected by EXECUTION_MODE (a live venue when it is "live") and
waits for opportunities via the admission function,
"simulate" exercises the same state machine against an in-memory venue
with a canned cycle.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
