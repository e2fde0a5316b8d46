package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haliaxis/triarb/internal/app"
	"github.com/haliaxis/triarb/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the execution engine against the venue selected by EXECUTION_MODE",
	Long: `Starts the triangular arbitrage execution engine wired against the
venue adapter selected by EXECUTION_MODE: the REST venue adapter when it
is "live", or the in-memory SimulatedAdapter when it is "simulate" (the
default). The engine will:
1. Wait for candidate opportunities via the admission function
2. Revalidate each against fresh top-of-book data
3. Execute the three legs and record the outcome

In live mode, requests go to VENUE_BASE_URL (default
https://api.kucoin.com), signed with the VENUE_API_* credentials.`,
	RunE: runEngine,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger, &app.Options{})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
