package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haliaxis/triarb/internal/app"
	"github.com/haliaxis/triarb/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the execution engine against an in-memory venue",
	Long: `Starts the execution engine wired against the in-memory
SimulatedAdapter instead of a live venue's REST API, and submits a canned
cycle (spec scenario S1) on an interval in place of an external detector.
Useful for exercising the state machine, metrics, and HTTP surface
without exchange credentials.`,
	RunE: runSimulation,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
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

	application, err := app.New(cfg, logger, &app.Options{Simulate: true})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
