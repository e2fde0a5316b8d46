package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
)

// ConsoleSink implements execution.Sink by pretty-printing each
// TradeRecord to stdout, grounded on the teacher's ConsoleStorage.
type ConsoleSink struct {
	logger *zap.Logger
}

// NewConsoleSink creates a console sink.
func NewConsoleSink(logger *zap.Logger) *ConsoleSink {
	logger.Info("console-sink-initialized")
	return &ConsoleSink{logger: logger}
}

// Record pretty-prints record to stdout.
func (c *ConsoleSink) Record(_ context.Context, record *execution.TradeRecord) error {
	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("TRADE %s  [%s]\n", record.TradeID[:8], record.Status)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Exchange: %s\n", record.Exchange)
	fmt.Printf("Cycle:    %s -> %s -> %s -> %s\n", record.Cycle[0], record.Cycle[1], record.Cycle[2], record.Cycle[0])
	fmt.Printf("Time:     %s\n", record.Ts.Format("2006-01-02 15:04:05"))
	fmt.Printf("Initial:  %.8f %s\n", record.Initial, record.Cycle[0])
	fmt.Println("  ───────────────────────────────")

	switch record.Status {
	case execution.StatusSuccess:
		fmt.Printf("  Final:          %.8f %s\n", record.Final, record.Cycle[0])
		fmt.Printf("  Expected:       %.4f%%\n", record.ExpectedProfitPct)
		fmt.Printf("  Actual profit:  %.8f %s (%.4f%%)\n", record.ActualProfit, record.Cycle[0], record.ActualProfitPct)
		fmt.Printf("  Duration:       %d ms\n", record.DurationMS)
		if record.ActualProfit > 0 {
			fmt.Printf("  profitable\n")
		} else {
			fmt.Printf("  not profitable\n")
		}
	case execution.StatusFailed:
		kind := "unknown"
		if record.ErrorKind != nil {
			kind = string(*record.ErrorKind)
		}
		fmt.Printf("  Error kind:     %s\n", kind)
		fmt.Printf("  Failed leg:     %d\n", record.FailedLegIndex)
		fmt.Printf("  Desynchronized: %t\n", record.Desynchronized)
		fmt.Printf("  Fees paid:      %.8f\n", record.FeesPaid)
	case execution.StatusAttempt:
		fmt.Printf("  Expected:       %.4f%%\n", record.ExpectedProfitPct)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	return nil
}

// Close is a no-op for the console sink.
func (c *ConsoleSink) Close() error {
	c.logger.Info("closing-console-sink")
	return nil
}
