package execution

import (
	"fmt"
	"time"
)

// Config holds the engine's tunable knobs, per spec.md §3's
// ExecutionConfig and §6's Configuration keys.
type Config struct {
	// FundingCap is a hard ceiling in C0 regardless of the opportunity's
	// requested initial amount.
	FundingCap float64

	// RevalidationThresholdPct is the minimum net profit percent required
	// to proceed past REVALIDATING. Deliberately higher than the
	// detector's own threshold to absorb slippage.
	RevalidationThresholdPct float64

	// PerLegFeePct is the exchange taker fee applied per leg before
	// any fee-token discount.
	PerLegFeePct float64

	// FeeToken and FeeDiscount describe the optional fee-discount model:
	// if the adapter reports the token's discount is active, the total
	// cycle fee is reduced by FeeDiscount (a fraction, e.g. 0.2 = 20%).
	FeeToken    string
	FeeDiscount float64

	// TimeSyncBufferMS is the configured clock-drift allowance for signed
	// requests, in milliseconds. No adapter reads it: the REST adapter
	// offsets request timestamps only by the skew measured in SyncTime.
	TimeSyncBufferMS int

	// OrderbookDepth is the depth requested from the Freshness Probe.
	OrderbookDepth int

	// ParallelProbe is set to true by internal/app. FreshnessProbe does
	// not read it and always fetches the three books in parallel.
	ParallelProbe bool

	// RequireManualConfirm, when true, suspends admission pending an
	// external confirmation token.
	RequireManualConfirm bool

	// ProbeDeadline bounds the aggregate Freshness Probe fetch (§4.2).
	ProbeDeadline time.Duration

	// CycleDeadline bounds PROBING-start to end-of-leg-3-submission (§4.6).
	CycleDeadline time.Duration

	// ManualConfirmDeadline bounds how long admission waits for a
	// confirmation token when RequireManualConfirm is set.
	ManualConfirmDeadline time.Duration
}

// DefaultConfig returns the engine's out-of-the-box tuning.
func DefaultConfig() Config {
	return Config{
		FundingCap:               100.0,
		RevalidationThresholdPct: 0.8, // grounded in original_source's hard-coded 0.8% recheck
		PerLegFeePct:             0.0008,
		FeeDiscount:              0.2,
		TimeSyncBufferMS:         200,
		OrderbookDepth:           10,
		ParallelProbe:            true,
		RequireManualConfirm:     false,
		ProbeDeadline:            200 * time.Millisecond,
		CycleDeadline:            2 * time.Second,
		ManualConfirmDeadline:    5 * time.Second,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.FundingCap <= 0 {
		return fmt.Errorf("FUNDING_CAP must be positive, got %f", c.FundingCap)
	}
	if c.RevalidationThresholdPct <= 0 {
		return fmt.Errorf("REVALIDATION_THRESHOLD_PCT must be positive, got %f", c.RevalidationThresholdPct)
	}
	if c.PerLegFeePct < 0 {
		return fmt.Errorf("PER_LEG_FEE_PCT must be non-negative, got %f", c.PerLegFeePct)
	}
	if c.FeeDiscount < 0 || c.FeeDiscount > 1 {
		return fmt.Errorf("FEE_DISCOUNT must be in [0,1], got %f", c.FeeDiscount)
	}
	if c.OrderbookDepth <= 0 {
		return fmt.Errorf("ORDERBOOK_DEPTH must be positive, got %d", c.OrderbookDepth)
	}
	if c.ProbeDeadline <= 0 {
		return fmt.Errorf("probe deadline must be positive, got %s", c.ProbeDeadline)
	}
	if c.CycleDeadline <= 0 {
		return fmt.Errorf("cycle deadline must be positive, got %s", c.CycleDeadline)
	}
	return nil
}
