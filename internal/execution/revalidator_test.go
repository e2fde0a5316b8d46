package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
)

func s1Opportunity() *opportunity.Opportunity {
	return opportunity.New(
		"kucoin",
		[3]string{"USDT", "KCS", "BTC"},
		[3]opportunity.Step{
			{Symbol: "KCS-USDT", Side: opportunity.Buy},
			{Symbol: "KCS-BTC", Side: opportunity.Sell},
			{Symbol: "BTC-USDT", Side: opportunity.Sell},
		},
		20.0,
	)
}

// TestEvaluate_S1 reproduces spec scenario S1: a clean triangular cycle
// with no fee discount, expecting net profit ~0.16% (funding 20 USDT,
// gross 0.4%, per-leg fee 0.08% so 0.24% total, no discount).
func TestEvaluate_S1(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	cfg := DefaultConfig()
	cfg.PerLegFeePct = 0.0008
	cfg.FeeDiscount = 0
	cfg.RevalidationThresholdPct = 0.1

	snapshots := [3]*venue.OrderbookSnapshot{
		{Symbol: "KCS-USDT", Asks: []venue.PriceLevel{{Price: 10.0, Size: 100}}},
		{Symbol: "KCS-BTC", Bids: []venue.PriceLevel{{Price: 0.00020, Size: 100}}},
		{Symbol: "BTC-USDT", Bids: []venue.PriceLevel{{Price: 50200, Size: 100}}},
	}

	rv := NewRevalidator(adapter, cfg)
	result, err := rv.Evaluate(context.Background(), s1Opportunity(), snapshots)
	require.NoError(t, err)
	require.InDelta(t, 2.0, result.Projected[0], 1e-9)
	require.InDelta(t, 0.0004, result.Projected[1], 1e-9)
	require.InDelta(t, 20.08, result.Projected[2], 1e-9)
	require.InDelta(t, 0.4, result.GrossProfitPct, 1e-9)
	require.InDelta(t, 0.24, result.TotalFeePct, 1e-9)
	require.InDelta(t, 0.16, result.NetProfitPct, 1e-9)
}

// TestEvaluate_S3 reproduces spec scenario S3: top-of-book size on the
// first leg is short of what funding requires, failing THIN_BOOK.
func TestEvaluate_S3(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	cfg := DefaultConfig()

	snapshots := [3]*venue.OrderbookSnapshot{
		{Symbol: "KCS-USDT", Asks: []venue.PriceLevel{{Price: 10.0, Size: 1.5}}},
		{Symbol: "KCS-BTC", Bids: []venue.PriceLevel{{Price: 0.00020, Size: 100}}},
		{Symbol: "BTC-USDT", Bids: []venue.PriceLevel{{Price: 50200, Size: 100}}},
	}

	rv := NewRevalidator(adapter, cfg)
	_, err := rv.Evaluate(context.Background(), s1Opportunity(), snapshots)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, ErrThinBook, cycleErr.Kind)
}

// TestEvaluate_S5 reproduces spec scenario S5: the middle leg's direct
// symbol is unavailable and the probe substituted the inverted pair
// (BTC-KCS ask 5000, equivalent to KCS-BTC bid 0.0002). Net profit must
// match the non-inverted S1 result to within 1e-9 (testable property #7).
func TestEvaluate_S5InvertedEquivalence(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	cfg := DefaultConfig()
	cfg.PerLegFeePct = 0.0008
	cfg.FeeDiscount = 0
	cfg.RevalidationThresholdPct = 0.1

	snapshots := [3]*venue.OrderbookSnapshot{
		{Symbol: "KCS-USDT", Asks: []venue.PriceLevel{{Price: 10.0, Size: 100}}},
		{Symbol: "BTC-KCS", Asks: []venue.PriceLevel{{Price: 5000, Size: 1}}, Inverted: true},
		{Symbol: "BTC-USDT", Bids: []venue.PriceLevel{{Price: 50200, Size: 100}}},
	}

	rv := NewRevalidator(adapter, cfg)
	result, err := rv.Evaluate(context.Background(), s1Opportunity(), snapshots)
	require.NoError(t, err)
	require.InDelta(t, 0.16, result.NetProfitPct, 1e-9)
}

// TestEvaluate_BelowThreshold asserts the gate fails when the projected
// net profit, though positive after fees, is below the configured
// threshold.
func TestEvaluate_BelowThreshold(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	cfg := DefaultConfig()
	cfg.RevalidationThresholdPct = 5.0

	snapshots := [3]*venue.OrderbookSnapshot{
		{Symbol: "KCS-USDT", Asks: []venue.PriceLevel{{Price: 10.0, Size: 100}}},
		{Symbol: "KCS-BTC", Bids: []venue.PriceLevel{{Price: 0.00020, Size: 100}}},
		{Symbol: "BTC-USDT", Bids: []venue.PriceLevel{{Price: 50200, Size: 100}}},
	}

	rv := NewRevalidator(adapter, cfg)
	_, err := rv.Evaluate(context.Background(), s1Opportunity(), snapshots)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, ErrBelowThreshold, cycleErr.Kind)
}

// TestEvaluate_FeeDiscountApplied checks the fee-discount path (S1 with
// an active discount) matches the S1 fee example:
// 3 * 0.08% * (1 - 0.2) = 0.192% total fee.
func TestEvaluate_FeeDiscountApplied(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	adapter.SetFeeDiscountActive(true)
	cfg := DefaultConfig()
	cfg.PerLegFeePct = 0.0008
	cfg.FeeDiscount = 0.2
	cfg.RevalidationThresholdPct = 0.1

	snapshots := [3]*venue.OrderbookSnapshot{
		{Symbol: "KCS-USDT", Asks: []venue.PriceLevel{{Price: 10.0, Size: 100}}},
		{Symbol: "KCS-BTC", Bids: []venue.PriceLevel{{Price: 0.00020, Size: 100}}},
		{Symbol: "BTC-USDT", Bids: []venue.PriceLevel{{Price: 50200, Size: 100}}},
	}

	rv := NewRevalidator(adapter, cfg)
	result, err := rv.Evaluate(context.Background(), s1Opportunity(), snapshots)
	require.NoError(t, err)
	require.InDelta(t, 0.192, result.TotalFeePct, 1e-9)
	require.InDelta(t, 0.208, result.NetProfitPct, 1e-9)
}
