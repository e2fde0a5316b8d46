package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
)

// TestExecute_S1 walks the full S1 cycle end to end through the
// simulated adapter and checks the realized ledger matches the
// no-fee-discount chain (property: leg 2 Sell propagates cost_quote,
// leg 1/3 propagate filled_base/cost_quote as documented in §4.4).
func TestExecute_S1(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	adapter.SetOrderbook("KCS-USDT", nil, []venue.PriceLevel{{Price: 10.0, Size: 100}})
	adapter.SetOrderbook("KCS-BTC", []venue.PriceLevel{{Price: 0.00020, Size: 100}}, nil)
	adapter.SetOrderbook("BTC-USDT", []venue.PriceLevel{{Price: 50200, Size: 100}}, nil)
	adapter.SetFeeRule("KCS-USDT", 0, "")
	adapter.SetFeeRule("KCS-BTC", 0, "")
	adapter.SetFeeRule("BTC-USDT", 0, "")

	seq := NewLegSequencer(adapter, zap.NewNop())
	opp := s1Opportunity()

	result, err := seq.Execute(context.Background(), opp, 20.0)
	require.NoError(t, err)
	require.Equal(t, -1, result.FailedLegIndex)
	require.False(t, result.Desynchronized)
	require.True(t, result.Ledger.Complete())

	leg0, _ := result.Ledger.At(0).Float64()
	leg1, _ := result.Ledger.At(1).Float64()
	leg2, _ := result.Ledger.At(2).Float64()
	require.InDelta(t, 2.0, leg0, 1e-9)
	require.InDelta(t, 0.0004, leg1, 1e-9)
	require.InDelta(t, 20.08, leg2, 1e-9)
}

// TestExecute_MidCycleRejectionDesynchronizes asserts a leg 2 failure
// leaves Desynchronized true and stops the sequence with no leg 3
// result, per the forward-only failure policy (no rollback, §4.4/§4.5).
func TestExecute_MidCycleRejectionDesynchronizes(t *testing.T) {
	adapter := venue.NewSimulatedAdapter("sim")
	adapter.SetOrderbook("KCS-USDT", nil, []venue.PriceLevel{{Price: 10.0, Size: 100}})
	// No KCS-BTC book is installed, so the simulated venue rejects leg 2.

	seq := NewLegSequencer(adapter, zap.NewNop())
	opp := s1Opportunity()

	result, err := seq.Execute(context.Background(), opp, 20.0)
	require.Error(t, err)
	require.Equal(t, 2, result.FailedLegIndex)
	require.True(t, result.Desynchronized)
	require.Equal(t, 1, result.Ledger.Len())
}

// TestExecute_BuyLegPropagatesFilledBase exercises the "single most
// error-prone invariant" (§4.4): a Buy leg's output is FilledBase, not
// CostQuote, so the next leg receives a base-currency quantity.
func TestExecute_BuyLegPropagatesFilledBase(t *testing.T) {
	opp := opportunity.New(
		"kucoin",
		[3]string{"USDT", "ETH", "BTC"},
		[3]opportunity.Step{
			{Symbol: "ETH-USDT", Side: opportunity.Buy},
			{Symbol: "BTC-ETH", Side: opportunity.Buy},
			{Symbol: "BTC-USDT", Side: opportunity.Sell},
		},
		100.0,
	)

	adapter := venue.NewSimulatedAdapter("sim")
	adapter.SetOrderbook("ETH-USDT", nil, []venue.PriceLevel{{Price: 2000.0, Size: 100}})
	adapter.SetOrderbook("BTC-ETH", nil, []venue.PriceLevel{{Price: 20.0, Size: 100}})
	adapter.SetOrderbook("BTC-USDT", []venue.PriceLevel{{Price: 40000, Size: 100}}, nil)
	adapter.SetFeeRule("ETH-USDT", 0, "")
	adapter.SetFeeRule("BTC-ETH", 0, "")
	adapter.SetFeeRule("BTC-USDT", 0, "")

	seq := NewLegSequencer(adapter, zap.NewNop())
	result, err := seq.Execute(context.Background(), opp, 100.0)
	require.NoError(t, err)

	leg0, _ := result.Ledger.At(0).Float64()
	leg1, _ := result.Ledger.At(1).Float64()
	leg2, _ := result.Ledger.At(2).Float64()
	require.InDelta(t, 0.05, leg0, 1e-9)   // 100 USDT / 2000 = 0.05 ETH
	require.InDelta(t, 0.0025, leg1, 1e-9) // 0.05 ETH / 20 ETH-per-BTC = 0.0025 BTC
	require.InDelta(t, 100.0, leg2, 1e-9)  // 0.0025 BTC * 40000 = 100 USDT
}
