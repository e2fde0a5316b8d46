package venue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haliaxis/triarb/internal/opportunity"
)

// TestSimulatedAdapter_BuyQuantitySemantics exercises testable property #8:
// a buy with quantity Q at ask P yields filled_base ~= Q/P and cost_quote ~= Q.
func TestSimulatedAdapter_BuyQuantitySemantics(t *testing.T) {
	a := NewSimulatedAdapter("sim")
	a.SetOrderbook("KCS-USDT", nil, []PriceLevel{{Price: 10.0, Size: 100}})

	result, err := a.PlaceMarketOrder(context.Background(), "KCS-USDT", opportunity.Buy, 20.0)
	require.NoError(t, err)
	require.InDelta(t, 2.0, result.FilledBase, 1e-9)
	require.InDelta(t, 20.0, result.CostQuote, 1e-9)
}

// TestSimulatedAdapter_SellQuantitySemantics exercises testable property #8:
// a sell with quantity Q at bid P yields filled_base ~= Q and cost_quote ~= Q*P.
func TestSimulatedAdapter_SellQuantitySemantics(t *testing.T) {
	a := NewSimulatedAdapter("sim")
	a.SetOrderbook("BTC-USDT", []PriceLevel{{Price: 50200, Size: 10}}, nil)

	result, err := a.PlaceMarketOrder(context.Background(), "BTC-USDT", opportunity.Sell, 0.0004)
	require.NoError(t, err)
	require.InDelta(t, 0.0004, result.FilledBase, 1e-12)
	require.InDelta(t, 0.0004*50200, result.CostQuote, 1e-9)
}

func TestSimulatedAdapter_NoLiquidity(t *testing.T) {
	a := NewSimulatedAdapter("sim")
	_, err := a.GetOrderbook(context.Background(), "MISSING-USDT", 10)
	require.Error(t, err)

	var adapterErr *AdapterError
	require.ErrorAs(t, err, &adapterErr)
	require.Equal(t, ErrNoLiquidity, adapterErr.Kind)
}

func TestSimulatedAdapter_OrderError(t *testing.T) {
	a := NewSimulatedAdapter("sim")
	a.SetOrderbook("KCS-USDT", nil, []PriceLevel{{Price: 10.0, Size: 100}})
	a.SetOrderError(NewAdapterError(ErrRejected, "KCS-USDT", "simulated rejection"))

	_, err := a.PlaceMarketOrder(context.Background(), "KCS-USDT", opportunity.Buy, 20.0)
	require.Error(t, err)
}

func TestSimulatedAdapter_FeeDiscountActive(t *testing.T) {
	a := NewSimulatedAdapter("sim")
	active, err := a.FeeDiscountActive(context.Background())
	require.NoError(t, err)
	require.False(t, active)

	a.SetFeeDiscountActive(true)
	active, err = a.FeeDiscountActive(context.Background())
	require.NoError(t, err)
	require.True(t, active)
}

func TestParseLevels(t *testing.T) {
	raw := [][2]string{{"10.0", "2.5"}, {"bad", "1.0"}, {"9.5", "bad"}}
	levels := parseLevels(raw)
	require.Len(t, levels, 1)
	require.InDelta(t, 10.0, levels[0].Price, 1e-9)
	require.InDelta(t, 2.5, levels[0].Size, 1e-9)
}
