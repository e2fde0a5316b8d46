package execution

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/ledger"
	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
)

// SequenceResult is the outcome of walking a cycle's three legs.
type SequenceResult struct {
	Ledger         *ledger.AmountLedger
	Legs           []*venue.LegResult // one entry per leg actually submitted
	FailedLegIndex int                // 1-based index of the failed leg; -1 if all three legs completed
	Desynchronized bool               // true if failure happened after leg 1 submitted
}

// LegSequencer walks a cycle's three legs serially against one venue
// adapter, propagating each leg's realized output as the next leg's
// input quantity (§4.4). It never rolls back: once leg 1 is submitted,
// the account is only returned to C0 by leg 3 completing.
type LegSequencer struct {
	adapter venue.Adapter
	logger  *zap.Logger
}

// NewLegSequencer builds a sequencer against adapter.
func NewLegSequencer(adapter venue.Adapter, logger *zap.Logger) *LegSequencer {
	return &LegSequencer{adapter: adapter, logger: logger}
}

// Execute submits the three legs of opp in order, using fundingUsed as
// leg 1's input quantity. It stops at the first leg that fails or
// produces a zero/non-positive output, returning the partial ledger and
// the index of the leg that failed.
func (s *LegSequencer) Execute(ctx context.Context, opp *opportunity.Opportunity, fundingUsed float64) (*SequenceResult, error) {
	amounts := ledger.New()
	legs := make([]*venue.LegResult, 0, 3)

	input := fundingUsed

	for i, step := range opp.Steps {
		quantity := legQuantity(i, step.Side, input)

		result, err := s.placeLegWithClockSkewRetry(ctx, i, step.Symbol, step.Side, quantity)
		if err != nil {
			return &SequenceResult{
				Ledger:         amounts,
				Legs:           legs,
				FailedLegIndex: i + 1,
				Desynchronized: i > 0,
			}, err
		}
		legs = append(legs, result)

		output := legOutput(i, step.Side, result)
		if output <= 0 {
			s.logger.Warn("leg-zero-fill",
				zap.Int("leg", i),
				zap.String("symbol", step.Symbol))
			return &SequenceResult{
				Ledger:         amounts,
				Legs:           legs,
				FailedLegIndex: i + 1,
				Desynchronized: i > 0,
			}, newCycleError(ErrZeroFill, "leg %d (%s) produced zero output", i, step.Symbol)
		}

		amounts.Append(decimal.NewFromFloat(output))
		input = output

		s.logger.Info("leg-submitted",
			zap.Int("leg", i),
			zap.String("symbol", step.Symbol),
			zap.String("side", string(step.Side)),
			zap.Float64("quantity", quantity),
			zap.Float64("filled-base", result.FilledBase),
			zap.Float64("cost-quote", result.CostQuote))
	}

	return &SequenceResult{
		Ledger:         amounts,
		Legs:           legs,
		FailedLegIndex: -1,
		Desynchronized: false,
	}, nil
}

// placeLegWithClockSkewRetry submits one leg. If leg 1 (legIndex 0) is
// rejected for clock skew, it calls SyncTime and retries that leg exactly
// once: leg 1 failing this way has not moved the account out of C0. A
// clock-skew rejection on legs 2 and 3 is returned without a retry.
func (s *LegSequencer) placeLegWithClockSkewRetry(ctx context.Context, legIndex int, symbol string, side opportunity.Side, quantity float64) (*venue.LegResult, error) {
	result, err := s.adapter.PlaceMarketOrder(ctx, symbol, side, quantity)
	if err == nil {
		return result, nil
	}
	if legIndex != 0 || !isClockSkew(err) {
		return nil, err
	}

	s.logger.Warn("leg-clock-skew-retrying", zap.Int("leg", legIndex), zap.String("symbol", symbol))
	if _, syncErr := s.adapter.SyncTime(ctx); syncErr != nil {
		return nil, err
	}
	return s.adapter.PlaceMarketOrder(ctx, symbol, side, quantity)
}

func isClockSkew(err error) bool {
	var adapterErr *venue.AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr.Kind == venue.ErrClockSkew
	}
	return false
}

// legQuantity computes the quantity argument for leg i given the
// previous leg's realized output (or fundingUsed for leg 0), per the
// accounting contract in §4.4. PlaceMarketOrder's quantity is in quote
// currency for Buy and base currency for Sell.
func legQuantity(legIndex int, side opportunity.Side, input float64) float64 {
	return input
}

// legOutput extracts the amount that feeds the next leg's input from a
// completed leg's result: FilledBase for Buy (since the next leg spends
// or sells what this leg just bought), CostQuote for Sell (since the
// next leg receives what this leg just sold for).
func legOutput(legIndex int, side opportunity.Side, result *venue.LegResult) float64 {
	if side == opportunity.Buy {
		return result.FilledBase
	}
	return result.CostQuote
}
