package execution

import (
	"context"

	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
)

// RevalidationResult carries the recomputed economics of a cycle, used
// both for the threshold gate and as diagnostics on the TradeRecord.
type RevalidationResult struct {
	FundingUsed    float64
	Projected      [3]float64 // ledger outputs the chain would produce, before the cycle-fee haircut
	GrossProfitPct float64
	TotalFeePct    float64
	NetProfitPct   float64
}

// Revalidator recomputes a cycle's net profit from freshly probed
// orderbooks and gates on Config.RevalidationThresholdPct (§4.3).
type Revalidator struct {
	adapter venue.Adapter
	cfg     Config
}

// NewRevalidator builds a revalidator against adapter.
func NewRevalidator(adapter venue.Adapter, cfg Config) *Revalidator {
	return &Revalidator{adapter: adapter, cfg: cfg}
}

// Evaluate walks the three snapshots in cycle order, projecting the
// ledger a full fill would produce and comparing top-of-book depth
// against what each leg would need to consume. It returns ErrThinBook
// if any leg's top-of-book size is short, or ErrBelowThreshold if the
// projected net profit (after the fee haircut) misses the configured
// floor.
func (r *Revalidator) Evaluate(ctx context.Context, opp *opportunity.Opportunity, snapshots [3]*venue.OrderbookSnapshot) (*RevalidationResult, error) {
	fundingUsed := opp.InitialAmount
	if fundingUsed > r.cfg.FundingCap {
		fundingUsed = r.cfg.FundingCap
	}

	var projected [3]float64
	input := fundingUsed

	for i, step := range opp.Steps {
		price, size, ok := priceForStep(snapshots[i], step.Side)
		if !ok {
			return nil, newCycleError(ErrThinBook, "leg %d (%s): no top-of-book %s available", i, step.Symbol, step.Side)
		}

		var requiredBase, output float64
		switch step.Side {
		case opportunity.Buy:
			requiredBase = input / price
			output = requiredBase
		case opportunity.Sell:
			requiredBase = input
			output = input * price
		}

		if requiredBase > size {
			return nil, newCycleError(ErrThinBook, "leg %d (%s): requires %.8f base, top-of-book offers %.8f", i, step.Symbol, requiredBase, size)
		}

		projected[i] = output
		input = output
	}

	grossProfitPct := (projected[2] - fundingUsed) / fundingUsed * 100

	discount := 0.0
	feeDiscountActive, err := r.adapter.FeeDiscountActive(ctx)
	if err == nil && feeDiscountActive {
		discount = r.cfg.FeeDiscount
	}
	totalFeePct := 3 * r.cfg.PerLegFeePct * 100 * (1 - discount)

	netProfitPct := grossProfitPct - totalFeePct

	result := &RevalidationResult{
		FundingUsed:    fundingUsed,
		Projected:      projected,
		GrossProfitPct: grossProfitPct,
		TotalFeePct:    totalFeePct,
		NetProfitPct:   netProfitPct,
	}

	if netProfitPct < r.cfg.RevalidationThresholdPct {
		return result, newCycleError(ErrBelowThreshold, "net profit %.4f%% below threshold %.4f%%", netProfitPct, r.cfg.RevalidationThresholdPct)
	}

	return result, nil
}

// priceForStep resolves the top-of-book price and available size for
// step's side against snapshot, honoring the Inverted flag set by the
// Freshness Probe's middle-leg retry (§4.2). When a book arrives
// inverted, the bid/ask roles swap and the price is the reciprocal;
// size is converted to the original book's base-currency units by
// multiplying the inverted level's size by its own price.
func priceForStep(snapshot *venue.OrderbookSnapshot, side opportunity.Side) (price float64, size float64, ok bool) {
	if snapshot == nil {
		return 0, 0, false
	}

	if !snapshot.Inverted {
		if side == opportunity.Buy {
			level, found := snapshot.TopAsk()
			if !found {
				return 0, 0, false
			}
			return level.Price, level.Size, true
		}
		level, found := snapshot.TopBid()
		if !found {
			return 0, 0, false
		}
		return level.Price, level.Size, true
	}

	if side == opportunity.Buy {
		level, found := snapshot.TopBid()
		if !found {
			return 0, 0, false
		}
		return 1 / level.Price, level.Size * level.Price, true
	}
	level, found := snapshot.TopAsk()
	if !found {
		return 0, 0, false
	}
	return 1 / level.Price, level.Size * level.Price, true
}
