package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
	"go.uber.org/zap"
)

// FreshnessProbe fetches the three orderbooks a candidate cycle needs, in
// parallel, under a shared deadline (§4.2).
type FreshnessProbe struct {
	adapter  venue.Adapter
	logger   *zap.Logger
	depth    int
	deadline time.Duration
}

// NewFreshnessProbe builds a probe against adapter.
func NewFreshnessProbe(adapter venue.Adapter, cfg Config, logger *zap.Logger) *FreshnessProbe {
	return &FreshnessProbe{
		adapter:  adapter,
		logger:   logger,
		depth:    cfg.OrderbookDepth,
		deadline: cfg.ProbeDeadline,
	}
}

// Fetch fetches all three snapshots for opp's steps in parallel, retrying
// the middle leg once with the symbol inverted if the direct fetch fails.
// Returns ErrStale if the aggregate deadline is exceeded.
func (p *FreshnessProbe) Fetch(ctx context.Context, opp *opportunity.Opportunity) ([3]*venue.OrderbookSnapshot, error) {
	var snapshots [3]*venue.OrderbookSnapshot

	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	for i, step := range opp.Steps {
		i, step := i, step
		g.Go(func() error {
			snapshot, err := p.fetchOne(gctx, i, step.Symbol)
			if err != nil {
				return err
			}
			snapshots[i] = snapshot
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return snapshots, newCycleError(ErrStale, "freshness probe did not complete within %s: %v", p.deadline, err)
		}
		return snapshots, err
	}

	return snapshots, nil
}

// fetchOne fetches the snapshot for step i, applying the middle-leg
// inversion retry (only step index 1 is eligible per spec.md §4.2).
func (p *FreshnessProbe) fetchOne(ctx context.Context, stepIndex int, symbol string) (*venue.OrderbookSnapshot, error) {
	snapshot, err := p.adapter.GetOrderbook(ctx, symbol, p.depth)
	if err == nil {
		return snapshot, nil
	}
	if stepIndex != 1 {
		return nil, fmt.Errorf("fetch step %d (%s): %w", stepIndex, symbol, err)
	}

	inverted := invertSymbol(symbol)
	p.logger.Warn("middle-leg-fetch-failed-retrying-inverted",
		zap.String("symbol", symbol),
		zap.String("inverted-symbol", inverted),
		zap.Error(err))

	invSnapshot, invErr := p.adapter.GetOrderbook(ctx, inverted, p.depth)
	if invErr != nil {
		return nil, fmt.Errorf("fetch step %d (%s) and inverted %s: %w", stepIndex, symbol, inverted, invErr)
	}

	invSnapshot.Inverted = true
	return invSnapshot, nil
}

// invertSymbol flips a "BASE-QUOTE" symbol to "QUOTE-BASE".
func invertSymbol(symbol string) string {
	parts := strings.SplitN(symbol, "-", 2)
	if len(parts) != 2 {
		return symbol
	}
	return parts[1] + "-" + parts[0]
}
