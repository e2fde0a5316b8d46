package venue

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/opportunity"
)

// BreakerConfig tunes the per-venue circuit breaker wrapping network calls.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
	Logger      *zap.Logger
}

// BreakerAdapter wraps an Adapter's network-bound calls (orderbook fetch,
// order placement) in a gobreaker circuit breaker so repeated venue
// failures stop admitting new opportunities instead of burning the
// timing budget on a dead connection.
type BreakerAdapter struct {
	inner         Adapter
	orderbookCB   *gobreaker.CircuitBreaker[*OrderbookSnapshot]
	placeOrderCB  *gobreaker.CircuitBreaker[*LegResult]
	logger        *zap.Logger
}

// NewBreakerAdapter wraps inner with a circuit breaker per cfg.
func NewBreakerAdapter(inner Adapter, cfg BreakerConfig) *BreakerAdapter {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	name := inner.Name()
	onStateChange := func(_ string, _, to gobreaker.State) {
		CircuitBreakerTrips.WithLabelValues(name, to.String()).Inc()
		cfg.Logger.Warn("venue-circuit-breaker-state-change",
			zap.String("venue", name),
			zap.String("state", to.String()))
	}

	tripFn := func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= maxFailures
	}

	obSettings := gobreaker.Settings{
		Name:          name + "-orderbook",
		Timeout:       openTimeout,
		ReadyToTrip:   tripFn,
		OnStateChange: onStateChange,
	}
	orderCBSettings := gobreaker.Settings{
		Name:          name + "-place-order",
		Timeout:       openTimeout,
		ReadyToTrip:   tripFn,
		OnStateChange: onStateChange,
	}

	return &BreakerAdapter{
		inner:        inner,
		orderbookCB:  gobreaker.NewCircuitBreaker[*OrderbookSnapshot](obSettings),
		placeOrderCB: gobreaker.NewCircuitBreaker[*LegResult](orderCBSettings),
		logger:       cfg.Logger,
	}
}

// Name implements Adapter.
func (b *BreakerAdapter) Name() string {
	return b.inner.Name()
}

// GetOrderbook implements Adapter, wrapped in the orderbook breaker.
func (b *BreakerAdapter) GetOrderbook(ctx context.Context, symbol string, depth int) (*OrderbookSnapshot, error) {
	result, err := b.orderbookCB.Execute(func() (*OrderbookSnapshot, error) {
		return b.inner.GetOrderbook(ctx, symbol, depth)
	})
	if err != nil {
		return nil, fmt.Errorf("orderbook breaker %s: %w", symbol, err)
	}
	return result, nil
}

// PlaceMarketOrder implements Adapter, wrapped in the order breaker.
func (b *BreakerAdapter) PlaceMarketOrder(ctx context.Context, symbol string, side opportunity.Side, quantity float64) (*LegResult, error) {
	result, err := b.placeOrderCB.Execute(func() (*LegResult, error) {
		return b.inner.PlaceMarketOrder(ctx, symbol, side, quantity)
	})
	if err != nil {
		return nil, fmt.Errorf("place-order breaker %s: %w", symbol, err)
	}
	return result, nil
}

// SyncTime implements Adapter, passed through unwrapped: a single slow
// sync_time should not trip the breaker that guards the hot order path.
func (b *BreakerAdapter) SyncTime(ctx context.Context) (int64, error) {
	return b.inner.SyncTime(ctx)
}

// SymbolInfo implements Adapter, passed through unwrapped (cached by inner).
func (b *BreakerAdapter) SymbolInfo(ctx context.Context, symbol string) (SymbolInfo, error) {
	return b.inner.SymbolInfo(ctx, symbol)
}

// FeeDiscountActive implements Adapter, passed through unwrapped.
func (b *BreakerAdapter) FeeDiscountActive(ctx context.Context) (bool, error) {
	return b.inner.FeeDiscountActive(ctx)
}
