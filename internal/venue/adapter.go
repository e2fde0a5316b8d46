// Package venue defines the uniform interface the execution engine uses to
// talk to one centralized exchange, plus a REST implementation and an
// in-memory simulated implementation for tests and dry-runs.
package venue

import (
	"context"
	"time"

	"github.com/haliaxis/triarb/internal/opportunity"
)

// OrderbookSnapshot is the top-of-book view of one symbol at a point in time.
type OrderbookSnapshot struct {
	Symbol     string
	Bids       []PriceLevel
	Asks       []PriceLevel
	CapturedAt time.Time
	Inverted   bool // true if this snapshot was fetched as the inverse pair
}

// PriceLevel is one level of depth on one side of a book.
type PriceLevel struct {
	Price float64
	Size  float64
}

// TopBid returns the best bid, or false if the book has no bids.
func (s *OrderbookSnapshot) TopBid() (PriceLevel, bool) {
	if len(s.Bids) == 0 {
		return PriceLevel{}, false
	}
	return s.Bids[0], true
}

// TopAsk returns the best ask, or false if the book has no asks.
func (s *OrderbookSnapshot) TopAsk() (PriceLevel, bool) {
	if len(s.Asks) == 0 {
		return PriceLevel{}, false
	}
	return s.Asks[0], true
}

// LegResult is the realized outcome of one market order.
type LegResult struct {
	Symbol      string
	Side        opportunity.Side
	FilledBase  float64 // base currency transacted
	CostQuote   float64 // quote currency transacted (received on sell, spent on buy)
	FeePaid     float64
	FeeCurrency string
	WallclockMS int64
}

// SymbolInfo is venue-reported precision and minimum-size metadata.
type SymbolInfo struct {
	Symbol        string
	TickSize      float64
	LotStep       float64
	MinNotional   float64
	FetchedAt     time.Time
}

// Adapter is the uniform contract the engine requires from one venue. The
// only two methods required to be high-throughput/parallel-safe are
// GetOrderbook and PlaceMarketOrder.
type Adapter interface {
	// GetOrderbook fetches top-of-book (and depth additional levels) for
	// symbol. Fails with ErrNoLiquidity if the market is not open.
	GetOrderbook(ctx context.Context, symbol string, depth int) (*OrderbookSnapshot, error)

	// PlaceMarketOrder submits a market order and blocks until the order
	// reaches a terminal state. quantity is in quote currency for Buy,
	// base currency for Sell. Fails with ErrRejected, ErrInsufficientBal,
	// ErrPrecision, or ErrTimeout.
	PlaceMarketOrder(ctx context.Context, symbol string, side opportunity.Side, quantity float64) (*LegResult, error)

	// SyncTime recomputes the server/client clock offset and stores it for
	// subsequent request signing. Returns the measured drift in milliseconds.
	SyncTime(ctx context.Context) (driftMS int64, err error)

	// SymbolInfo returns tick/lot/min-notional metadata for symbol.
	SymbolInfo(ctx context.Context, symbol string) (SymbolInfo, error)

	// FeeDiscountActive reports whether the configured fee-discount token
	// balance currently grants the discounted taker fee.
	FeeDiscountActive(ctx context.Context) (bool, error)

	// Name identifies the venue, e.g. "kucoin".
	Name() string
}
