package venue

import (
	"context"
	"sync"
	"time"

	"github.com/haliaxis/triarb/internal/opportunity"
)

// SimulatedAdapter is a deterministic in-memory Adapter for tests and the
// `simulate` CLI command, grounded on the teacher's configurable-error
// mock pattern (testutil.MockWalletClient's Set*/*Err fields).
type SimulatedAdapter struct {
	mu sync.Mutex

	name   string
	books  map[string]*OrderbookSnapshot
	fills  map[string]fillRule
	infos  map[string]SymbolInfo

	feeDiscountActive bool
	timeSkewMS        int64

	orderErr error // if set, PlaceMarketOrder always returns this error
}

type fillRule struct {
	// feePct is the fraction of notional taken as fee on this leg.
	feePct      float64
	feeCurrency string
}

// NewSimulatedAdapter builds an empty simulated adapter named name.
func NewSimulatedAdapter(name string) *SimulatedAdapter {
	return &SimulatedAdapter{
		name:  name,
		books: make(map[string]*OrderbookSnapshot),
		fills: make(map[string]fillRule),
		infos: make(map[string]SymbolInfo),
	}
}

// Name implements Adapter.
func (s *SimulatedAdapter) Name() string {
	return s.name
}

// SetOrderbook installs a deterministic snapshot for symbol.
func (s *SimulatedAdapter) SetOrderbook(symbol string, bids, asks []PriceLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[symbol] = &OrderbookSnapshot{
		Symbol:     symbol,
		Bids:       bids,
		Asks:       asks,
		CapturedAt: time.Now(),
	}
}

// SetFeeRule sets the fee percentage charged on fills of symbol.
func (s *SimulatedAdapter) SetFeeRule(symbol string, feePct float64, feeCurrency string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fills[symbol] = fillRule{feePct: feePct, feeCurrency: feeCurrency}
}

// SetSymbolInfo installs SymbolInfo for symbol.
func (s *SimulatedAdapter) SetSymbolInfo(info SymbolInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.FetchedAt = time.Now()
	s.infos[info.Symbol] = info
}

// SetFeeDiscountActive controls FeeDiscountActive's return value.
func (s *SimulatedAdapter) SetFeeDiscountActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeDiscountActive = active
}

// SetOrderError forces every subsequent PlaceMarketOrder call to fail with err.
func (s *SimulatedAdapter) SetOrderError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderErr = err
}

// GetOrderbook implements Adapter.
func (s *SimulatedAdapter) GetOrderbook(_ context.Context, symbol string, _ int) (*OrderbookSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[symbol]
	if !ok {
		return nil, NewAdapterError(ErrNoLiquidity, symbol, "no simulated book installed")
	}
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return nil, NewAdapterError(ErrNoLiquidity, symbol, "simulated book is empty")
	}

	// return a copy so callers can't mutate the fixture
	cp := *book
	cp.CapturedAt = time.Now()
	return &cp, nil
}

// PlaceMarketOrder implements Adapter with deterministic top-of-book fills.
func (s *SimulatedAdapter) PlaceMarketOrder(_ context.Context, symbol string, side opportunity.Side, quantity float64) (*LegResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orderErr != nil {
		return nil, s.orderErr
	}

	book, ok := s.books[symbol]
	if !ok {
		return nil, NewAdapterError(ErrRejected, symbol, "no simulated book installed")
	}

	rule := s.fills[symbol]

	var result LegResult
	result.Symbol = symbol
	result.Side = side
	result.FeeCurrency = rule.feeCurrency

	switch side {
	case opportunity.Buy:
		ask, ok := book.TopAsk()
		if !ok {
			return nil, NewAdapterError(ErrNoLiquidity, symbol, "no ask side")
		}
		base := quantity / ask.Price
		fee := base * rule.feePct
		result.FilledBase = base - fee
		result.CostQuote = quantity
		result.FeePaid = fee
	case opportunity.Sell:
		bid, ok := book.TopBid()
		if !ok {
			return nil, NewAdapterError(ErrNoLiquidity, symbol, "no bid side")
		}
		quote := quantity * bid.Price
		fee := quote * rule.feePct
		result.FilledBase = quantity
		result.CostQuote = quote - fee
		result.FeePaid = fee
	default:
		return nil, NewAdapterError(ErrRejected, symbol, "unknown side")
	}

	if result.FilledBase <= 0 {
		return nil, NewAdapterError(ErrRejected, symbol, "zero fill")
	}

	return &result, nil
}

// SyncTime implements Adapter.
func (s *SimulatedAdapter) SyncTime(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeSkewMS, nil
}

// SymbolInfo implements Adapter.
func (s *SimulatedAdapter) SymbolInfo(_ context.Context, symbol string) (SymbolInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.infos[symbol]
	if !ok {
		return SymbolInfo{Symbol: symbol, TickSize: 0.0001, LotStep: 0.0001, MinNotional: 0}, nil
	}
	return info, nil
}

// FeeDiscountActive implements Adapter.
func (s *SimulatedAdapter) FeeDiscountActive(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feeDiscountActive, nil
}
