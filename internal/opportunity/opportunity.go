// Package opportunity models a candidate triangular-arbitrage cycle handed
// to the execution engine by an external detector.
package opportunity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Side is the direction of a market order at the venue.
type Side string

const (
	// Buy spends quote currency to acquire base currency.
	Buy Side = "buy"
	// Sell spends base currency to acquire quote currency.
	Sell Side = "sell"
)

// Step is one of the three market orders that make up a cycle.
type Step struct {
	Symbol string // venue symbol, e.g. "KCS-USDT"
	Side   Side
}

// Opportunity is a candidate cycle: C0 -> C1 -> C2 -> C0.
type Opportunity struct {
	ID       string
	Exchange string
	Cycle    [3]string // currencies C0, C1, C2
	Steps    [3]Step   // step i acquires Cycle[i+1] from Cycle[i] (mod 3)

	InitialAmount float64 // desired funding quantity in C0

	// Fields reported by the detector, used only for reporting deltas.
	ExpectedProfitPct float64
	ExpectedFees      float64
	ExpectedSlippage  float64

	DetectedAt time.Time
}

// New builds an Opportunity with a fresh ID and detection timestamp.
func New(exchange string, cycle [3]string, steps [3]Step, initialAmount float64) *Opportunity {
	return &Opportunity{
		ID:            uuid.New().String(),
		Exchange:      exchange,
		Cycle:         cycle,
		Steps:         steps,
		InitialAmount: initialAmount,
		DetectedAt:    time.Now(),
	}
}

// Validate checks the cycle-closure invariant: the three symbols must form
// a closed triangle and funding must be positive. It does not touch the
// venue; it is a pure shape check run during ADMITTING.
func (o *Opportunity) Validate() error {
	if o.Cycle[0] == "" || o.Cycle[1] == "" || o.Cycle[2] == "" {
		return fmt.Errorf("malformed cycle: empty currency in %v", o.Cycle)
	}
	if o.Cycle[0] == o.Cycle[1] || o.Cycle[1] == o.Cycle[2] || o.Cycle[0] == o.Cycle[2] {
		return fmt.Errorf("malformed cycle: currencies not distinct in %v", o.Cycle)
	}
	for i, step := range o.Steps {
		if step.Symbol == "" {
			return fmt.Errorf("malformed cycle: empty symbol at step %d", i)
		}
		if step.Side != Buy && step.Side != Sell {
			return fmt.Errorf("malformed cycle: invalid side %q at step %d", step.Side, i)
		}

		base, quote, err := splitSymbol(step.Symbol)
		if err != nil {
			return fmt.Errorf("malformed cycle: step %d: %w", i, err)
		}

		// Buy spends quote currency to acquire base currency; Sell is
		// the reverse.
		in, out := quote, base
		if step.Side == Sell {
			in, out = base, quote
		}

		wantIn := o.Cycle[i]
		wantOut := o.Cycle[(i+1)%3]
		if in != wantIn || out != wantOut {
			return fmt.Errorf(
				"malformed cycle: step %d (%s, %s) produces %s->%s, cycle requires %s->%s",
				i, step.Symbol, step.Side, in, out, wantIn, wantOut,
			)
		}
	}
	if o.InitialAmount <= 0 {
		return fmt.Errorf("malformed cycle: initial_amount must be positive, got %f", o.InitialAmount)
	}
	return nil
}

// splitSymbol parses a "BASE-QUOTE" venue symbol.
func splitSymbol(symbol string) (base, quote string, err error) {
	parts := strings.SplitN(symbol, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("symbol %q is not in BASE-QUOTE form", symbol)
	}
	return parts[0], parts[1], nil
}

// String returns a human-readable representation for logging.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] %s %s->%s->%s->%s funding=%.8f expected_profit=%.4f%%",
		o.ID[:8], o.Exchange, o.Cycle[0], o.Cycle[1], o.Cycle[2], o.Cycle[0],
		o.InitialAmount, o.ExpectedProfitPct,
	)
}
