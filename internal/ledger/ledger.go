// Package ledger holds the realized per-leg accounting for one cycle
// traversal, using fixed-scale decimals so P&L never accumulates binary
// float error across three sequential conversions.
package ledger

import "github.com/shopspring/decimal"

// AmountLedger is an ordered mapping from cycle position to the realized
// amount of the currency produced by that leg. Position i is expressed in
// currency C_{(i+1) mod 3}. It is created empty, appended to exactly once
// per completed leg, and read-only thereafter.
type AmountLedger struct {
	slots [3]decimal.Decimal
	count int
}

// New returns an empty ledger.
func New() *AmountLedger {
	return &AmountLedger{}
}

// Append records the realized output of the next leg. It panics if called
// more than three times; the sequencer never does this since it aborts
// after the third leg.
func (l *AmountLedger) Append(amount decimal.Decimal) {
	if l.count >= 3 {
		panic("ledger: all three slots already populated")
	}
	l.slots[l.count] = amount
	l.count++
}

// Len returns the number of populated slots.
func (l *AmountLedger) Len() int {
	return l.count
}

// At returns the amount at position i. It panics if the slot is not yet
// populated; callers must check Len first.
func (l *AmountLedger) At(i int) decimal.Decimal {
	if i < 0 || i >= l.count {
		panic("ledger: slot not populated")
	}
	return l.slots[i]
}

// Last returns the most recently populated slot and whether any slot is
// populated.
func (l *AmountLedger) Last() (decimal.Decimal, bool) {
	if l.count == 0 {
		return decimal.Zero, false
	}
	return l.slots[l.count-1], true
}

// Complete reports whether all three legs produced a realized amount.
func (l *AmountLedger) Complete() bool {
	return l.count == 3
}
