package venue

import "fmt"

// ErrorKind classifies a venue-adapter failure. These are adapter-level
// failures, distinct from execution.ErrorKind which classifies cycle-level
// outcomes in the TradeRecord.
type ErrorKind string

const (
	ErrNoLiquidity        ErrorKind = "NO_LIQUIDITY"
	ErrRejected           ErrorKind = "REJECTED"
	ErrInsufficientBal    ErrorKind = "INSUFFICIENT_BALANCE"
	ErrPrecision          ErrorKind = "PRECISION"
	ErrTimeout            ErrorKind = "TIMEOUT"
	ErrClockSkew          ErrorKind = "CLOCK_SKEW"
)

// AdapterError is a venue-adapter error carrying a machine-readable kind
// alongside a human message and the symbol/order it concerns.
type AdapterError struct {
	Kind    ErrorKind
	Symbol  string
	OrderID string
	Message string
}

func (e *AdapterError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s: %s (order %s, kind %s)", e.Symbol, e.Message, e.OrderID, e.Kind)
	}
	return fmt.Sprintf("%s: %s (kind %s)", e.Symbol, e.Message, e.Kind)
}

// NewAdapterError builds an AdapterError.
func NewAdapterError(kind ErrorKind, symbol, message string) *AdapterError {
	return &AdapterError{Kind: kind, Symbol: symbol, Message: message}
}
