package execution

import "fmt"

// ErrorKind classifies why a cycle did not reach SUCCESS, surfaced in
// TradeRecord.ErrorKind. Distinct from venue.ErrorKind, which classifies
// a single adapter call's failure.
type ErrorKind string

const (
	// Input errors: no venue calls made.
	ErrMalformedCycle       ErrorKind = "MALFORMED_CYCLE"
	ErrCurrencyNotSupported ErrorKind = "CURRENCY_NOT_SUPPORTED"

	// Pre-admission failures: aborted before leg 1.
	ErrStale          ErrorKind = "STALE"
	ErrThinBook       ErrorKind = "THIN_BOOK"
	ErrBelowThreshold ErrorKind = "BELOW_THRESHOLD"
	ErrUnconfirmed    ErrorKind = "UNCONFIRMED"
	ErrBusy           ErrorKind = "BUSY"

	// Mid-cycle failures: at least one leg submitted.
	ErrRejected            ErrorKind = "REJECTED"
	ErrInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	ErrPrecision           ErrorKind = "PRECISION"
	ErrTimeout             ErrorKind = "TIMEOUT"
	ErrClockSkew           ErrorKind = "CLOCK_SKEW"
	ErrZeroFill            ErrorKind = "ZERO_FILL"

	// Post-cycle errors: cycle completed but recording failed.
	ErrRecordEmitFailed ErrorKind = "RECORD_EMIT_FAILED"
)

// AdmissionResult is returned synchronously to the caller of the
// opportunity-intake function (§6).
type AdmissionResult string

const (
	AdmittedOK               AdmissionResult = "EXECUTED_OK"
	AdmittedFail             AdmissionResult = "EXECUTED_FAIL"
	RejectedBusy             AdmissionResult = "REJECTED_BUSY"
	RejectedStale            AdmissionResult = "REJECTED_STALE"
	RejectedThreshold        AdmissionResult = "REJECTED_THRESHOLD"
	RejectedThinBook         AdmissionResult = "REJECTED_THIN_BOOK"
	RejectedMalformed        AdmissionResult = "REJECTED_MALFORMED"
	RejectedUnconfirmed      AdmissionResult = "REJECTED_UNCONFIRMED"
)

// CycleError is returned by the pre-admission pipeline (Revalidator,
// admission gate) to carry a specific ErrorKind up to the caller and
// into the FAILED TradeRecord.
type CycleError struct {
	Kind    ErrorKind
	Message string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newCycleError(kind ErrorKind, format string, args ...any) *CycleError {
	return &CycleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
