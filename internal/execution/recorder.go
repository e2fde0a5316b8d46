package execution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/ledger"
	"github.com/haliaxis/triarb/internal/opportunity"
)

// Status is a TradeRecord's lifecycle stage.
type Status string

const (
	StatusAttempt Status = "ATTEMPT"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// TradeRecord is the durable, append-only audit trail of one admitted
// cycle (§4.5). An ATTEMPT record is emitted synchronously at
// admission; exactly one terminal SUCCESS or FAILED record follows it.
type TradeRecord struct {
	TradeID  string
	Ts       time.Time
	Exchange string
	Cycle    [3]string

	Status Status

	Initial float64
	Final   float64

	ExpectedProfitPct float64
	ActualProfit      float64
	ActualProfitPct   float64
	FeesPaid          float64

	DurationMS int64

	ErrorKind          *ErrorKind
	FailedLegIndex     int // 1-based failed leg; 0 if rejected pre-admission; -1 if no leg failed
	Desynchronized     bool
	CancelledPostAdmit bool
}

// Sink is the durable-storage contract a Recorder writes through.
// Implementations must not block the cycle on slow I/O; callers are
// expected to give Record a bounded context.
type Sink interface {
	Record(ctx context.Context, record *TradeRecord) error
	Close() error
}

// Recorder emits the ATTEMPT/SUCCESS/FAILED TradeRecord trail for one
// cycle traversal, grounded on the teacher's Storage.StoreOpportunity
// call sites threaded through the executor.
type Recorder struct {
	sink   Sink
	logger *zap.Logger
}

// NewRecorder builds a recorder writing through sink.
func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	return &Recorder{sink: sink, logger: logger}
}

// Attempt emits the ATTEMPT record at admission and returns its trade
// ID so the terminal record can reference the same row.
func (r *Recorder) Attempt(ctx context.Context, opp *opportunity.Opportunity, expectedProfitPct float64) string {
	tradeID := uuid.New().String()
	record := &TradeRecord{
		TradeID:           tradeID,
		Ts:                time.Now(),
		Exchange:          opp.Exchange,
		Cycle:             opp.Cycle,
		Status:            StatusAttempt,
		Initial:           opp.InitialAmount,
		ExpectedProfitPct: expectedProfitPct,
		FailedLegIndex:    -1,
	}
	if err := r.sink.Record(ctx, record); err != nil {
		r.logger.Error("attempt-record-emit-failed", zap.String("trade-id", tradeID), zap.Error(err))
	}
	return tradeID
}

// Success emits the terminal SUCCESS record once leg 3 completes.
func (r *Recorder) Success(ctx context.Context, tradeID string, opp *opportunity.Opportunity, expectedProfitPct float64, amounts *ledger.AmountLedger, fundingUsed float64, started time.Time) *TradeRecord {
	final, _ := amounts.Last()
	finalF, _ := final.Float64()

	record := &TradeRecord{
		TradeID:           tradeID,
		Ts:                time.Now(),
		Exchange:          opp.Exchange,
		Cycle:             opp.Cycle,
		Status:            StatusSuccess,
		Initial:           fundingUsed,
		Final:             finalF,
		ExpectedProfitPct: expectedProfitPct,
		ActualProfit:      finalF - fundingUsed,
		ActualProfitPct:   (finalF - fundingUsed) / fundingUsed * 100,
		DurationMS:        time.Since(started).Milliseconds(),
		FailedLegIndex:    -1,
	}

	ProfitRealized.WithLabelValues(opp.Cycle[0]).Add(record.ActualProfit)

	if err := r.sink.Record(ctx, record); err != nil {
		r.logger.Error("success-record-emit-failed", zap.String("trade-id", tradeID), zap.Error(err))
	}
	return record
}

// Failed emits the terminal FAILED record when a cycle aborts before
// reaching SUCCESS. feesPaid sums only the fees actually realized by
// legs that completed; no synthetic fee is charged for legs never
// submitted.
func (r *Recorder) Failed(ctx context.Context, tradeID string, opp *opportunity.Opportunity, expectedProfitPct float64, seq *SequenceResult, fundingUsed float64, started time.Time, kind ErrorKind) *TradeRecord {
	var finalF float64
	if last, ok := seq.Ledger.Last(); ok {
		finalF, _ = last.Float64()
	}

	var feesPaid float64
	for _, leg := range seq.Legs {
		feesPaid += leg.FeePaid
	}

	record := &TradeRecord{
		TradeID:           tradeID,
		Ts:                time.Now(),
		Exchange:          opp.Exchange,
		Cycle:             opp.Cycle,
		Status:            StatusFailed,
		Initial:           fundingUsed,
		Final:             finalF,
		ExpectedProfitPct: expectedProfitPct,
		FeesPaid:          feesPaid,
		DurationMS:        time.Since(started).Milliseconds(),
		ErrorKind:         &kind,
		FailedLegIndex:    seq.FailedLegIndex,
		Desynchronized:    seq.Desynchronized,
	}

	if seq.Desynchronized {
		DesynchronizedTotal.Inc()
	}

	if err := r.sink.Record(ctx, record); err != nil {
		r.logger.Error("failed-record-emit-failed", zap.String("trade-id", tradeID), zap.Error(err))
	}
	return record
}

// Cancelled emits a FAILED record for a cycle that was admitted (an
// ATTEMPT record already written by Attempt) but whose caller context
// was cancelled before leg 1 was submitted. No legs were touched, so
// FailedLegIndex is 0 and Desynchronized is always false.
func (r *Recorder) Cancelled(ctx context.Context, tradeID string, opp *opportunity.Opportunity, expectedProfitPct float64, fundingUsed float64, started time.Time) *TradeRecord {
	kind := ErrRejected
	record := &TradeRecord{
		TradeID:            tradeID,
		Ts:                 time.Now(),
		Exchange:           opp.Exchange,
		Cycle:              opp.Cycle,
		Status:             StatusFailed,
		Initial:            fundingUsed,
		ExpectedProfitPct:  expectedProfitPct,
		DurationMS:         time.Since(started).Milliseconds(),
		ErrorKind:          &kind,
		FailedLegIndex:     0,
		CancelledPostAdmit: true,
	}
	if err := r.sink.Record(ctx, record); err != nil {
		r.logger.Error("cancelled-record-emit-failed", zap.String("trade-id", tradeID), zap.Error(err))
	}
	return record
}

// Rejected emits a FAILED record for a cycle that never reached
// admission proper (malformed input, stale book, below threshold,
// thin book, or an unconfirmed manual gate) — no legs were submitted,
// so Desynchronized is always false and FailedLegIndex is 0 (§8
// property 1: populated slots + 1, with zero slots populated).
func (r *Recorder) Rejected(ctx context.Context, opp *opportunity.Opportunity, expectedProfitPct float64, kind ErrorKind) *TradeRecord {
	tradeID := uuid.New().String()
	record := &TradeRecord{
		TradeID:           tradeID,
		Ts:                time.Now(),
		Exchange:          opp.Exchange,
		Cycle:             opp.Cycle,
		Status:            StatusFailed,
		Initial:           opp.InitialAmount,
		ExpectedProfitPct: expectedProfitPct,
		ErrorKind:         &kind,
		FailedLegIndex:    0,
	}
	if err := r.sink.Record(ctx, record); err != nil {
		r.logger.Error("rejected-record-emit-failed", zap.String("trade-id", tradeID), zap.Error(err))
	}
	return record
}
