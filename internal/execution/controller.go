package execution

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
)

// State is the controller's position in the admission/execution state
// machine (§5).
type State string

const (
	StateIdle          State = "IDLE"
	StateAdmitting     State = "ADMITTING"
	StateProbing       State = "PROBING"
	StateRevalidating  State = "REVALIDATING"
	StatePresync       State = "PRESYNC"
	StateExecuting     State = "EXECUTING"
	StateRecordingOK   State = "RECORDING_OK"
	StateRecordingFail State = "RECORDING_FAIL"
)

// Controller owns the single-flight admission gate and drives one
// candidate opportunity through PROBING, REVALIDATING, PRESYNC,
// EXECUTING and terminal recording. Grounded on the teacher's
// Executor (executionLoop/execute/Close lifecycle), generalized from a
// channel-driven loop to a synchronous Admit call so the caller gets
// the AdmissionResult directly, per §6's admission contract.
type Controller struct {
	adapter venue.Adapter
	cfg     Config
	logger  *zap.Logger

	probe       *FreshnessProbe
	revalidator *Revalidator
	sequencer   *LegSequencer
	recorder    *Recorder

	busy  atomic.Bool
	state atomic.Value // State

	confirm func(ctx context.Context, opp *opportunity.Opportunity) bool
}

// NewController wires a Controller against one venue adapter and sink.
func NewController(adapter venue.Adapter, sink Sink, cfg Config, logger *zap.Logger) *Controller {
	c := &Controller{
		adapter:     adapter,
		cfg:         cfg,
		logger:      logger,
		probe:       NewFreshnessProbe(adapter, cfg, logger),
		revalidator: NewRevalidator(adapter, cfg),
		sequencer:   NewLegSequencer(adapter, logger),
		recorder:    NewRecorder(sink, logger),
	}
	c.state.Store(StateIdle)
	return c
}

// SetConfirmFunc installs the manual-confirmation callback used when
// Config.RequireManualConfirm is set. confirm is given
// ManualConfirmDeadline to return true before the cycle is rejected
// UNCONFIRMED.
func (c *Controller) SetConfirmFunc(confirm func(ctx context.Context, opp *opportunity.Opportunity) bool) {
	c.confirm = confirm
}

// State reports the controller's current position in the state machine.
func (c *Controller) State() State {
	return c.state.Load().(State)
}

// Admit is the engine's single entry point (§6): it enforces the
// single-flight invariant, walks opp through PROBING, REVALIDATING,
// PRESYNC and EXECUTING, and returns synchronously once a terminal
// TradeRecord has been emitted.
func (c *Controller) Admit(ctx context.Context, opp *opportunity.Opportunity) AdmissionResult {
	OpportunitiesReceived.Inc()

	if !c.busy.CompareAndSwap(false, true) {
		AdmissionResultsTotal.WithLabelValues(string(RejectedBusy)).Inc()
		return RejectedBusy
	}
	defer func() {
		c.busy.Store(false)
		c.state.Store(StateIdle)
	}()

	c.state.Store(StateAdmitting)
	started := time.Now()

	if err := opp.Validate(); err != nil {
		c.logger.Warn("admission-rejected-malformed", zap.Error(err))
		c.recorder.Rejected(ctx, opp, 0, ErrMalformedCycle)
		AdmissionResultsTotal.WithLabelValues(string(RejectedMalformed)).Inc()
		return RejectedMalformed
	}

	if c.cfg.RequireManualConfirm && !c.awaitConfirmation(ctx, opp) {
		c.logger.Warn("admission-rejected-unconfirmed", zap.String("opportunity", opp.ID))
		c.recorder.Rejected(ctx, opp, opp.ExpectedProfitPct, ErrUnconfirmed)
		AdmissionResultsTotal.WithLabelValues(string(RejectedUnconfirmed)).Inc()
		return RejectedUnconfirmed
	}

	c.state.Store(StateProbing)
	cycleDeadline := time.Now().Add(c.cfg.CycleDeadline)
	snapshots, err := c.probe.Fetch(ctx, opp)
	if err != nil {
		c.logger.Warn("admission-rejected-stale", zap.Error(err))
		c.recorder.Rejected(ctx, opp, opp.ExpectedProfitPct, ErrStale)
		AdmissionResultsTotal.WithLabelValues(string(RejectedStale)).Inc()
		return RejectedStale
	}

	c.state.Store(StateRevalidating)
	revalidation, err := c.revalidator.Evaluate(ctx, opp, snapshots)
	if err != nil {
		kind, result := classifyRevalidationFailure(err)
		c.logger.Warn("admission-rejected-revalidation", zap.String("kind", string(kind)), zap.Error(err))
		expected := opp.ExpectedProfitPct
		if revalidation != nil {
			expected = revalidation.NetProfitPct
		}
		c.recorder.Rejected(ctx, opp, expected, kind)
		AdmissionResultsTotal.WithLabelValues(string(result)).Inc()
		return result
	}

	c.state.Store(StatePresync)
	tradeID := c.recorder.Attempt(ctx, opp, revalidation.NetProfitPct)

	if ctx.Err() != nil {
		c.logger.Warn("admission-cancelled-post-admit", zap.String("opportunity", opp.ID))
		recordCtx, recordCancel := context.WithTimeout(context.Background(), c.cfg.ProbeDeadline)
		c.recorder.Cancelled(recordCtx, tradeID, opp, revalidation.NetProfitPct, revalidation.FundingUsed, started)
		recordCancel()
		AdmissionResultsTotal.WithLabelValues(string(AdmittedFail)).Inc()
		return AdmittedFail
	}

	cycleCtx, cancel := context.WithDeadline(ctx, cycleDeadline)
	defer cancel()

	c.state.Store(StateExecuting)
	seq, execErr := c.sequencer.Execute(cycleCtx, opp, revalidation.FundingUsed)

	if cycleCtx.Err() != nil {
		CycleDeadlineBreachesTotal.Inc()
	}
	CycleDurationSeconds.Observe(time.Since(started).Seconds())

	for i, leg := range seq.Legs {
		result := "ok"
		if i+1 == seq.FailedLegIndex {
			result = "failed"
		}
		LegResultsTotal.WithLabelValues(legLabel(i), result).Inc()
		_ = leg
	}

	if execErr != nil {
		c.state.Store(StateRecordingFail)
		kind := classifyLegFailure(execErr)
		c.recorder.Failed(ctx, tradeID, opp, revalidation.NetProfitPct, seq, revalidation.FundingUsed, started, kind)
		AdmissionResultsTotal.WithLabelValues(string(AdmittedFail)).Inc()
		return AdmittedFail
	}

	c.state.Store(StateRecordingOK)
	c.recorder.Success(ctx, tradeID, opp, revalidation.NetProfitPct, seq.Ledger, revalidation.FundingUsed, started)
	AdmissionResultsTotal.WithLabelValues(string(AdmittedOK)).Inc()
	return AdmittedOK
}

// awaitConfirmation blocks for at most ManualConfirmDeadline waiting
// for the installed confirm callback to return true. With no callback
// installed, manual confirmation can never succeed.
func (c *Controller) awaitConfirmation(ctx context.Context, opp *opportunity.Opportunity) bool {
	if c.confirm == nil {
		return false
	}
	confirmCtx, cancel := context.WithTimeout(ctx, c.cfg.ManualConfirmDeadline)
	defer cancel()
	return c.confirm(confirmCtx, opp)
}

// classifyRevalidationFailure maps a Revalidator error to the
// ErrorKind/AdmissionResult pair recorded against it.
func classifyRevalidationFailure(err error) (ErrorKind, AdmissionResult) {
	var cycleErr *CycleError
	if as, ok := err.(*CycleError); ok {
		cycleErr = as
	}
	if cycleErr == nil {
		return ErrThinBook, RejectedThinBook
	}
	switch cycleErr.Kind {
	case ErrBelowThreshold:
		return ErrBelowThreshold, RejectedThreshold
	case ErrThinBook:
		return ErrThinBook, RejectedThinBook
	default:
		return cycleErr.Kind, RejectedThinBook
	}
}

// classifyLegFailure maps a sequencer error to the ErrorKind recorded
// on the FAILED TradeRecord.
func classifyLegFailure(err error) ErrorKind {
	var cycleErr *CycleError
	if as, ok := err.(*CycleError); ok {
		cycleErr = as
		return cycleErr.Kind
	}
	var adapterErr *venue.AdapterError
	if errors.As(err, &adapterErr) {
		switch adapterErr.Kind {
		case venue.ErrInsufficientBal:
			return ErrInsufficientBalance
		case venue.ErrPrecision:
			return ErrPrecision
		case venue.ErrTimeout:
			return ErrTimeout
		case venue.ErrClockSkew:
			return ErrClockSkew
		default:
			return ErrRejected
		}
	}
	return ErrRejected
}

func legLabel(i int) string {
	switch i {
	case 0:
		return "leg1"
	case 1:
		return "leg2"
	default:
		return "leg3"
	}
}
