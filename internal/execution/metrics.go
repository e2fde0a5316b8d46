package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesReceived tracks opportunities handed to the controller.
	OpportunitiesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triarb_execution_opportunities_received_total",
		Help: "Total number of candidate opportunities received by the controller",
	})

	// AdmissionResultsTotal tracks the admission function's return code.
	AdmissionResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triarb_execution_admission_results_total",
			Help: "Total admission results by outcome",
		},
		[]string{"result"},
	)

	// CycleDurationSeconds tracks admission-start to end-of-legs latency
	// for cycles that reach EXECUTING.
	CycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triarb_execution_cycle_duration_seconds",
		Help:    "Duration from admission start to the end of leg execution",
		Buckets: prometheus.DefBuckets,
	})

	// CycleDeadlineBreachesTotal counts cycles exceeding the configured
	// timing floor.
	CycleDeadlineBreachesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triarb_execution_cycle_deadline_breaches_total",
		Help: "Total cycles whose PROBING-to-leg-3 duration exceeded the configured deadline",
	})

	// ProfitRealized tracks cumulative realized profit in C0 units.
	ProfitRealized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triarb_execution_profit_realized",
			Help: "Cumulative realized profit by funding currency",
		},
		[]string{"currency"},
	)

	// LegResultsTotal tracks per-leg outcomes by leg index and result.
	LegResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triarb_execution_leg_results_total",
			Help: "Total leg executions by leg index and result",
		},
		[]string{"leg", "result"},
	)

	// DesynchronizedTotal counts FAILED records where the account was left
	// holding a non-C0 position.
	DesynchronizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triarb_execution_desynchronized_total",
		Help: "Total FAILED cycles that left the account desynchronized",
	})
)
