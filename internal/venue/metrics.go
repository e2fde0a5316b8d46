package venue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrderbookFetchesTotal tracks orderbook fetches by venue and result.
	OrderbookFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triarb_venue_orderbook_fetches_total",
			Help: "Total orderbook fetches by venue and result",
		},
		[]string{"venue", "result"},
	)

	// OrderbookFetchDurationSeconds tracks orderbook fetch latency.
	OrderbookFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triarb_venue_orderbook_fetch_duration_seconds",
			Help:    "Duration of orderbook fetch requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"venue"},
	)

	// OrdersPlacedTotal tracks market order placements by venue and result.
	OrdersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triarb_venue_orders_placed_total",
			Help: "Total market orders placed by venue and result",
		},
		[]string{"venue", "side", "result"},
	)

	// OrderDurationSeconds tracks time-to-terminal-state for market orders.
	OrderDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triarb_venue_order_duration_seconds",
			Help:    "Duration from order submission to terminal state",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"venue"},
	)

	// TimeSkewMS tracks the last-measured clock skew per venue.
	TimeSkewMS = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "triarb_venue_time_skew_ms",
			Help: "Last-measured clock skew against the venue, in milliseconds",
		},
		[]string{"venue"},
	)

	// CircuitBreakerTrips tracks breaker state transitions.
	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triarb_venue_circuit_breaker_trips_total",
			Help: "Total circuit breaker state transitions by venue and new state",
		},
		[]string{"venue", "state"},
	)
)
