package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FRED fetch metrics
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "absrisk_fetch_total",
			Help: "Total number of series fetches",
		},
		[]string{"series_id", "status"}, // status: ok, failed
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "absrisk_fetch_duration_seconds",
			Help:    "Time taken to fetch a series from FRED",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"series_id"},
	)

	ObservationsFetched = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "absrisk_observations",
			Help: "Number of observations returned by the last fetch",
		},
		[]string{"series_id"},
	)

	HTTPRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "absrisk_http_retries_total",
			Help: "Total number of outbound HTTP retries",
		},
	)

	// Evaluation metrics
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "absrisk_evaluations_total",
			Help: "Total number of signal evaluations by recommendation level",
		},
		[]string{"level"},
	)

	EvaluationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "absrisk_evaluation_failures_total",
			Help: "Total number of evaluation passes that failed",
		},
	)

	LatestDelinquency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "absrisk_latest_delinquency_percent",
			Help: "Latest delinquency rate used by the evaluator",
		},
	)

	VehicleIndexChange = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "absrisk_vehicle_index_change_percent",
			Help: "Percent change between the two latest vehicle index observations",
		},
	)

	RiskFlag = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "absrisk_risk_flag",
			Help: "Risk flags of the last evaluation (1 raised, 0 clear)",
		},
		[]string{"flag"}, // flag: delinquency, decline
	)
)
