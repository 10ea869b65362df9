package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Timer metrics
	PhaseCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pomodoro_phase_completions_total",
			Help: "Total completed timer phases",
		},
		[]string{"phase"},
	)

	RemainingSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pomodoro_remaining_seconds",
			Help: "Seconds left in the current phase",
		},
	)

	// Rewards metrics
	PointsAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pomodoro_points_awarded_total",
			Help: "Total points awarded for completed work phases",
		},
	)

	PointsBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pomodoro_points_balance",
			Help: "Current points balance",
		},
	)

	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pomodoro_purchases_total",
			Help: "Shop purchase attempts by result",
		},
		[]string{"result"},
	)

	// Persistence metrics
	PersistenceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pomodoro_persistence_errors_total",
			Help: "Failed persistence operations",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		PhaseCompletionsTotal,
		RemainingSeconds,
		PointsAwardedTotal,
		PointsBalance,
		PurchasesTotal,
		PersistenceErrorsTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
