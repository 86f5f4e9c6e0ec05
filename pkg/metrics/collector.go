// Package metrics exposes Prometheus collectors for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fvalenzuela1/botarb/internal/session"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of processed updates labeled by kind and status",
		},
		[]string{"kind", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	modeTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_mode_transitions_total",
			Help: "Total number of session mode transitions",
		},
		[]string{"from", "to"},
	)
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbitrage_calculations_total",
			Help: "Total number of arbitrage calculations labeled by formula and status",
		},
		[]string{"formula", "status"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
)

func init() {
	session.RegisterModeRecorder(RecordModeTransition)
}

// RecordUpdate increments the update counter and records duration.
func RecordUpdate(kind, status string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	updatesTotal.WithLabelValues(kind, status).Inc()
	updateDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordModeTransition tracks session mode changes.
func RecordModeTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	modeTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordCalculation counts formula evaluations.
func RecordCalculation(formula, status string) {
	if formula == "" {
		formula = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	calculationsTotal.WithLabelValues(formula, status).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	if code == "" {
		code = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(code, severity).Inc()
}
