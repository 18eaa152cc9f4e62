// Package metrics defines the Prometheus collectors for scoring and history
// and exposes an HTTP handler for scraping.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors on a private registry
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration prometheus.Histogram
	HistoryErrorsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "veritas_predictions_total",
				Help: "Total scoring calls by result (FAKE, REAL, invalid).",
			},
			[]string{"result"},
		),
		PredictionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "veritas_prediction_duration_seconds",
				Help:    "Scoring latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		HistoryErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "veritas_history_errors_total",
				Help: "History store failures by operation (append, query, aggregate).",
			},
			[]string{"op"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.PredictionsTotal,
		m.PredictionDuration,
		m.HistoryErrorsTotal,
	)

	return m
}

// ObservePrediction records one scoring call
func (m *Metrics) ObservePrediction(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(result).Inc()
	m.PredictionDuration.Observe(elapsed.Seconds())
}

// HistoryError records a failed history operation
func (m *Metrics) HistoryError(op string) {
	if m == nil {
		return
	}
	m.HistoryErrorsTotal.WithLabelValues(op).Inc()
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr in the background
func (m *Metrics) StartServer(addr string) (shutdown func(context.Context) error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
