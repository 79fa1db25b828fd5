// Package telemetry exposes prometheus metrics about series recomputes.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pmcharts/pmc/core/pmc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pmc"

// Recompute result label values.
const (
	ResultValid = "valid"
	ResultEmpty = "empty"
)

// Manager holds the recompute metrics.
type Manager struct {
	// counters
	CounterRecompute *prometheus.CounterVec
	CounterSkipped   prometheus.Counter

	// gauges
	GaugeDays         prometheus.Gauge
	GaugeObservations prometheus.Gauge

	// histograms
	HistRecomputeDuration prometheus.Histogram
}

// NewManager creates the recompute metrics on the given registerer.
func NewManager(reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRecompute: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_total",
			Help:      "The total number of series recomputes",
		}, []string{"result"}),
		CounterSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_observations_total",
			Help:      "Observations left out of a recompute because they were filtered, out of range or unusable",
		}),
		GaugeDays: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_days",
			Help:      "Number of days covered by the current series",
		}),
		GaugeObservations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_observations",
			Help:      "Number of observations accumulated into the current series",
		}),
		HistRecomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Time spent recomputing the series",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// NewTestManagerAndRegistry returns a manager bound to a fresh registry.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(reg), reg
}

// Observe records one recompute. It matches the engine's observer hook.
func (m *Manager) Observe(stats pmc.RecomputeStats) {
	result := ResultValid
	if !stats.Range.Valid() {
		result = ResultEmpty
	}
	m.CounterRecompute.WithLabelValues(result).Inc()
	m.CounterSkipped.Add(float64(stats.Skipped))
	m.GaugeDays.Set(float64(stats.Days))
	m.GaugeObservations.Set(float64(stats.Observations))
	m.HistRecomputeDuration.Observe(stats.Elapsed.Seconds())
}

// SetupPrometheus returns a registry carrying the Go runtime and process collectors.
func SetupPrometheus() *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promRegistry
}

// Handler serves the registry in the prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
