package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cacheTotal      *prometheus.CounterVec
	droppedTotal    prometheus.Counter
	archivedRows    *prometheus.CounterVec
	archiveErrors   *prometheus.CounterVec
	catalogSize     prometheus.Gauge
	catalogRuns     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder on reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundlens_upstream_requests_total",
				Help: "Total number of requests sent to mfapi",
			},
			[]string{"endpoint", "result"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundlens_upstream_request_duration_seconds",
				Help:    "Duration of mfapi requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundlens_cache_lookups_total",
				Help: "Cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		droppedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "fundlens_nav_samples_dropped_total",
				Help: "NAV samples rejected by the validity filter",
			},
		),
		archivedRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundlens_archive_rows_total",
				Help: "NAV rows written to the archive backend",
			},
			[]string{"backend"},
		),
		archiveErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundlens_archive_errors_total",
				Help: "Failed archive writes",
			},
			[]string{"backend"},
		),
		catalogSize: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fundlens_catalog_schemes",
				Help: "Number of schemes in the last refreshed catalog",
			},
		),
		catalogRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundlens_catalog_refresh_total",
				Help: "Catalog refresh runs by result",
			},
			[]string{"result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordUpstream records one mfapi call.
func (r *Recorder) RecordUpstream(endpoint string, seconds float64, err error) {
	r.upstreamTotal.WithLabelValues(endpoint, result(err)).Inc()
	r.upstreamLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordCache records a cache lookup.
func (r *Recorder) RecordCache(kind string, hit bool) {
	res := "miss"
	if hit {
		res = "hit"
	}
	r.cacheTotal.WithLabelValues(kind, res).Inc()
}

// RecordDropped counts samples excluded by validation.
func (r *Recorder) RecordDropped(n int) {
	if n > 0 {
		r.droppedTotal.Add(float64(n))
	}
}

// RecordArchive records an archive write.
func (r *Recorder) RecordArchive(backend string, rows int, err error) {
	if err != nil {
		r.archiveErrors.WithLabelValues(backend).Inc()
		return
	}
	r.archivedRows.WithLabelValues(backend).Add(float64(rows))
}

// RecordCatalogRefresh records a catalog warm-up run.
func (r *Recorder) RecordCatalogRefresh(rows int, err error) {
	r.catalogRuns.WithLabelValues(result(err)).Inc()
	if err == nil {
		r.catalogSize.Set(float64(rows))
	}
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
