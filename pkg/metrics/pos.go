package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records sale submissions and catalog refreshes.
type POSMetrics struct {
	submitDuration *prometheus.HistogramVec
	submitSuccess  prometheus.Counter
	submitFailure  *prometheus.CounterVec
	refreshTotal   *prometheus.CounterVec
	catalogSize    prometheus.Gauge
}

// NewPOSMetrics registers the terminal metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_submit_duration_seconds",
		Help:    "Duration of sale submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	submitSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sale_submit_success_total",
		Help: "Successfully submitted sales.",
	})
	submitFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_submit_failure_total",
		Help: "Failed sale submissions by error code.",
	}, []string{"code"})
	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_refresh_total",
		Help: "Catalog refresh attempts by outcome.",
	}, []string{"outcome"})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Products currently held in the catalog cache.",
	})
	reg.MustRegister(submitDuration, submitSuccess, submitFailure, refreshTotal, catalogSize)
	return &POSMetrics{
		submitDuration: submitDuration,
		submitSuccess:  submitSuccess,
		submitFailure:  submitFailure,
		refreshTotal:   refreshTotal,
		catalogSize:    catalogSize,
	}
}

// ObserveSubmit records one submission attempt.
func (m *POSMetrics) ObserveSubmit(duration time.Duration, outcome string) {
	if m == nil || m.submitDuration == nil {
		return
	}
	m.submitDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSubmitSuccess counts a successful submission.
func (m *POSMetrics) IncSubmitSuccess() {
	if m == nil || m.submitSuccess == nil {
		return
	}
	m.submitSuccess.Inc()
}

// IncSubmitFailure counts a failed submission by error code.
func (m *POSMetrics) IncSubmitFailure(code string) {
	if m == nil || m.submitFailure == nil {
		return
	}
	m.submitFailure.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncRefresh counts one catalog refresh attempt.
func (m *POSMetrics) IncRefresh(outcome string) {
	if m == nil || m.refreshTotal == nil {
		return
	}
	m.refreshTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// SetCatalogSize records the current product count.
func (m *POSMetrics) SetCatalogSize(count int) {
	if m == nil || m.catalogSize == nil {
		return
	}
	m.catalogSize.Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
