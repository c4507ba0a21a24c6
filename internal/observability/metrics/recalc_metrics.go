// Package metrics exposes Prometheus instruments for the catalog
// recalculation worker.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecalcMetrics captures recalculation worker health signals.
type RecalcMetrics struct {
	jobFinished     *prometheus.CounterVec
	jobDuration     prometheus.Observer
	productFailures prometheus.Counter
	batchesFlushed  prometheus.Counter
}

var (
	recalcMetricsOnce sync.Once
	recalcMetrics     *RecalcMetrics
)

// Recalc returns the singleton recalculation metrics registry.
func Recalc() *RecalcMetrics {
	recalcMetricsOnce.Do(func() {
		recalcMetrics = newRecalcMetrics(prometheus.DefaultRegisterer)
	})
	return recalcMetrics
}

func newRecalcMetrics(registerer prometheus.Registerer) *RecalcMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	jobFinished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aurum_recalc_jobs_finished_total",
		Help: "Recalculation jobs finished by terminal status.",
	}, []string{"status"})
	jobDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aurum_recalc_job_duration_seconds",
		Help:    "Wall-clock duration of recalculation jobs.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800},
	})
	productFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aurum_recalc_product_failures_total",
		Help: "Products that failed pricing during recalculation.",
	})
	batchesFlushed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aurum_recalc_batches_flushed_total",
		Help: "Price update batches written by the recalculation worker.",
	})

	registerer.MustRegister(jobFinished, jobDuration, productFailures, batchesFlushed)

	return &RecalcMetrics{
		jobFinished:     jobFinished,
		jobDuration:     jobDuration,
		productFailures: productFailures,
		batchesFlushed:  batchesFlushed,
	}
}

// IncJobFinished increments the terminal-status counter for a job.
func (m *RecalcMetrics) IncJobFinished(status string) {
	if m == nil || m.jobFinished == nil {
		return
	}
	m.jobFinished.WithLabelValues(status).Inc()
}

// ObserveJobDuration records job wall-clock duration.
func (m *RecalcMetrics) ObserveJobDuration(d time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.Observe(d.Seconds())
}

// AddProductFailures adds to the per-product failure counter.
func (m *RecalcMetrics) AddProductFailures(n int) {
	if m == nil || m.productFailures == nil || n <= 0 {
		return
	}
	m.productFailures.Add(float64(n))
}

// IncBatchFlushed counts one persisted price batch.
func (m *RecalcMetrics) IncBatchFlushed() {
	if m == nil || m.batchesFlushed == nil {
		return
	}
	m.batchesFlushed.Inc()
}
