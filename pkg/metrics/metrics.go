// Package metrics provides Prometheus instrumentation for datastream
// lifecycle operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels used on the call counter.
const (
	OpCreate = "create"
	OpGet    = "get"
	OpGetAll = "getAll"
	OpDelete = "delete"
	OpUpdate = "update"
)

// Recorder tracks datastream API call counts and create/delete latency.
//
// The latency gauges hold the duration of the most recently successful call
// of each kind. Concurrent successful calls may race on the write; Prometheus
// gauge writes are atomic, so readers always observe some completed call's
// value, never a torn one.
type Recorder struct {
	// Calls counts operation invocations by operation label.
	Calls *prometheus.CounterVec

	// CallErrors counts operations that terminated in failure, across all
	// operation kinds.
	CallErrors prometheus.Counter

	// CreateLatencyMs holds the duration of the last successful create,
	// measured from just before coordinator initialization through store
	// persistence.
	CreateLatencyMs prometheus.Gauge

	// DeleteLatencyMs holds the duration of the last successful delete.
	DeleteLatencyMs prometheus.Gauge
}

// NewRecorder creates a Recorder registered against reg.
//
// Registration is idempotent: creating a second Recorder against the same
// registerer reuses the already-registered collectors instead of failing,
// so per-request construction of the owning component stays safe.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamd_datastream_calls_total",
			Help: "Total datastream API calls by operation",
		},
		[]string{"operation"},
	)
	callErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streamd_datastream_call_errors_total",
			Help: "Total datastream API calls that terminated in failure",
		},
	)
	createLatency := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamd_datastream_create_latency_ms",
			Help: "Duration of the last successful datastream create in milliseconds",
		},
	)
	deleteLatency := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamd_datastream_delete_latency_ms",
			Help: "Duration of the last successful datastream delete in milliseconds",
		},
	)

	return &Recorder{
		Calls:           registerCounterVec(reg, calls),
		CallErrors:      registerCollector(reg, callErrors).(prometheus.Counter),
		CreateLatencyMs: registerCollector(reg, createLatency).(prometheus.Gauge),
		DeleteLatencyMs: registerCollector(reg, deleteLatency).(prometheus.Gauge),
	}
}

// IncCall records an invocation of the given operation.
func (r *Recorder) IncCall(op string) {
	if r != nil {
		r.Calls.WithLabelValues(op).Inc()
	}
}

// IncError records a failed operation.
func (r *Recorder) IncError() {
	if r != nil {
		r.CallErrors.Inc()
	}
}

// SetCreateLatency records the duration of a successful create.
func (r *Recorder) SetCreateLatency(d time.Duration) {
	if r != nil {
		r.CreateLatencyMs.Set(millis(d))
	}
}

// SetDeleteLatency records the duration of a successful delete.
func (r *Recorder) SetDeleteLatency(d time.Duration) {
	if r != nil {
		r.DeleteLatencyMs.Set(millis(d))
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// registerCollector registers c, returning the already-registered collector
// if one with the same descriptor exists. Panics on any other registration
// failure (expected during initialization only).
func registerCollector(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	return registerCollector(reg, c).(*prometheus.CounterVec)
}
