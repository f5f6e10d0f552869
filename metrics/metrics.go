// Package metrics exposes Prometheus collectors for the share gateway.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sharebox/sharebox"
)

const namespace = "sharebox"

// Metrics reports upload, retrieval and backend activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	backendDuration *prometheus.HistogramVec
	uploads         *prometheus.CounterVec
	retrievals      *prometheus.CounterVec
	uploadBytes     prometheus.Counter
}

var _ sharebox.Observer = (*Metrics)(nil)

// MustNewMetrics registers the collectors with reg, reusing collectors that
// are already registered under the same names. Any other registration error
// panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	backendDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "operation_duration_seconds",
			Help:      "Duration of object store calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "status"},
	)
	uploads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "uploads_total",
			Help:      "Upload requests by outcome.",
		},
		[]string{"outcome"},
	)
	retrievals := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "retrievals_total",
			Help:      "Retrieval requests by outcome.",
		},
		[]string{"outcome"},
	)
	uploadBytes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "upload_bytes_total",
			Help:      "Bytes accepted by successful uploads.",
		},
	)

	register := func(c prometheus.Collector) prometheus.Collector {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				return already.ExistingCollector
			}
			panic(err)
		}
		return c
	}

	return &Metrics{
		backendDuration: register(backendDuration).(*prometheus.HistogramVec),
		uploads:         register(uploads).(*prometheus.CounterVec),
		retrievals:      register(retrievals).(*prometheus.CounterVec),
		uploadBytes:     register(uploadBytes).(prometheus.Counter),
	}
}

// ObserveBackend implements sharebox.Observer.
func (m *Metrics) ObserveBackend(op string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendDuration.WithLabelValues(op, Outcome(err)).Observe(duration.Seconds())
}

// ObserveUpload counts one upload request and, on success, its size.
func (m *Metrics) ObserveUpload(outcome string, size int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK && size > 0 {
		m.uploadBytes.Add(float64(size))
	}
}

// ObserveRetrieval counts one retrieval request.
func (m *Metrics) ObserveRetrieval(outcome string) {
	if m == nil {
		return
	}
	m.retrievals.WithLabelValues(outcome).Inc()
}

// Outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNotFound     = "not_found"
	OutcomeTooLarge     = "too_large"
	OutcomeTimeout      = "timeout"
	OutcomeError        = "error"
)

// Outcome maps an error to a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, sharebox.ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, sharebox.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, sharebox.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
