package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sharebox/sharebox"
	"github.com/sharebox/sharebox/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: "ok"},
		{err: sharebox.ErrUnauthorized, want: "unauthorized"},
		{err: fmt.Errorf("get: %w", sharebox.ErrNotFound), want: "not_found"},
		{err: fmt.Errorf("put: %w", sharebox.ErrTimeout), want: "timeout"},
		{err: context.DeadlineExceeded, want: "timeout"},
		{err: sharebox.ErrStorageWrite, want: "error"},
		{err: errors.New("boom"), want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.Outcome(tt.err))
		})
	}
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)

	m.ObserveUpload(metrics.OutcomeOK, 10)
	m.ObserveUpload(metrics.OutcomeOK, 5)
	m.ObserveUpload(metrics.OutcomeUnauthorized, 0)
	m.ObserveRetrieval(metrics.OutcomeNotFound)

	expected := `
# HELP sharebox_http_upload_bytes_total Bytes accepted by successful uploads.
# TYPE sharebox_http_upload_bytes_total counter
sharebox_http_upload_bytes_total 15
# HELP sharebox_http_uploads_total Upload requests by outcome.
# TYPE sharebox_http_uploads_total counter
sharebox_http_uploads_total{outcome="ok"} 2
sharebox_http_uploads_total{outcome="unauthorized"} 1
# HELP sharebox_http_retrievals_total Retrieval requests by outcome.
# TYPE sharebox_http_retrievals_total counter
sharebox_http_retrievals_total{outcome="not_found"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"sharebox_http_upload_bytes_total",
		"sharebox_http_uploads_total",
		"sharebox_http_retrievals_total",
	)
	assert.NoError(t, err)
}

func TestMetrics_ObserveBackend(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)

	m.ObserveBackend("put_object", nil, 10*time.Millisecond)
	m.ObserveBackend("get_object", sharebox.ErrNotFound, time.Millisecond)
	m.ObserveBackend("get_object", context.DeadlineExceeded, time.Second)

	count, err := testutil.GatherAndCount(reg, "sharebox_backend_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMustNewMetrics_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := metrics.MustNewMetrics(reg)
	second := metrics.MustNewMetrics(reg)

	first.ObserveRetrieval(metrics.OutcomeOK)
	second.ObserveRetrieval(metrics.OutcomeOK)

	expected := `
# HELP sharebox_http_retrievals_total Retrieval requests by outcome.
# TYPE sharebox_http_retrievals_total counter
sharebox_http_retrievals_total{outcome="ok"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sharebox_http_retrievals_total"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveBackend("put_object", nil, time.Second)
		m.ObserveUpload(metrics.OutcomeOK, 1)
		m.ObserveRetrieval(metrics.OutcomeOK)
	})
}
