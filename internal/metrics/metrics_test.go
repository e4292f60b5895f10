package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveScan("recorded")
	m.ObserveScan("recorded")
	m.ObserveScan("invalid_token")
	m.ObserveVerification(domain.TokenKindBooth, true)
	m.ObserveVerification(domain.TokenKindNone, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scans.WithLabelValues("recorded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("invalid_token")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("booth", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("none", "false")))
}

func TestMetrics_Requests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", 200, 15*time.Millisecond)
	m.ObserveRequest("POST", 422, time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "expopass_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) }, "duplicate registration must fail loudly")
}
