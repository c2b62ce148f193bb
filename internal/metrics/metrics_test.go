package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.ReadFailed("currentPrice")
	m.ReadFailed("currentPrice")
	m.ReadFailed("allowance")
	m.TxFinished("mint", "reverted")
	m.Refreshed("full")

	require.Equal(t, 2.0, testutil.ToFloat64(m.ReadFailures.WithLabelValues("currentPrice")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ReadFailures.WithLabelValues("allowance")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TxOutcomes.WithLabelValues("mint", "reverted")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.TxOutcomes.WithLabelValues("approve", "confirmed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues("full")))
}

func TestLockedGauge(t *testing.T) {
	m := NewMetrics()
	require.Equal(t, 0.0, testutil.ToFloat64(m.Locked))
	m.ObserveLocked(true)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Locked))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ReadFailed("locked")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, string(body), `dragonfire_read_failures_total{field="locked"} 1`)
}

func TestMetricsAreIsolated(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ReadFailed("isActive")
	require.Equal(t, 0.0, testutil.ToFloat64(b.ReadFailures.WithLabelValues("isActive")))
}
