package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/blocknative/dinghy/metrics"
)

func TestInstanceLabel(t *testing.T) {
	t.Parallel()

	m := metrics.NewMetrics("a1")
	c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dinghy", Name: "probe"})
	require.NoError(t, m.Register(c))
	require.Error(t, m.Register(c))
	c.Inc()

	sm := http.NewServeMux()
	m.AttachHandlers(sm)

	w := httptest.NewRecorder()
	sm.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.EqualValues(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `dinghy_probe{instance="a1"} 1`)
}
