package api

import (
	"github.com/blocknative/dinghy/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type APIMetrics struct {
	ApiReqCounter *prometheus.CounterVec
	ApiReqTiming  *prometheus.HistogramVec
	BuilderTiming *prometheus.HistogramVec
}

func (api *API) initMetrics() {
	api.m.ApiReqCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinghy",
		Subsystem: "api",
		Name:      "reqcount",
		Help:      "Number of requests.",
	}, []string{"endpoint", "code", "reason"})

	api.m.ApiReqTiming = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dinghy",
		Subsystem: "api",
		Name:      "duration",
		Help:      "Duration of requests per endpoint",
	}, []string{"endpoint"})

	api.m.BuilderTiming = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dinghy",
		Subsystem: "api",
		Name:      "builderduration",
		Help:      "Duration of builder processing steps",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"function", "step", "error"})
}

func (api *API) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(api.m.ApiReqCounter, api.m.ApiReqTiming, api.m.BuilderTiming)
}
