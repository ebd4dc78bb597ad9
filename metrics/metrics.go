package metrics

import (
	"errors"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "expvar"
)

// Metrics is the process wide registry. Every collector registered through
// it carries the instance label.
type Metrics struct {
	registry   *prometheus.Registry
	registerer prometheus.Registerer
}

func NewMetrics(instance string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:   reg,
		registerer: prometheus.WrapRegistererWith(prometheus.Labels{"instance": instance}, reg),
	}
}

// RegisterExpvar exposes expvar published values (badger publishes its
// counters this way) as prometheus metrics.
func (m *Metrics) RegisterExpvar(exports map[string]*prometheus.Desc) error {
	return m.registerer.Register(collectors.NewExpvarCollector(exports))
}

// Register registers every collector it can and reports the ones it could not.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	var errs []error
	for _, c := range cs {
		if err := m.registerer.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AttachHandlers serves /metrics and the pprof endpoints on sm.
func (m *Metrics) AttachHandlers(sm *http.ServeMux) {
	sm.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	sm.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	sm.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	sm.HandleFunc("/debug/pprof/trace", pprof.Trace)
	sm.HandleFunc("/debug/pprof/profile", pprof.Profile)
	sm.HandleFunc("/debug/pprof/", pprof.Index)
}
