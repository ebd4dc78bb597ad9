package datastore

import (
	"github.com/blocknative/dinghy/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type CacheMetrics struct {
	Ops *prometheus.CounterVec
}

func newCacheOps(name string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "dinghy",
		Subsystem:   "datastore",
		Name:        "cacheOps",
		Help:        "Number of cache operations by type.",
		ConstLabels: prometheus.Labels{"cache": name},
	}, []string{"op"})
}

func (c *AttributesCache) initMetrics(name string) {
	c.m.Ops = newCacheOps(name)
}

func (c *AttributesCache) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(c.m.Ops)
}

func (v *PayloadVault) initMetrics(name string) {
	v.m.Ops = newCacheOps(name)
}

func (v *PayloadVault) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(v.m.Ops)
}
