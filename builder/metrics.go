package builder

import (
	"github.com/blocknative/dinghy/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type BuilderMetrics struct {
	BidCount    *prometheus.CounterVec
	RevealCount *prometheus.CounterVec
}

func (b *Builder) initMetrics() {
	b.m.BidCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinghy",
		Subsystem: "builder",
		Name:      "bids",
		Help:      "Number of bid requests by fork and result (ok, noPayload, logic, signing)",
	}, []string{"fork", "result"})
	b.m.RevealCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinghy",
		Subsystem: "builder",
		Name:      "reveals",
		Help:      "Number of payload reveals by fork and result (ok, unbound, forkMismatch)",
	}, []string{"fork", "result"})
}

func (b *Builder) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(b.m.BidCount, b.m.RevealCount)
}
