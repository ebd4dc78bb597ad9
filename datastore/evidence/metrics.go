package evidence

import (
	"github.com/blocknative/dinghy/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type JournalMetrics struct {
	Writes *prometheus.CounterVec
}

func (j *Journal) initMetrics() {
	j.m.Writes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinghy",
		Subsystem: "journal",
		Name:      "writes",
		Help:      "Number of journal writes by record kind and result.",
	}, []string{"kind", "result"})
}

func (j *Journal) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(j.m.Writes)
}
