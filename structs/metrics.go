package structs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusObserver interface {
	WithLabelValues(lvs ...string) prometheus.Observer
}

// MetricGroup collects step timings of a single request so they can be
// labeled with the request outcome once it is known.
type MetricGroup struct {
	mu    sync.Mutex
	steps []step
}

type step struct {
	function, name string
	took           time.Duration
}

func NewMetricGroup(capacity int) *MetricGroup {
	return &MetricGroup{steps: make([]step, 0, capacity)}
}

// AppendSince records the time elapsed since start for function's step.
func (mg *MetricGroup) AppendSince(start time.Time, function, name string) {
	took := time.Since(start)

	mg.mu.Lock()
	mg.steps = append(mg.steps, step{function: function, name: name, took: took})
	mg.mu.Unlock()
}

func (mg *MetricGroup) Len() int {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return len(mg.steps)
}

// Observe flushes every step into o, labeled function, step and error.
// A nil err yields an empty error label.
func (mg *MetricGroup) Observe(o PrometheusObserver, err error) {
	var reason string
	if err != nil {
		reason = err.Error()
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()

	for _, s := range mg.steps {
		o.WithLabelValues(s.function, s.name, reason).Observe(s.took.Seconds())
	}
}
