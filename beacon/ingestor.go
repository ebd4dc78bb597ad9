//go:generate mockgen  -destination=./mocks/mocks.go -package=mocks github.com/blocknative/dinghy/beacon AttributesCache,BeaconClient
package beacon

import (
	"context"

	"github.com/blocknative/dinghy/metrics"
	"github.com/blocknative/dinghy/structs"
	"github.com/lthibault/log"
	"github.com/prometheus/client_golang/prometheus"
	uberatomic "go.uber.org/atomic"
)

type AttributesCache interface {
	Put(structs.AttributesKey, structs.PayloadAttributes)
}

type BeaconClient interface {
	SubscribeToPayloadAttributesEvents(ctx context.Context, payloadAttrC chan<- structs.PayloadAttributesEvent) <-chan struct{}
}

type IngestorStats struct {
	Received   uint64       `json:"received"`
	Cached     uint64       `json:"cached"`
	LastSlot   structs.Slot `json:"last_slot"`
	Subscribed bool         `json:"subscribed"`
}

// Ingestor keeps the attributes cache warm from the beacon event stream.
type Ingestor struct {
	Log   log.Logger
	cache AttributesCache

	received   uberatomic.Uint64
	cached     uberatomic.Uint64
	lastSlot   uberatomic.Uint64
	subscribed uberatomic.Bool

	m IngestorMetrics
}

func NewIngestor(l log.Logger, cache AttributesCache) *Ingestor {
	in := &Ingestor{
		Log:   l.With(log.F{"subService": "attributes-ingestor"}),
		cache: cache,
	}
	in.initMetrics()
	return in
}

// Run consumes payload attributes events until ctx is done. When every
// upstream subscription has ended Run keeps waiting for ctx, so the service
// goes on serving whatever is left in the cache.
func (in *Ingestor) Run(ctx context.Context, client BeaconClient) error {
	logger := in.Log.WithField("method", "Run")
	defer logger.Debug("ingestor loop stopped")

	c := make(chan structs.PayloadAttributesEvent)
	done := client.SubscribeToPayloadAttributesEvents(ctx, c)
	in.subscribed.Store(true)

	for {
		select {
		case <-ctx.Done():
			in.subscribed.Store(false)
			return ctx.Err()
		case <-done:
			done = nil
			in.subscribed.Store(false)
			logger.Error("payload attributes stream ended, attributes will go stale")
		case ev := <-c:
			in.process(logger, ev)
		}
	}
}

func (in *Ingestor) process(logger log.Logger, ev structs.PayloadAttributesEvent) {
	in.received.Inc()

	key := ev.Key()
	in.cache.Put(key, ev.Attributes())
	in.cached.Inc()
	in.m.Events.WithLabelValues("cached").Inc()

	for {
		last := in.lastSlot.Load()
		if uint64(key.Slot) <= last || in.lastSlot.CompareAndSwap(last, uint64(key.Slot)) {
			break
		}
	}
	in.m.LastSlot.Set(float64(in.lastSlot.Load()))

	logger.With(ev).Debug("payload attributes cached")
}

func (in *Ingestor) Stats() IngestorStats {
	return IngestorStats{
		Received:   in.received.Load(),
		Cached:     in.cached.Load(),
		LastSlot:   structs.Slot(in.lastSlot.Load()),
		Subscribed: in.subscribed.Load(),
	}
}

type IngestorMetrics struct {
	Events   *prometheus.CounterVec
	LastSlot prometheus.Gauge
}

func (in *Ingestor) initMetrics() {
	in.m.Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinghy",
		Subsystem: "ingestor",
		Name:      "events",
		Help:      "Number of payload attributes events processed",
	}, []string{"result"})

	in.m.LastSlot = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dinghy",
		Subsystem: "ingestor",
		Name:      "lastSlot",
		Help:      "Highest proposal slot seen on the event stream",
	})
}

func (in *Ingestor) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(in.m.Events, in.m.LastSlot)
}
