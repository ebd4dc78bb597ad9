package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/blocknative/dinghy/metrics"
	"github.com/blocknative/dinghy/structs"
	"github.com/lthibault/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/r3labs/sse/v2"
	backoff "gopkg.in/cenkalti/backoff.v1"
)

const (
	PayloadAttributesTopic = "payload_attributes"

	DefaultReconnectDelay    = time.Second
	DefaultMaxReconnectDelay = 30 * time.Second
)

var ErrInvalidEndpoint = errors.New("invalid beacon endpoint")

type Config struct {
	// ReconnectDelay is the wait before the first resubscription. It doubles on
	// every consecutive failure up to MaxReconnectDelay and resets once an event
	// is received.
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	// NoReconnect stops the subscription on the first stream error.
	NoReconnect bool
}

type BeaconMetrics struct {
	Events     *prometheus.CounterVec
	Reconnects prometheus.Counter
}

type beaconClient struct {
	beaconEndpoint *url.URL
	log            log.Logger
	c              Config
	m              BeaconMetrics
}

func NewBeaconClient(l log.Logger, endpoint string, c Config) (*beaconClient, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, err.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, endpoint)
	}

	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.MaxReconnectDelay < c.ReconnectDelay {
		c.MaxReconnectDelay = DefaultMaxReconnectDelay
	}

	bc := &beaconClient{
		beaconEndpoint: u,
		log:            l.WithField("beaconEndpoint", u.String()),
		c:              c,
	}

	bc.initMetrics()

	return bc, nil
}

func (b *beaconClient) eventsURL() string {
	return fmt.Sprintf("%s/eth/v1/events?topics=%s", b.beaconEndpoint.String(), PayloadAttributesTopic)
}

// SubscribeToPayloadAttributesEvents streams payload_attributes events into
// payloadAttrC. Events that cannot be decoded are logged and skipped. The
// returned channel is closed once the subscription has stopped.
func (b *beaconClient) SubscribeToPayloadAttributesEvents(ctx context.Context, payloadAttrC chan<- structs.PayloadAttributesEvent) <-chan struct{} {
	logger := b.log.WithField("method", "SubscribeToPayloadAttributesEvents")
	done := make(chan struct{})

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = b.c.ReconnectDelay
	retry.MaxInterval = b.c.MaxReconnectDelay
	retry.Multiplier = 2
	retry.RandomizationFactor = 0
	retry.MaxElapsedTime = 0
	retry.Reset()

	go func() {
		defer close(done)
		defer logger.Debug("payload attributes subscription stopped")

		for {
			received := false

			client := sse.NewClient(b.eventsURL())
			client.ReconnectStrategy = &backoff.StopBackOff{}

			err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
				if len(msg.Data) == 0 {
					return
				}
				if len(msg.Event) > 0 && string(msg.Event) != PayloadAttributesTopic {
					return
				}

				var ev structs.PayloadAttributesEvent
				if err := json.Unmarshal(msg.Data, &ev); err != nil {
					b.m.Events.WithLabelValues("malformed").Inc()
					logger.WithError(err).Warn("failed to decode payload attributes event")
					return
				}
				b.m.Events.WithLabelValues("ok").Inc()
				if !received {
					received = true
					retry.Reset()
				}

				select {
				case <-ctx.Done():
				case payloadAttrC <- ev:
				}
			})

			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}

			if err == nil {
				err = errors.New("stream closed")
			}

			if b.c.NoReconnect {
				logger.WithError(err).Error("beacon subscription failed, not reconnecting")
				return
			}

			delay := retry.NextBackOff()
			logger.WithError(err).WithField("delay", delay.String()).Warn("beacon subscription failed, restarting...")
			b.m.Reconnects.Inc()

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()

	return done
}

func (b *beaconClient) Endpoint() string {
	return b.beaconEndpoint.String()
}

func (b *beaconClient) initMetrics() {
	b.m.Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "dinghy",
		Subsystem:   "beacon",
		Name:        "events",
		Help:        "Number of payload attributes events received",
		ConstLabels: prometheus.Labels{"endpoint": b.beaconEndpoint.Redacted()},
	}, []string{"result"})

	b.m.Reconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "dinghy",
		Subsystem:   "beacon",
		Name:        "reconnects",
		Help:        "Number of event stream resubscriptions",
		ConstLabels: prometheus.Labels{"endpoint": b.beaconEndpoint.Redacted()},
	})
}

func (b *beaconClient) AttachMetrics(m *metrics.Metrics) error {
	return m.Register(b.m.Events, b.m.Reconnects)
}
