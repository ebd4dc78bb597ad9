//go:generate mockgen  -destination=./mocks/mocks.go -package=mocks github.com/blocknative/dinghy/beacon/client BeaconNode
package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/blocknative/dinghy/structs"
	"github.com/lthibault/log"
	uberatomic "go.uber.org/atomic"
)

var ErrNoBeaconNodes = errors.New("no beacon nodes configured")

type BeaconNode interface {
	SubscribeToPayloadAttributesEvents(ctx context.Context, payloadAttrC chan<- structs.PayloadAttributesEvent) <-chan struct{}
	Endpoint() string
}

// MultiBeaconClient fans the payload attributes streams of several beacon
// nodes into one channel.
type MultiBeaconClient struct {
	Log     log.Logger
	Clients []BeaconNode

	active uberatomic.Int64
}

func NewMultiBeaconClient(l log.Logger, clients []BeaconNode) *MultiBeaconClient {
	if l == nil {
		l = log.New()
	}
	return &MultiBeaconClient{Log: l.WithField("service", "multi-beacon client"), Clients: clients}
}

// SubscribeToPayloadAttributesEvents subscribes every node. The returned
// channel is closed once all subscriptions have stopped.
func (b *MultiBeaconClient) SubscribeToPayloadAttributesEvents(ctx context.Context, payloadAttrC chan<- structs.PayloadAttributesEvent) <-chan struct{} {
	done := make(chan struct{})
	if len(b.Clients) == 0 {
		b.Log.WithError(ErrNoBeaconNodes).Error("nothing to subscribe to")
		close(done)
		return done
	}

	var wg sync.WaitGroup
	for _, client := range b.Clients {
		wg.Add(1)
		b.active.Inc()

		go func(client BeaconNode) {
			defer wg.Done()
			defer b.active.Dec()

			<-client.SubscribeToPayloadAttributesEvents(ctx, payloadAttrC)
			if ctx.Err() == nil {
				b.Log.WithField("endpoint", client.Endpoint()).Warn("beacon node subscription ended")
			}
		}(client)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	return done
}

// Active returns the number of nodes whose subscription is still running.
func (b *MultiBeaconClient) Active() int64 {
	return b.active.Load()
}

func (b *MultiBeaconClient) Endpoint() string {
	endpoints := make([]string, 0, len(b.Clients))
	for _, c := range b.Clients {
		endpoints = append(endpoints, c.Endpoint())
	}
	return strings.Join(endpoints, ",")
}
