package beacon_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/blocknative/dinghy/beacon"
	"github.com/blocknative/dinghy/beacon/mocks"
	"github.com/blocknative/dinghy/datastore"
	"github.com/blocknative/dinghy/structs"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/golang/mock/gomock"
	"github.com/lthibault/log"
	"github.com/stretchr/testify/require"
)

var nullLog = log.New(log.WithWriter(io.Discard))

func event(slot uint64, parent types.Hash, version string) structs.PayloadAttributesEvent {
	return structs.PayloadAttributesEvent{
		Version: version,
		Data: structs.PayloadAttributesEventData{
			ProposalSlot:      slot,
			ParentBlockNumber: slot - 1,
			ParentBlockHash:   parent,
			PayloadAttributes: structs.EventPayloadAttributes{Timestamp: slot * 12},
		},
	}
}

func TestIngestorCachesEvents(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache, err := datastore.NewAttributesCache(4)
	require.NoError(t, err)

	beaconMock := mocks.NewMockBeaconClient(ctrl)
	beaconMock.EXPECT().SubscribeToPayloadAttributesEvents(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(_ context.Context, events chan<- structs.PayloadAttributesEvent) <-chan struct{} {
			go func() {
				events <- event(10, types.Hash{0x01}, "capella")
				events <- event(0, types.Hash{0x02}, "capella")
				events <- event(11, types.Hash{}, "")
			}()
			return make(chan struct{})
		},
	)

	in := beacon.NewIngestor(nullLog, cache)

	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := in.Run(ctx, beaconMock)
		require.ErrorIs(t, err, context.Canceled)
	}()

	require.Eventually(t, func() bool { return in.Stats().Received == 3 }, time.Second, 5*time.Millisecond)

	stats := in.Stats()
	require.EqualValues(t, 3, stats.Cached)
	require.EqualValues(t, 11, stats.LastSlot)
	require.True(t, stats.Subscribed)

	pa, ok := cache.Get(structs.AttributesKey{ParentHash: types.Hash{0x01}, Slot: 10})
	require.True(t, ok)
	require.Equal(t, "capella", pa.Version)
	require.EqualValues(t, 9, pa.ParentBlockNumber)
	require.EqualValues(t, 120, pa.Timestamp)

	// genesis slot is a regular key
	_, ok = cache.Get(structs.AttributesKey{ParentHash: types.Hash{0x02}, Slot: 0})
	require.True(t, ok)

	// zero parent hash and missing version are still cached
	pa, ok = cache.Get(structs.AttributesKey{Slot: 11})
	require.True(t, ok)
	require.Equal(t, structs.ForkUnknown, pa.Fork())

	cancel()
}

func TestIngestorOverwritesSameKey(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := event(5, types.Hash{0x05}, "bellatrix")
	second := event(5, types.Hash{0x05}, "capella")

	cacheMock := mocks.NewMockAttributesCache(ctrl)
	gomock.InOrder(
		cacheMock.EXPECT().Put(first.Key(), first.Attributes()).Times(1),
		cacheMock.EXPECT().Put(second.Key(), second.Attributes()).Times(1),
	)

	beaconMock := mocks.NewMockBeaconClient(ctrl)
	beaconMock.EXPECT().SubscribeToPayloadAttributesEvents(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(_ context.Context, events chan<- structs.PayloadAttributesEvent) <-chan struct{} {
			go func() {
				events <- first
				events <- second
			}()
			return make(chan struct{})
		},
	)

	in := beacon.NewIngestor(nullLog, cacheMock)

	errC := make(chan error, 1)
	go func() { errC <- in.Run(ctx, beaconMock) }()

	require.Eventually(t, func() bool { return in.Stats().Cached == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errC, context.Canceled)
}

func TestIngestorStreamEnded(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	beaconMock := mocks.NewMockBeaconClient(ctrl)
	beaconMock.EXPECT().SubscribeToPayloadAttributesEvents(gomock.Any(), gomock.Any()).Return((<-chan struct{})(done)).Times(1)

	in := beacon.NewIngestor(nullLog, mocks.NewMockAttributesCache(ctrl))

	errC := make(chan error, 1)
	go func() { errC <- in.Run(ctx, beaconMock) }()

	require.Eventually(t, func() bool { return in.Stats().Subscribed }, time.Second, 5*time.Millisecond)
	close(done)
	require.Eventually(t, func() bool { return !in.Stats().Subscribed }, time.Second, 5*time.Millisecond)

	// the loop keeps running until cancelled
	select {
	case err := <-errC:
		t.Fatalf("ingestor returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.ErrorIs(t, <-errC, context.Canceled)
}
