package datastore_test

import (
	"sync"
	"testing"

	"github.com/blocknative/dinghy/datastore"
	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	"github.com/blocknative/dinghy/structs/forks/capella"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/stretchr/testify/require"
)

func TestAttributesCache_Evicts(t *testing.T) {
	t.Parallel()

	c, err := datastore.NewAttributesCache(2)
	require.NoError(t, err)

	k1 := structs.AttributesKey{ParentHash: types.Hash{0x01}, Slot: 100}
	k2 := structs.AttributesKey{ParentHash: types.Hash{0x02}, Slot: 100}
	k3 := structs.AttributesKey{ParentHash: types.Hash{0x03}, Slot: 101}

	c.Put(k1, structs.PayloadAttributes{Version: "capella", Slot: 100})
	c.Put(k2, structs.PayloadAttributes{Version: "capella", Slot: 100})
	c.Put(k3, structs.PayloadAttributes{Version: "capella", Slot: 101})

	_, ok := c.Get(k1)
	require.False(t, ok)
	_, ok = c.Get(k2)
	require.True(t, ok)
	_, ok = c.Get(k3)
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestAttributesCache_GetRefreshesRecency(t *testing.T) {
	t.Parallel()

	c, err := datastore.NewAttributesCache(2)
	require.NoError(t, err)

	k1 := structs.AttributesKey{ParentHash: types.Hash{0x01}, Slot: 1}
	k2 := structs.AttributesKey{ParentHash: types.Hash{0x02}, Slot: 1}
	k3 := structs.AttributesKey{ParentHash: types.Hash{0x03}, Slot: 2}

	c.Put(k1, structs.PayloadAttributes{Slot: 1})
	c.Put(k2, structs.PayloadAttributes{Slot: 1})

	_, ok := c.Get(k1)
	require.True(t, ok)

	c.Put(k3, structs.PayloadAttributes{Slot: 2})

	_, ok = c.Get(k1)
	require.True(t, ok)
	_, ok = c.Get(k2)
	require.False(t, ok)
}

func TestAttributesCache_OverwriteAndCopy(t *testing.T) {
	t.Parallel()

	c, err := datastore.NewAttributesCache(4)
	require.NoError(t, err)

	key := structs.AttributesKey{ParentHash: types.Hash{0x0a}, Slot: 5}
	c.Put(key, structs.PayloadAttributes{Version: "bellatrix", Timestamp: 1})
	c.Put(key, structs.PayloadAttributes{
		Version:     "capella",
		Timestamp:   2,
		Withdrawals: structs.Withdrawals{{Index: 1, Amount: 10}},
	})
	require.Equal(t, 1, c.Len())

	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "capella", got.Version)
	require.EqualValues(t, 2, got.Timestamp)

	got.Withdrawals[0].Amount = 99
	again, ok := c.Get(key)
	require.True(t, ok)
	require.EqualValues(t, 10, again.Withdrawals[0].Amount)
}

func TestAttributesCache_InvalidSize(t *testing.T) {
	t.Parallel()

	_, err := datastore.NewAttributesCache(0)
	require.ErrorIs(t, err, datastore.ErrInvalidSize)
	_, err = datastore.NewPayloadVault(-1)
	require.ErrorIs(t, err, datastore.ErrInvalidSize)
}

func TestPayloadVault_PopOnce(t *testing.T) {
	t.Parallel()

	v, err := datastore.NewPayloadVault(10)
	require.NoError(t, err)

	contents := bellatrixContents(1)
	root, err := v.Put(contents)
	require.NoError(t, err)

	expected, err := contents.Payload.HashTreeRoot()
	require.NoError(t, err)
	require.EqualValues(t, expected, root)

	got, ok := v.Pop(root)
	require.True(t, ok)
	require.Equal(t, structs.ForkBellatrix, got.Fork())
	require.Equal(t, contents.Payload, got.ExecutionPayload())

	_, ok = v.Pop(root)
	require.False(t, ok)
	require.Equal(t, 0, v.Len())
}

func TestPayloadVault_ConcurrentPop(t *testing.T) {
	t.Parallel()

	v, err := datastore.NewPayloadVault(10)
	require.NoError(t, err)

	root, err := v.Put(capellaContents(7))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := v.Pop(root); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestPayloadVault_Evicts(t *testing.T) {
	t.Parallel()

	v, err := datastore.NewPayloadVault(2)
	require.NoError(t, err)

	r1, err := v.Put(bellatrixContents(1))
	require.NoError(t, err)
	r2, err := v.Put(bellatrixContents(2))
	require.NoError(t, err)
	r3, err := v.Put(bellatrixContents(3))
	require.NoError(t, err)

	_, ok := v.Pop(r1)
	require.False(t, ok)
	_, ok = v.Pop(r2)
	require.True(t, ok)
	_, ok = v.Pop(r3)
	require.True(t, ok)
}

func TestPayloadVault_RejectsNil(t *testing.T) {
	t.Parallel()

	v, err := datastore.NewPayloadVault(2)
	require.NoError(t, err)

	_, err = v.Put(nil)
	require.ErrorIs(t, err, datastore.ErrNilContents)

	_, err = v.Put(bellatrix.PayloadContents{})
	require.Error(t, err)
}

func bellatrixContents(blockNumber uint64) bellatrix.PayloadContents {
	return bellatrix.PayloadContents{
		Payload: &bellatrix.ExecutionPayload{
			EpParentHash:   types.Hash{0x01},
			EpBlockNumber:  blockNumber,
			EpGasLimit:     structs.GasLimit,
			EpBlockHash:    structs.DummyBlockHash,
			EpTransactions: []hexutil.Bytes{{}},
		},
	}
}

func capellaContents(blockNumber uint64) capella.PayloadContents {
	return capella.PayloadContents{
		Payload: &capella.ExecutionPayload{
			ExecutionPayload: *bellatrixContents(blockNumber).Payload,
			EpWithdrawals:    structs.Withdrawals{},
		},
	}
}
