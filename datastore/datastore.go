package datastore

import (
	"errors"
	"sync"

	"github.com/blocknative/dinghy/structs"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	DefaultAttributesCacheSize = 16
	DefaultPayloadCacheSize    = 10
)

var (
	ErrInvalidSize = errors.New("cache size must be positive")
	ErrNilContents = errors.New("nil payload contents")
	ErrNilPayload  = errors.New("payload contents without execution payload")
)

// AttributesCache keeps the most recent payload attributes per
// (parent hash, slot). Reads return copies.
type AttributesCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[structs.AttributesKey, structs.PayloadAttributes]

	m CacheMetrics
}

func NewAttributesCache(size int) (*AttributesCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	c := &AttributesCache{}
	c.initMetrics("attributes")

	lru, err := simplelru.NewLRU[structs.AttributesKey, structs.PayloadAttributes](size, nil)
	if err != nil {
		return nil, err
	}
	c.lru = lru
	return c, nil
}

// Put inserts or overwrites the record for key, evicting the least recently
// used key when full.
func (c *AttributesCache) Put(key structs.AttributesKey, pa structs.PayloadAttributes) {
	cp := pa.Copy()

	c.mu.Lock()
	evicted := c.lru.Add(key, cp)
	c.mu.Unlock()

	c.m.Ops.WithLabelValues("put").Inc()
	if evicted {
		c.m.Ops.WithLabelValues("evict").Inc()
	}
}

func (c *AttributesCache) Get(key structs.AttributesKey) (structs.PayloadAttributes, bool) {
	c.mu.Lock()
	pa, ok := c.lru.Get(key)
	c.mu.Unlock()

	if !ok {
		c.m.Ops.WithLabelValues("miss").Inc()
		return structs.PayloadAttributes{}, false
	}
	c.m.Ops.WithLabelValues("hit").Inc()
	return pa.Copy(), true
}

func (c *AttributesCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// PayloadVault holds the payloads committed to by issued bids, keyed by the
// hash tree root of the execution payload. Every entry is revealed at most once.
type PayloadVault struct {
	mu  sync.Mutex
	lru *simplelru.LRU[types.Hash, structs.PayloadContents]

	m CacheMetrics
}

func NewPayloadVault(size int) (*PayloadVault, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	v := &PayloadVault{}
	v.initMetrics("payloads")

	lru, err := simplelru.NewLRU[types.Hash, structs.PayloadContents](size, nil)
	if err != nil {
		return nil, err
	}
	v.lru = lru
	return v, nil
}

// Put stores contents under the root of its execution payload and returns it.
func (v *PayloadVault) Put(contents structs.PayloadContents) (types.Hash, error) {
	if contents == nil {
		return types.Hash{}, ErrNilContents
	}
	payload := contents.ExecutionPayload()
	if payload == nil {
		return types.Hash{}, ErrNilPayload
	}

	root, err := payload.HashTreeRoot()
	if err != nil {
		return types.Hash{}, err
	}

	v.mu.Lock()
	evicted := v.lru.Add(root, contents)
	v.mu.Unlock()

	v.m.Ops.WithLabelValues("put").Inc()
	if evicted {
		v.m.Ops.WithLabelValues("evict").Inc()
	}
	return root, nil
}

// Pop removes and returns the contents stored under root. A second Pop of the
// same root, or a Pop after eviction, reports false.
func (v *PayloadVault) Pop(root types.Hash) (structs.PayloadContents, bool) {
	v.mu.Lock()
	contents, ok := v.lru.Peek(root)
	if ok {
		v.lru.Remove(root)
	}
	v.mu.Unlock()

	if !ok {
		v.m.Ops.WithLabelValues("miss").Inc()
		return nil, false
	}
	v.m.Ops.WithLabelValues("hit").Inc()
	return contents, true
}

func (v *PayloadVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lru.Len()
}
