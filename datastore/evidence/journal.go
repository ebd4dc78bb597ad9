package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/blocknative/dinghy/structs"
	"github.com/flashbots/go-boost-utils/types"
	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	"github.com/lthibault/log"
	uberatomic "go.uber.org/atomic"
	"golang.org/x/exp/constraints"
)

const (
	maxSlotLagDelivered = 350
	defaultQueueSize    = 1024
	defaultLimit        = 100
)

var ErrJournalClosed = errors.New("journal closed")

// BidTrace records a bid handed to a proposer.
type BidTrace struct {
	Slot           uint64          `json:"slot,string"`
	Fork           string          `json:"fork"`
	ParentHash     types.Hash      `json:"parent_hash"`
	BlockHash      types.Hash      `json:"block_hash"`
	BlockNumber    uint64          `json:"block_number,string"`
	PayloadRoot    types.Hash      `json:"payload_root"`
	ProposerPubkey types.PublicKey `json:"proposer_pubkey"`
	Value          types.U256Str   `json:"value"`
	TimestampMs    uint64          `json:"timestamp_ms,string"`
}

// DeliveredTrace records a payload revealed to a proposer.
type DeliveredTrace struct {
	Slot          uint64        `json:"slot,string"`
	Fork          string        `json:"fork"`
	ProposerIndex uint64        `json:"proposer_index,string"`
	ParentHash    types.Hash    `json:"parent_hash"`
	BlockHash     types.Hash    `json:"block_hash"`
	BlockNumber   uint64        `json:"block_number,string"`
	PayloadRoot   types.Hash    `json:"payload_root"`
	FeeRecipient  types.Address `json:"fee_recipient"`
	NumTx         uint64        `json:"num_tx,string"`
	TimestampMs   uint64        `json:"timestamp_ms,string"`
}

type DeliveredQuery struct {
	Slot        structs.Slot
	PayloadRoot types.Hash
	Cursor      uint64
	Limit       uint64
}

func (q DeliveredQuery) HasSlot() bool {
	return q.Slot != 0
}

func (q DeliveredQuery) HasPayloadRoot() bool {
	return q.PayloadRoot != types.Hash{}
}

func DeliveredKey(slot structs.Slot) ds.Key {
	return ds.NewKey(fmt.Sprintf("delivered-%d", slot))
}

// DeliveredRootKey indexes deliveries by payload root. Every payload shares
// the same dummy block hash, so the root is the only unique handle.
func DeliveredRootKey(root types.Hash) ds.Key {
	return ds.NewKey(fmt.Sprintf("delivered-root-%s", root.String()))
}

var deliveredHeadKey = ds.NewKey("delivered-head")

func BidsPrefix(slot structs.Slot) ds.Key {
	return ds.NewKey(fmt.Sprintf("bids/%d", slot))
}

func BidKey(slot structs.Slot, root types.Hash) ds.Key {
	return BidsPrefix(slot).ChildString(root.String())
}

type ttlPutter interface {
	PutWithTTL(context.Context, ds.Key, []byte, time.Duration) error
}

type record struct {
	bid       *BidTrace
	delivered *DeliveredTrace
}

// Journal is an append-only audit log of issued bids and delivered payloads.
// Writes are queued and applied by a single worker started with Run; a full
// queue drops the record.
type Journal struct {
	l     log.Logger
	store ds.Datastore
	ttl   time.Duration

	records  chan record
	headSlot uberatomic.Uint64
	closed   uberatomic.Bool

	m JournalMetrics
}

func NewJournal(l log.Logger, store ds.Datastore, ttl time.Duration, queueSize int) *Journal {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if l == nil {
		l = log.New()
	}
	j := &Journal{
		l:       l.WithField("service", "journal"),
		store:   store,
		ttl:     ttl,
		records: make(chan record, queueSize),
	}
	j.initMetrics()
	return j
}

// Run restores the delivered head from the store, then applies queued
// records until ctx is done and flushes what is left.
func (j *Journal) Run(ctx context.Context) {
	if err := j.restoreHead(ctx); err != nil {
		j.l.WithError(err).Warn("failed to restore delivered head")
	}

	for {
		select {
		case <-ctx.Done():
			j.flush()
			return
		case r := <-j.records:
			j.apply(context.Background(), r)
		}
	}
}

func (j *Journal) flush() {
	for {
		select {
		case r := <-j.records:
			j.apply(context.Background(), r)
		default:
			return
		}
	}
}

func (j *Journal) apply(ctx context.Context, r record) {
	var (
		err  error
		kind string
	)
	switch {
	case r.bid != nil:
		kind = "bid"
		err = j.putBid(ctx, *r.bid)
	case r.delivered != nil:
		kind = "delivered"
		err = j.putDelivered(ctx, *r.delivered)
	default:
		return
	}

	if err != nil {
		j.m.Writes.WithLabelValues(kind, "error").Inc()
		j.l.WithError(err).WithField("kind", kind).Warn("failed to write journal record")
		return
	}
	j.m.Writes.WithLabelValues(kind, "ok").Inc()
}

func (j *Journal) enqueue(r record, kind string) {
	if j.closed.Load() {
		return
	}
	select {
	case j.records <- r:
	default:
		j.m.Writes.WithLabelValues(kind, "dropped").Inc()
		j.l.WithField("kind", kind).Debug("journal queue full, record dropped")
	}
}

func (j *Journal) AddBid(bt BidTrace) {
	j.enqueue(record{bid: &bt}, "bid")
}

func (j *Journal) AddDelivered(dt DeliveredTrace) {
	j.enqueue(record{delivered: &dt}, "delivered")
}

func (j *Journal) put(ctx context.Context, key ds.Key, value []byte) error {
	if tp, ok := j.store.(ttlPutter); ok && j.ttl > 0 {
		return tp.PutWithTTL(ctx, key, value, j.ttl)
	}
	return j.store.Put(ctx, key, value)
}

func (j *Journal) putBid(ctx context.Context, bt BidTrace) error {
	data, err := json.Marshal(bt)
	if err != nil {
		return err
	}
	return j.put(ctx, BidKey(structs.Slot(bt.Slot), bt.PayloadRoot), data)
}

func (j *Journal) putDelivered(ctx context.Context, dt DeliveredTrace) error {
	data, err := json.Marshal(dt)
	if err != nil {
		return err
	}

	slot := structs.Slot(dt.Slot)
	if err := j.put(ctx, DeliveredRootKey(dt.PayloadRoot), DeliveredKey(slot).Bytes()); err != nil {
		return err
	}
	if err := j.put(ctx, DeliveredKey(slot), data); err != nil {
		return err
	}

	// only the Run worker advances the head
	if dt.Slot <= j.headSlot.Load() {
		return nil
	}
	if err := j.put(ctx, deliveredHeadKey, []byte(strconv.FormatUint(dt.Slot, 10))); err != nil {
		return err
	}
	j.headSlot.Store(dt.Slot)
	return nil
}

func (j *Journal) restoreHead(ctx context.Context) error {
	data, err := j.store.Get(ctx, deliveredHeadKey)
	if errors.Is(err, ds.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	head, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("malformed delivered head %q: %w", data, err)
	}
	if head > j.headSlot.Load() {
		j.headSlot.Store(head)
	}
	return nil
}

func (j *Journal) HeadSlot() uint64 {
	return j.headSlot.Load()
}

func (j *Journal) GetBids(ctx context.Context, slot structs.Slot) ([]BidTrace, error) {
	res, err := j.store.Query(ctx, query.Query{Prefix: BidsPrefix(slot).String()})
	if err != nil {
		return nil, err
	}
	defer res.Close()

	bids := []BidTrace{}
	for r := range res.Next() {
		if r.Error != nil {
			return nil, r.Error
		}
		var bt BidTrace
		if err := json.Unmarshal(r.Value, &bt); err != nil {
			return nil, err
		}
		bids = append(bids, bt)
	}
	return bids, nil
}

func (j *Journal) GetDelivered(ctx context.Context, q DeliveredQuery) ([]DeliveredTrace, error) {
	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	var key ds.Key
	switch {
	case q.HasSlot():
		key = DeliveredKey(q.Slot)
	case q.HasPayloadRoot():
		rawKey, err := j.store.Get(ctx, DeliveredRootKey(q.PayloadRoot))
		if errors.Is(err, ds.ErrNotFound) {
			return []DeliveredTrace{}, nil
		} else if err != nil {
			return nil, err
		}
		key = ds.NewKey(string(rawKey))
	default:
		start := j.headSlot.Load()
		if q.Cursor != 0 {
			start = min(start, q.Cursor)
		}
		return j.getLatestDelivered(ctx, start, int(limit))
	}

	data, err := j.store.Get(ctx, key)
	if errors.Is(err, ds.ErrNotFound) {
		return []DeliveredTrace{}, nil
	} else if err != nil {
		return nil, err
	}

	var dt DeliveredTrace
	if err := json.Unmarshal(data, &dt); err != nil {
		return nil, err
	}
	return []DeliveredTrace{dt}, nil
}

func (j *Journal) getLatestDelivered(ctx context.Context, start uint64, limit int) ([]DeliveredTrace, error) {
	el := []DeliveredTrace{}
	for slot := start; ; slot-- {
		data, err := j.store.Get(ctx, DeliveredKey(structs.Slot(slot)))
		switch {
		case errors.Is(err, ds.ErrNotFound):
		case err != nil:
			return el, err
		default:
			var dt DeliveredTrace
			if err := json.Unmarshal(data, &dt); err != nil {
				return el, err
			}
			el = append(el, dt)
			if len(el) >= limit {
				return el, nil
			}
		}

		if slot == 0 || start-slot >= maxSlotLagDelivered {
			return el, nil
		}
	}
}

// Close stops accepting records and closes the underlying store. Records
// still queued are lost unless Run has flushed them.
func (j *Journal) Close() error {
	if !j.closed.CompareAndSwap(false, true) {
		return ErrJournalClosed
	}
	return j.store.Close()
}

func min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
