package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocknative/dinghy/datastore/evidence"
	"github.com/blocknative/dinghy/structs"
	"github.com/lthibault/log"
)

type Journal interface {
	AddBid(evidence.BidTrace)
	AddDelivered(evidence.DeliveredTrace)
}

// Builder exposes the two builder API operations on top of a BidFactory and
// the payload vault it commits to.
type Builder struct {
	l       log.Logger
	factory *BidFactory
	vault   PayloadVault
	journal Journal

	m BuilderMetrics
}

// NewBuilder returns a Builder. journal may be nil.
func NewBuilder(l log.Logger, factory *BidFactory, vault PayloadVault, journal Journal) *Builder {
	b := &Builder{
		l:       l,
		factory: factory,
		vault:   vault,
		journal: journal,
	}
	b.initMetrics()
	return b
}

// GetHeader is called by a block proposer and returns a signed bid for the
// requested slot and parent hash.
func (b *Builder) GetHeader(ctx context.Context, m *structs.MetricGroup, uc structs.UserContent, request structs.HeaderRequest) (structs.VersionedResponse, error) {
	tStart := time.Now()
	defer m.AppendSince(tStart, "getHeader", "all")

	slot, err := request.Slot()
	if err != nil {
		return structs.VersionedResponse{}, fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
	}

	parentHash, err := request.ParentHash()
	if err != nil {
		return structs.VersionedResponse{}, fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
	}

	pk, err := request.Pubkey()
	if err != nil {
		return structs.VersionedResponse{}, fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
	}

	logger := b.l.With(log.F{
		"method":     "GetHeader",
		"ip":         uc.IP,
		"slot":       slot,
		"parentHash": parentHash,
		"pubkey":     pk,
	})

	bid, err := b.factory.BuildBid(ctx, m, slot, parentHash)
	if err != nil {
		b.m.BidCount.WithLabelValues("unknown", reason(err)).Inc()
		return structs.VersionedResponse{}, err
	}
	b.m.BidCount.WithLabelValues(bid.Fork.String(), "ok").Inc()

	header := bid.Message.Header()
	value := bid.Message.Value()
	if b.journal != nil {
		b.journal.AddBid(evidence.BidTrace{
			Slot:           uint64(slot),
			Fork:           bid.Fork.String(),
			ParentHash:     parentHash,
			BlockHash:      header.GetBlockHash(),
			BlockNumber:    header.GetBlockNumber(),
			PayloadRoot:    bid.PayloadRoot,
			ProposerPubkey: pk.PublicKey,
			Value:          value,
			TimestampMs:    uint64(time.Now().UnixMilli()),
		})
	}

	logger.With(log.F{
		"processingTimeMs": time.Since(tStart).Milliseconds(),
		"fork":             bid.Fork.String(),
		"bidValue":         value.String(),
		"blockNumber":      header.GetBlockNumber(),
		"payloadRoot":      bid.PayloadRoot,
	}).Info("bid sent")

	return bid.Response(), nil
}

// GetPayload reveals the payload committed to by the blinded block. Every
// payload is revealed at most once.
func (b *Builder) GetPayload(ctx context.Context, m *structs.MetricGroup, uc structs.UserContent, fork structs.ForkVersion, request structs.SignedBlindedBeaconBlock) (structs.VersionedResponse, error) {
	tStart := time.Now()
	defer m.AppendSince(tStart, "getPayload", "all")

	logger := b.l.With(log.F{
		"method": "GetPayload",
		"ip":     uc.IP,
		"fork":   fork.String(),
	}).With(request)

	root, err := request.ExecutionHeaderHash()
	if err != nil {
		return structs.VersionedResponse{}, fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
	}

	tPop := time.Now()
	contents, ok := b.vault.Pop(root)
	m.AppendSince(tPop, "getPayload", "pop")
	if !ok {
		b.m.RevealCount.WithLabelValues(fork.String(), "unbound").Inc()
		return structs.VersionedResponse{}, UnbindPayloadError{Root: root}
	}

	// The header root already fixes the payload shape, so this only trips on
	// a corrupted vault entry. The vault has no peek, the entry is gone either way.
	if contents.Fork() != fork {
		b.m.RevealCount.WithLabelValues(fork.String(), "forkMismatch").Inc()
		return structs.VersionedResponse{}, fmt.Errorf("%w: committed %s payload requested as %s", ErrLogic, contents.Fork(), fork)
	}

	payload := contents.ExecutionPayload()
	if b.journal != nil {
		b.journal.AddDelivered(evidence.DeliveredTrace{
			Slot:          request.Slot(),
			Fork:          fork.String(),
			ProposerIndex: request.ProposerIndex(),
			ParentHash:    payload.ParentHash(),
			BlockHash:     payload.BlockHash(),
			BlockNumber:   payload.BlockNumber(),
			PayloadRoot:   root,
			FeeRecipient:  payload.FeeRecipient(),
			NumTx:         payload.NumTx(),
			TimestampMs:   uint64(time.Now().UnixMilli()),
		})
	}
	b.m.RevealCount.WithLabelValues(fork.String(), "ok").Inc()

	logger.With(log.F{
		"processingTimeMs": time.Since(tStart).Milliseconds(),
		"payloadRoot":      root,
		"blockNumber":      payload.BlockNumber(),
		"numTx":            payload.NumTx(),
	}).Info("payload sent")

	return structs.VersionedResponse{
		Version: fork.VersionString(),
		Data:    contents.Data(),
	}, nil
}

func reason(err error) string {
	var unbind UnbindPayloadError
	switch {
	case errors.Is(err, ErrNoPayload):
		return "noPayload"
	case errors.Is(err, ErrLogic):
		return "logic"
	case errors.Is(err, ErrSigning):
		return "signing"
	case errors.As(err, &unbind):
		return "unbound"
	}
	return "unknown"
}
