//go:generate mockgen  -destination=./mocks/mocks.go -package=mocks github.com/blocknative/dinghy/builder AttributesCache,PayloadVault,Journal
package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	"github.com/blocknative/dinghy/structs/forks/capella"
	"github.com/blocknative/dinghy/structs/forks/deneb"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flashbots/go-boost-utils/bls"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/lthibault/log"
)

type AttributesCache interface {
	Get(structs.AttributesKey) (structs.PayloadAttributes, bool)
}

type PayloadVault interface {
	Put(structs.PayloadContents) (types.Hash, error)
	Pop(types.Hash) (structs.PayloadContents, bool)
}

type FactoryConfig struct {
	SecretKey            *bls.SecretKey
	PubKey               types.PublicKey
	BuilderSigningDomain types.Domain

	// Value every bid declares.
	Value types.U256Str
	// PayloadBodyBytes is the size of the single zero filled transaction.
	PayloadBodyBytes int
}

// Bid is a signed bid together with the payload it commits to.
type Bid struct {
	Fork        structs.ForkVersion
	Message     structs.BuilderBid
	Signature   types.Signature
	PayloadRoot types.Hash
	Contents    structs.PayloadContents

	signed any
}

// Response renders the bid as a getHeader response.
func (b Bid) Response() structs.VersionedResponse {
	return structs.VersionedResponse{
		Version: b.Fork.VersionString(),
		Data:    b.signed,
	}
}

// BidFactory synthesizes placeholder payloads from cached payload attributes,
// signs a bid for each and commits the payload to the vault.
type BidFactory struct {
	l      log.Logger
	config FactoryConfig

	cache AttributesCache
	vault PayloadVault
}

// Validate rejects configurations BuildBid cannot honor.
func (c FactoryConfig) Validate() error {
	if c.PayloadBodyBytes < 0 {
		return fmt.Errorf("%w: negative payload body size %d", ErrInvalidConfig, c.PayloadBodyBytes)
	}
	return nil
}

func NewBidFactory(l log.Logger, config FactoryConfig, cache AttributesCache, vault PayloadVault) (*BidFactory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &BidFactory{
		l:      l.WithField("service", "bid-factory"),
		config: config,
		cache:  cache,
		vault:  vault,
	}, nil
}

func (f *BidFactory) PubKey() types.PublicKey {
	return f.config.PubKey
}

// BuildBid returns a signed bid for the payload attributes announced for
// (parentHash, slot). The payload is in the vault before BuildBid returns.
func (f *BidFactory) BuildBid(ctx context.Context, m *structs.MetricGroup, slot structs.Slot, parentHash types.Hash) (Bid, error) {
	key := structs.AttributesKey{ParentHash: parentHash, Slot: slot}

	tGet := time.Now()
	pa, ok := f.cache.Get(key)
	m.AppendSince(tGet, "buildBid", "attributes")
	if !ok {
		return Bid{}, ErrNoPayload
	}

	if pa.Version == "" {
		return Bid{}, fmt.Errorf("%w: payload attributes without version", ErrLogic)
	}

	fork := pa.Fork()

	tBuild := time.Now()
	contents, bid, err := f.build(fork, parentHash, pa)
	m.AppendSince(tBuild, "buildBid", "payload")
	if err != nil {
		return Bid{}, err
	}

	tSign := time.Now()
	signature, err := types.SignMessage(bid, f.config.BuilderSigningDomain, f.config.SecretKey)
	m.AppendSince(tSign, "buildBid", "signature")
	if err != nil {
		return Bid{}, fmt.Errorf("%w: %s", ErrSigning, err.Error())
	}

	tCommit := time.Now()
	root, err := f.vault.Put(contents)
	m.AppendSince(tCommit, "buildBid", "commit")
	if err != nil {
		return Bid{}, fmt.Errorf("%w: commit payload: %s", ErrLogic, err.Error())
	}

	return Bid{
		Fork:        fork,
		Message:     bid,
		Signature:   signature,
		PayloadRoot: root,
		Contents:    contents,
		signed:      signedBid(bid, signature),
	}, nil
}

func (f *BidFactory) build(fork structs.ForkVersion, parentHash types.Hash, pa structs.PayloadAttributes) (structs.PayloadContents, structs.BuilderBid, error) {
	switch fork {
	case structs.ForkBellatrix:
		payload := f.basePayload(parentHash, pa)
		header, err := bellatrix.PayloadToPayloadHeader(&payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: derive header: %s", ErrLogic, err.Error())
		}
		return bellatrix.PayloadContents{Payload: &payload}, &bellatrix.BuilderBid{
			BellatrixHeader: header,
			BellatrixValue:  f.config.Value,
			BellatrixPubkey: f.config.PubKey,
		}, nil

	case structs.ForkCapella:
		if !pa.HasWithdrawals() {
			return nil, nil, fmt.Errorf("%w: capella payload attributes without withdrawals", ErrLogic)
		}
		payload := capella.ExecutionPayload{
			ExecutionPayload: f.basePayload(parentHash, pa),
			EpWithdrawals:    pa.Withdrawals,
		}
		header, err := capella.PayloadToPayloadHeader(&payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: derive header: %s", ErrLogic, err.Error())
		}
		return capella.PayloadContents{Payload: &payload}, &capella.BuilderBid{
			CapellaHeader: header,
			CapellaValue:  f.config.Value,
			CapellaPubkey: f.config.PubKey,
		}, nil

	case structs.ForkDeneb:
		if !pa.HasWithdrawals() {
			return nil, nil, fmt.Errorf("%w: deneb payload attributes without withdrawals", ErrLogic)
		}
		payload := deneb.ExecutionPayload{
			ExecutionPayload: capella.ExecutionPayload{
				ExecutionPayload: f.basePayload(parentHash, pa),
				EpWithdrawals:    pa.Withdrawals,
			},
		}
		header, err := deneb.PayloadToPayloadHeader(&payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: derive header: %s", ErrLogic, err.Error())
		}
		return deneb.PayloadContents{Payload: &payload, BlobsBundle: deneb.EmptyBlobsBundle()}, &deneb.BuilderBid{
			DenebHeader:             header,
			DenebBlobKZGCommitments: []deneb.KZGCommitment{},
			DenebValue:              f.config.Value,
			DenebPubkey:             f.config.PubKey,
		}, nil
	}

	return nil, nil, fmt.Errorf("%w: unsupported fork %q", ErrNoPayload, pa.Version)
}

func (f *BidFactory) basePayload(parentHash types.Hash, pa structs.PayloadAttributes) bellatrix.ExecutionPayload {
	return bellatrix.ExecutionPayload{
		EpParentHash:   parentHash,
		EpFeeRecipient: pa.FeeRecipient,
		EpRandom:       pa.PrevRandao,
		EpBlockNumber:  pa.ParentBlockNumber + 1,
		EpGasLimit:     structs.GasLimit,
		EpTimestamp:    pa.Timestamp,
		EpBlockHash:    structs.DummyBlockHash,
		EpTransactions: []hexutil.Bytes{make(hexutil.Bytes, f.config.PayloadBodyBytes)},
	}
}

func signedBid(bid structs.BuilderBid, signature types.Signature) any {
	switch b := bid.(type) {
	case *bellatrix.BuilderBid:
		return bellatrix.SignedBuilderBid{BellatrixMessage: b, BellatrixSignature: signature}
	case *capella.BuilderBid:
		return capella.SignedBuilderBid{CapellaMessage: b, CapellaSignature: signature}
	case *deneb.BuilderBid:
		return deneb.SignedBuilderBid{DenebMessage: b, DenebSignature: signature}
	}
	return nil
}
