package structs

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/flashbots/go-boost-utils/types"
)

const (
	// GasLimit of every synthesized payload.
	GasLimit uint64 = 30_000_000
)

// DummyBlockHash is the block hash every synthesized payload carries.
var DummyBlockHash = types.Hash{
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
}

type ExecutionPayload interface {
	ParentHash() types.Hash
	BlockHash() types.Hash
	BlockNumber() uint64
	FeeRecipient() types.Address
	Timestamp() uint64
	NumTx() uint64
	// HashTreeRoot equals the root of the payload's header.
	HashTreeRoot() ([32]byte, error)
}

type ExecutionPayloadHeader interface {
	GetParentHash() types.Hash
	GetBlockHash() types.Hash
	GetBlockNumber() uint64
	HashTreeRoot() ([32]byte, error)
}

// BuilderBid is the message the builder signs under the builder domain.
type BuilderBid interface {
	ssz.HashRoot

	Header() ExecutionPayloadHeader
	Value() types.U256Str
	Pubkey() types.PublicKey
}

// PayloadContents is what a bid commits to and what redemption reveals.
type PayloadContents interface {
	Fork() ForkVersion
	ExecutionPayload() ExecutionPayload
	// Data is rendered as the `data` of the getPayload response.
	Data() any
}

// SignedBlindedBeaconBlock is the part of a proposer's blinded block needed to
// look up the committed payload.
type SignedBlindedBeaconBlock interface {
	Slot() uint64
	ProposerIndex() uint64
	BlockHash() types.Hash
	ExecutionHeaderHash() (types.Hash, error)
	Loggable() map[string]any
}
