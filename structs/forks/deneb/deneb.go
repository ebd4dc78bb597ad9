package deneb

import (
	"fmt"

	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	"github.com/blocknative/dinghy/structs/forks/capella"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ssz "github.com/ferranbt/fastssz"
	"github.com/flashbots/go-boost-utils/types"
)

const MaxBlobCommitmentsPerBlock = 4096

// KZGCommitment is a 48 byte compressed G1 point.
type KZGCommitment [48]byte

func (c KZGCommitment) MarshalText() ([]byte, error) {
	return hexutil.Bytes(c[:]).MarshalText()
}

func (c *KZGCommitment) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return err
	}
	if len(b) != len(c) {
		return fmt.Errorf("invalid kzg commitment length %d", len(b))
	}
	copy(c[:], b)
	return nil
}

func (c KZGCommitment) String() string {
	return hexutil.Encode(c[:])
}

type KZGProof = KZGCommitment

// ExecutionPayload represents an execution layer payload.
type ExecutionPayload struct {
	capella.ExecutionPayload
	EpBlobGasUsed   uint64 `json:"blob_gas_used,string"`
	EpExcessBlobGas uint64 `json:"excess_blob_gas,string"`
}

func (ep *ExecutionPayload) BlobGasUsed() uint64 {
	return ep.EpBlobGasUsed
}

func (ep *ExecutionPayload) ExcessBlobGas() uint64 {
	return ep.EpExcessBlobGas
}

func (ep *ExecutionPayload) HashTreeRoot() ([32]byte, error) {
	header, err := PayloadToPayloadHeader(ep)
	if err != nil {
		return [32]byte{}, err
	}
	return header.HashTreeRoot()
}

func PayloadToPayloadHeader(p *ExecutionPayload) (*ExecutionPayloadHeader, error) {
	if p == nil {
		return nil, types.ErrNilPayload
	}

	ch, err := capella.PayloadToPayloadHeader(&p.ExecutionPayload)
	if err != nil {
		return nil, err
	}

	return &ExecutionPayloadHeader{
		ParentHash:       ch.ParentHash,
		FeeRecipient:     ch.FeeRecipient,
		StateRoot:        ch.StateRoot,
		ReceiptsRoot:     ch.ReceiptsRoot,
		LogsBloom:        ch.LogsBloom,
		Random:           ch.Random,
		BlockNumber:      ch.BlockNumber,
		GasLimit:         ch.GasLimit,
		GasUsed:          ch.GasUsed,
		Timestamp:        ch.Timestamp,
		ExtraData:        ch.ExtraData,
		BaseFeePerGas:    ch.BaseFeePerGas,
		BlockHash:        ch.BlockHash,
		TransactionsRoot: ch.TransactionsRoot,
		WithdrawalsRoot:  ch.WithdrawalsRoot,
		BlobGasUsed:      p.EpBlobGasUsed,
		ExcessBlobGas:    p.EpExcessBlobGas,
	}, nil
}

// ExecutionPayloadHeader https://github.com/ethereum/beacon-APIs/blob/master/types/deneb/execution_payload.yaml
type ExecutionPayloadHeader struct {
	ParentHash       types.Hash      `json:"parent_hash" ssz-size:"32"`
	FeeRecipient     types.Address   `json:"fee_recipient" ssz-size:"20"`
	StateRoot        types.Root      `json:"state_root" ssz-size:"32"`
	ReceiptsRoot     types.Root      `json:"receipts_root" ssz-size:"32"`
	LogsBloom        types.Bloom     `json:"logs_bloom" ssz-size:"256"`
	Random           types.Hash      `json:"prev_randao" ssz-size:"32"`
	BlockNumber      uint64          `json:"block_number,string"`
	GasLimit         uint64          `json:"gas_limit,string"`
	GasUsed          uint64          `json:"gas_used,string"`
	Timestamp        uint64          `json:"timestamp,string"`
	ExtraData        types.ExtraData `json:"extra_data" ssz-max:"32"`
	BaseFeePerGas    types.U256Str   `json:"base_fee_per_gas" ssz-size:"32"`
	BlockHash        types.Hash      `json:"block_hash" ssz-size:"32"`
	TransactionsRoot types.Root      `json:"transactions_root" ssz-size:"32"`
	WithdrawalsRoot  types.Root      `json:"withdrawals_root" ssz-size:"32"`
	BlobGasUsed      uint64          `json:"blob_gas_used,string"`
	ExcessBlobGas    uint64          `json:"excess_blob_gas,string"`
}

func (eph *ExecutionPayloadHeader) GetParentHash() types.Hash {
	return eph.ParentHash
}

func (eph *ExecutionPayloadHeader) GetBlockHash() types.Hash {
	return eph.BlockHash
}

func (eph *ExecutionPayloadHeader) GetBlockNumber() uint64 {
	return eph.BlockNumber
}

func (eph *ExecutionPayloadHeader) common() *types.ExecutionPayloadHeader {
	return &types.ExecutionPayloadHeader{
		ParentHash:       eph.ParentHash,
		FeeRecipient:     eph.FeeRecipient,
		StateRoot:        eph.StateRoot,
		ReceiptsRoot:     eph.ReceiptsRoot,
		LogsBloom:        eph.LogsBloom,
		Random:           eph.Random,
		BlockNumber:      eph.BlockNumber,
		GasLimit:         eph.GasLimit,
		GasUsed:          eph.GasUsed,
		Timestamp:        eph.Timestamp,
		ExtraData:        eph.ExtraData,
		BaseFeePerGas:    eph.BaseFeePerGas,
		BlockHash:        eph.BlockHash,
		TransactionsRoot: eph.TransactionsRoot,
	}
}

// HashTreeRoot ssz hashes the ExecutionPayloadHeader object
func (e *ExecutionPayloadHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(e)
}

// HashTreeRootWith ssz hashes the ExecutionPayloadHeader object with a hasher
func (e *ExecutionPayloadHeader) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	if err = capella.PutHeaderFields(hh, e.common()); err != nil {
		return
	}

	// Field (14) 'WithdrawalsRoot'
	hh.PutBytes(e.WithdrawalsRoot[:])

	// Field (15) 'BlobGasUsed'
	hh.PutUint64(e.BlobGasUsed)

	// Field (16) 'ExcessBlobGas'
	hh.PutUint64(e.ExcessBlobGas)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the ExecutionPayloadHeader object
func (e *ExecutionPayloadHeader) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(e)
}

// BlobsBundle carries the blobs of a payload. The builder never includes blob
// transactions, so it is always empty.
type BlobsBundle struct {
	Commitments []KZGCommitment `json:"commitments"`
	Proofs      []KZGProof      `json:"proofs"`
	Blobs       []hexutil.Bytes `json:"blobs"`
}

func EmptyBlobsBundle() *BlobsBundle {
	return &BlobsBundle{
		Commitments: []KZGCommitment{},
		Proofs:      []KZGProof{},
		Blobs:       []hexutil.Bytes{},
	}
}

// PayloadContents https://github.com/ethereum/builder-specs/blob/main/specs/deneb/builder.md#executionpayloadandblobsbundle
type PayloadContents struct {
	Payload     *ExecutionPayload `json:"execution_payload"`
	BlobsBundle *BlobsBundle      `json:"blobs_bundle"`
}

func (pc PayloadContents) Fork() structs.ForkVersion {
	return structs.ForkDeneb
}

func (pc PayloadContents) ExecutionPayload() structs.ExecutionPayload {
	return pc.Payload
}

func (pc PayloadContents) Data() any {
	return pc
}

// BuilderBid https://github.com/ethereum/builder-specs/blob/main/specs/deneb/builder.md#builderbid
type BuilderBid struct {
	DenebHeader             *ExecutionPayloadHeader `json:"header"`
	DenebBlobKZGCommitments []KZGCommitment         `json:"blob_kzg_commitments" ssz-max:"4096" ssz-size:"?,48"`
	DenebValue              types.U256Str           `json:"value" ssz-size:"32"`
	DenebPubkey             types.PublicKey         `json:"pubkey" ssz-size:"48"`
}

func (b *BuilderBid) Header() structs.ExecutionPayloadHeader {
	return b.DenebHeader
}

func (b *BuilderBid) Value() types.U256Str {
	return b.DenebValue
}

func (b *BuilderBid) Pubkey() types.PublicKey {
	return b.DenebPubkey
}

// HashTreeRoot ssz hashes the BuilderBid object
func (b *BuilderBid) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BuilderBid object with a hasher
func (b *BuilderBid) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	if b.DenebHeader == nil {
		return bellatrix.ErrEmptyBidHeader
	}
	// Field (0) 'Header'
	if err = b.DenebHeader.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (1) 'BlobKZGCommitments'
	{
		num := uint64(len(b.DenebBlobKZGCommitments))
		if num > MaxBlobCommitmentsPerBlock {
			return ssz.ErrIncorrectListSize
		}
		subIndx := hh.Index()
		for _, c := range b.DenebBlobKZGCommitments {
			hh.PutBytes(c[:])
		}
		hh.MerkleizeWithMixin(subIndx, num, MaxBlobCommitmentsPerBlock)
	}

	// Field (2) 'Value'
	hh.PutBytes(b.DenebValue[:])

	// Field (3) 'Pubkey'
	hh.PutBytes(b.DenebPubkey[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the BuilderBid object
func (b *BuilderBid) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(b)
}

type SignedBuilderBid struct {
	DenebMessage   *BuilderBid     `json:"message"`
	DenebSignature types.Signature `json:"signature" ssz-size:"96"`
}

func (s *SignedBuilderBid) Value() types.U256Str {
	return s.DenebMessage.DenebValue
}

func (s *SignedBuilderBid) Signature() types.Signature {
	return s.DenebSignature
}

// SignedBlindedBeaconBlock https://github.com/ethereum/beacon-APIs/blob/master/types/deneb/block.yaml
type SignedBlindedBeaconBlock struct {
	SMessage   BlindedBeaconBlock `json:"message"`
	SSignature types.Signature    `json:"signature" ssz-size:"96"`
}

type BlindedBeaconBlock struct {
	Slot          uint64                 `json:"slot,string"`
	ProposerIndex uint64                 `json:"proposer_index,string"`
	ParentRoot    types.Root             `json:"parent_root"`
	StateRoot     types.Root             `json:"state_root"`
	Body          BlindedBeaconBlockBody `json:"body"`
}

type BlindedBeaconBlockBody struct {
	RandaoReveal           types.Signature         `json:"randao_reveal"`
	Graffiti               types.Hash              `json:"graffiti"`
	ExecutionPayloadHeader *ExecutionPayloadHeader `json:"execution_payload_header"`
	BlobKZGCommitments     []KZGCommitment         `json:"blob_kzg_commitments"`
}

func (s *SignedBlindedBeaconBlock) Slot() uint64 {
	return s.SMessage.Slot
}

func (s *SignedBlindedBeaconBlock) ProposerIndex() uint64 {
	return s.SMessage.ProposerIndex
}

func (s *SignedBlindedBeaconBlock) Signature() types.Signature {
	return s.SSignature
}

func (s *SignedBlindedBeaconBlock) BlockHash() types.Hash {
	if s.SMessage.Body.ExecutionPayloadHeader == nil {
		return types.Hash{}
	}
	return s.SMessage.Body.ExecutionPayloadHeader.BlockHash
}

func (s *SignedBlindedBeaconBlock) ExecutionHeaderHash() (types.Hash, error) {
	if s.SMessage.Body.ExecutionPayloadHeader == nil {
		return types.Hash{}, structs.ErrMissingPayloadHeader
	}
	return s.SMessage.Body.ExecutionPayloadHeader.HashTreeRoot()
}

func (s *SignedBlindedBeaconBlock) Loggable() map[string]any {
	logFields := map[string]any{
		"slot":          s.SMessage.Slot,
		"proposerIndex": s.SMessage.ProposerIndex,
		"parentRoot":    s.SMessage.ParentRoot.String(),
		"commitments":   len(s.SMessage.Body.BlobKZGCommitments),
	}
	if h := s.SMessage.Body.ExecutionPayloadHeader; h != nil {
		logFields["blockHash"] = h.BlockHash.String()
		logFields["blockNumber"] = h.BlockNumber
		logFields["blobGasUsed"] = h.BlobGasUsed
	}
	return logFields
}
