package capella

import (
	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	ssz "github.com/ferranbt/fastssz"
	"github.com/flashbots/go-boost-utils/types"
)

// ExecutionPayload represents an execution layer payload.
type ExecutionPayload struct {
	bellatrix.ExecutionPayload
	EpWithdrawals structs.Withdrawals `json:"withdrawals" ssz-max:"16"`
}

func (ep *ExecutionPayload) Withdrawals() structs.Withdrawals {
	return ep.EpWithdrawals
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

	bh, err := bellatrix.PayloadToPayloadHeader(&p.ExecutionPayload)
	if err != nil {
		return nil, err
	}

	withdrawalsRoot, err := p.EpWithdrawals.Root()
	if err != nil {
		return nil, err
	}

	return &ExecutionPayloadHeader{
		ExecutionPayloadHeader: bh.ExecutionPayloadHeader,
		WithdrawalsRoot:        withdrawalsRoot,
	}, nil
}

type ExecutionPayloadHeader struct {
	types.ExecutionPayloadHeader
	WithdrawalsRoot types.Root `json:"withdrawals_root" ssz-size:"32"`
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

// HashTreeRoot ssz hashes the ExecutionPayloadHeader object
func (e *ExecutionPayloadHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(e)
}

// HashTreeRootWith ssz hashes the ExecutionPayloadHeader object with a hasher
func (e *ExecutionPayloadHeader) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	if err = PutHeaderFields(hh, &e.ExecutionPayloadHeader); err != nil {
		return
	}

	// Field (14) 'WithdrawalsRoot'
	hh.PutBytes(e.WithdrawalsRoot[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the ExecutionPayloadHeader object
func (e *ExecutionPayloadHeader) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(e)
}

// PutHeaderFields appends the fields shared by every header since bellatrix.
// The caller owns the container index and the final Merkleize.
func PutHeaderFields(hh ssz.HashWalker, e *types.ExecutionPayloadHeader) error {
	// Field (0) 'ParentHash'
	hh.PutBytes(e.ParentHash[:])

	// Field (1) 'FeeRecipient'
	hh.PutBytes(e.FeeRecipient[:])

	// Field (2) 'StateRoot'
	hh.PutBytes(e.StateRoot[:])

	// Field (3) 'ReceiptsRoot'
	hh.PutBytes(e.ReceiptsRoot[:])

	// Field (4) 'LogsBloom'
	hh.PutBytes(e.LogsBloom[:])

	// Field (5) 'PrevRandao'
	hh.PutBytes(e.Random[:])

	// Field (6) 'BlockNumber'
	hh.PutUint64(e.BlockNumber)

	// Field (7) 'GasLimit'
	hh.PutUint64(e.GasLimit)

	// Field (8) 'GasUsed'
	hh.PutUint64(e.GasUsed)

	// Field (9) 'Timestamp'
	hh.PutUint64(e.Timestamp)

	// Field (10) 'ExtraData'
	{
		elemIndx := hh.Index()
		byteLen := uint64(len(e.ExtraData))
		if byteLen > 32 {
			return ssz.ErrIncorrectListSize
		}
		hh.PutBytes(e.ExtraData)
		hh.MerkleizeWithMixin(elemIndx, byteLen, (32+31)/32)
	}

	// Field (11) 'BaseFeePerGas'
	hh.PutBytes(e.BaseFeePerGas[:])

	// Field (12) 'BlockHash'
	hh.PutBytes(e.BlockHash[:])

	// Field (13) 'TransactionsRoot'
	hh.PutBytes(e.TransactionsRoot[:])
	return nil
}

// PayloadContents is the capella reveal: the bare execution payload.
type PayloadContents struct {
	Payload *ExecutionPayload
}

func (pc PayloadContents) Fork() structs.ForkVersion {
	return structs.ForkCapella
}

func (pc PayloadContents) ExecutionPayload() structs.ExecutionPayload {
	return pc.Payload
}

func (pc PayloadContents) Data() any {
	return pc.Payload
}

// BuilderBid https://github.com/ethereum/builder-specs/blob/main/specs/capella/builder.md#builderbid
type BuilderBid struct {
	CapellaHeader *ExecutionPayloadHeader `json:"header"`
	CapellaValue  types.U256Str           `json:"value" ssz-size:"32"`
	CapellaPubkey types.PublicKey         `json:"pubkey" ssz-size:"48"`
}

func (b *BuilderBid) Header() structs.ExecutionPayloadHeader {
	return b.CapellaHeader
}

func (b *BuilderBid) Value() types.U256Str {
	return b.CapellaValue
}

func (b *BuilderBid) Pubkey() types.PublicKey {
	return b.CapellaPubkey
}

// HashTreeRoot ssz hashes the BuilderBid object
func (b *BuilderBid) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BuilderBid object with a hasher
func (b *BuilderBid) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	if b.CapellaHeader == nil {
		return bellatrix.ErrEmptyBidHeader
	}
	// Field (0) 'Header'
	if err = b.CapellaHeader.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (1) 'Value'
	hh.PutBytes(b.CapellaValue[:])

	// Field (2) 'Pubkey'
	hh.PutBytes(b.CapellaPubkey[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the BuilderBid object
func (b *BuilderBid) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(b)
}

type SignedBuilderBid struct {
	CapellaMessage   *BuilderBid     `json:"message"`
	CapellaSignature types.Signature `json:"signature" ssz-size:"96"`
}

func (s *SignedBuilderBid) Value() types.U256Str {
	return s.CapellaMessage.CapellaValue
}

func (s *SignedBuilderBid) Signature() types.Signature {
	return s.CapellaSignature
}

// SignedBlindedBeaconBlock https://github.com/ethereum/beacon-APIs/blob/master/types/capella/block.yaml
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
		"stateRoot":     s.SMessage.StateRoot.String(),
	}
	if h := s.SMessage.Body.ExecutionPayloadHeader; h != nil {
		logFields["blockHash"] = h.BlockHash.String()
		logFields["blockNumber"] = h.BlockNumber
		logFields["withdrawalsRoot"] = h.WithdrawalsRoot.String()
	}
	return logFields
}
