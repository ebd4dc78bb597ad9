package bellatrix

import (
	"errors"

	"github.com/blocknative/dinghy/structs"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ssz "github.com/ferranbt/fastssz"
	"github.com/flashbots/go-boost-utils/types"
)

var ErrEmptyBidHeader = errors.New("empty bid header")

// ExecutionPayload represents an execution layer payload.
type ExecutionPayload struct {
	EpParentHash    types.Hash      `json:"parent_hash" ssz-size:"32"`
	EpFeeRecipient  types.Address   `json:"fee_recipient" ssz-size:"20"`
	EpStateRoot     types.Root      `json:"state_root" ssz-size:"32"`
	EpReceiptsRoot  types.Root      `json:"receipts_root" ssz-size:"32"`
	EpLogsBloom     types.Bloom     `json:"logs_bloom" ssz-size:"256"`
	EpRandom        types.Hash      `json:"prev_randao" ssz-size:"32"`
	EpBlockNumber   uint64          `json:"block_number,string"`
	EpGasLimit      uint64          `json:"gas_limit,string"`
	EpGasUsed       uint64          `json:"gas_used,string"`
	EpTimestamp     uint64          `json:"timestamp,string"`
	EpExtraData     types.ExtraData `json:"extra_data" ssz-max:"32"`
	EpBaseFeePerGas types.U256Str   `json:"base_fee_per_gas" ssz-max:"32"`
	EpBlockHash     types.Hash      `json:"block_hash" ssz-size:"32"`
	EpTransactions  []hexutil.Bytes `json:"transactions" ssz-max:"1048576,1073741824" ssz-size:"?,?"`
}

func (ep *ExecutionPayload) ParentHash() types.Hash {
	return ep.EpParentHash
}
func (ep *ExecutionPayload) FeeRecipient() types.Address {
	return ep.EpFeeRecipient
}
func (ep *ExecutionPayload) StateRoot() types.Root {
	return ep.EpStateRoot
}
func (ep *ExecutionPayload) ReceiptsRoot() types.Root {
	return ep.EpReceiptsRoot
}
func (ep *ExecutionPayload) LogsBloom() types.Bloom {
	return ep.EpLogsBloom
}
func (ep *ExecutionPayload) Random() types.Hash {
	return ep.EpRandom
}
func (ep *ExecutionPayload) BlockNumber() uint64 {
	return ep.EpBlockNumber
}
func (ep *ExecutionPayload) GasLimit() uint64 {
	return ep.EpGasLimit
}
func (ep *ExecutionPayload) GasUsed() uint64 {
	return ep.EpGasUsed
}
func (ep *ExecutionPayload) Timestamp() uint64 {
	return ep.EpTimestamp
}
func (ep *ExecutionPayload) ExtraData() types.ExtraData {
	return ep.EpExtraData
}
func (ep *ExecutionPayload) BaseFeePerGas() types.U256Str {
	return ep.EpBaseFeePerGas
}
func (ep *ExecutionPayload) BlockHash() types.Hash {
	return ep.EpBlockHash
}
func (ep *ExecutionPayload) Transactions() []hexutil.Bytes {
	return ep.EpTransactions
}

func (ep *ExecutionPayload) NumTx() uint64 {
	return uint64(len(ep.EpTransactions))
}

// TransactionsRoot is the SSZ root of the transaction list.
func (ep *ExecutionPayload) TransactionsRoot() (types.Root, error) {
	txs := make([][]byte, 0, len(ep.EpTransactions))
	for _, tx := range ep.EpTransactions {
		txs = append(txs, tx)
	}

	transactions := types.Transactions{Transactions: txs}
	root, err := transactions.HashTreeRoot()
	if err != nil {
		return types.Root{}, err
	}
	return types.Root(root), nil
}

// HashTreeRoot is computed over the payload header, which commits to the
// transactions through their root.
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

	txroot, err := p.TransactionsRoot()
	if err != nil {
		return nil, err
	}

	return &ExecutionPayloadHeader{
		ExecutionPayloadHeader: types.ExecutionPayloadHeader{
			ParentHash:       p.EpParentHash,
			FeeRecipient:     p.EpFeeRecipient,
			StateRoot:        p.EpStateRoot,
			ReceiptsRoot:     p.EpReceiptsRoot,
			LogsBloom:        p.EpLogsBloom,
			Random:           p.EpRandom,
			BlockNumber:      p.EpBlockNumber,
			GasLimit:         p.EpGasLimit,
			GasUsed:          p.EpGasUsed,
			Timestamp:        p.EpTimestamp,
			ExtraData:        p.EpExtraData,
			BaseFeePerGas:    p.EpBaseFeePerGas,
			BlockHash:        p.EpBlockHash,
			TransactionsRoot: txroot,
		},
	}, nil
}

type ExecutionPayloadHeader struct {
	types.ExecutionPayloadHeader
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

// PayloadContents is the bellatrix reveal: the bare execution payload.
type PayloadContents struct {
	Payload *ExecutionPayload
}

func (pc PayloadContents) Fork() structs.ForkVersion {
	return structs.ForkBellatrix
}

func (pc PayloadContents) ExecutionPayload() structs.ExecutionPayload {
	return pc.Payload
}

func (pc PayloadContents) Data() any {
	return pc.Payload
}

// BuilderBid https://github.com/ethereum/builder-specs/blob/main/specs/bellatrix/builder.md#builderbid
type BuilderBid struct {
	BellatrixHeader *ExecutionPayloadHeader `json:"header"`
	BellatrixValue  types.U256Str           `json:"value" ssz-size:"32"`
	BellatrixPubkey types.PublicKey         `json:"pubkey" ssz-size:"48"`
}

func (b *BuilderBid) Header() structs.ExecutionPayloadHeader {
	return b.BellatrixHeader
}

func (b *BuilderBid) Value() types.U256Str {
	return b.BellatrixValue
}

func (b *BuilderBid) Pubkey() types.PublicKey {
	return b.BellatrixPubkey
}

// HashTreeRoot ssz hashes the BuilderBid object
func (b *BuilderBid) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BuilderBid object with a hasher
func (b *BuilderBid) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	if b.BellatrixHeader == nil {
		return ErrEmptyBidHeader
	}
	// Field (0) 'Header'
	if err = b.BellatrixHeader.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (1) 'Value'
	hh.PutBytes(b.BellatrixValue[:])

	// Field (2) 'Pubkey'
	hh.PutBytes(b.BellatrixPubkey[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the BuilderBid object
func (b *BuilderBid) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(b)
}

type SignedBuilderBid struct {
	BellatrixMessage   *BuilderBid     `json:"message"`
	BellatrixSignature types.Signature `json:"signature" ssz-size:"96"`
}

func (s *SignedBuilderBid) Value() types.U256Str {
	return s.BellatrixMessage.BellatrixValue
}

func (s *SignedBuilderBid) Signature() types.Signature {
	return s.BellatrixSignature
}

// SignedBlindedBeaconBlock https://github.com/ethereum/beacon-APIs/blob/master/types/bellatrix/block.yaml#L83
// Only the fields needed to find the committed payload are decoded.
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
	return map[string]any{
		"slot":          s.SMessage.Slot,
		"proposerIndex": s.SMessage.ProposerIndex,
		"parentRoot":    s.SMessage.ParentRoot.String(),
		"blockHash":     s.BlockHash().String(),
	}
}
