package capella_test

import (
	crand "crypto/rand"
	"encoding/json"
	"math/rand"
	"testing"

	attBellatrix "github.com/attestantio/go-eth2-client/spec/bellatrix"
	attCapella "github.com/attestantio/go-eth2-client/spec/capella"
	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	"github.com/blocknative/dinghy/structs/forks/capella"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoot_MatchesAttestant(t *testing.T) {
	t.Parallel()

	payload := randomPayload(55, 16)
	expected, err := toAttestant(payload).HashTreeRoot()
	require.NoError(t, err)

	got, err := payload.HashTreeRoot()
	require.NoError(t, err)
	require.EqualValues(t, expected, got)
}

func TestPayloadRoot_EmptyWithdrawals(t *testing.T) {
	t.Parallel()

	payload := randomPayload(1, 0)
	expected, err := toAttestant(payload).HashTreeRoot()
	require.NoError(t, err)

	got, err := payload.HashTreeRoot()
	require.NoError(t, err)
	require.EqualValues(t, expected, got)
}

func TestPayloadRoot_EqualsHeaderRoot(t *testing.T) {
	t.Parallel()

	payload := randomPayload(3, 4)
	header, err := capella.PayloadToPayloadHeader(payload)
	require.NoError(t, err)

	hr, err := header.HashTreeRoot()
	require.NoError(t, err)
	pr, err := payload.HashTreeRoot()
	require.NoError(t, err)
	require.EqualValues(t, hr, pr)

	wr, err := payload.EpWithdrawals.Root()
	require.NoError(t, err)
	require.EqualValues(t, wr, header.WithdrawalsRoot)
}

func TestPayloadRoot_TooManyWithdrawals(t *testing.T) {
	t.Parallel()

	payload := randomPayload(1, structs.MaxWithdrawalsPerPayload+1)
	_, err := payload.HashTreeRoot()
	require.Error(t, err)
}

func TestHeaderJSON_RoundTripKeepsRoot(t *testing.T) {
	t.Parallel()

	header, err := capella.PayloadToPayloadHeader(randomPayload(2, 2))
	require.NoError(t, err)

	b, err := json.Marshal(header)
	require.NoError(t, err)
	require.Contains(t, string(b), `"withdrawals_root"`)
	require.Contains(t, string(b), `"prev_randao"`)

	var decoded capella.ExecutionPayloadHeader
	require.NoError(t, json.Unmarshal(b, &decoded))

	expected, err := header.HashTreeRoot()
	require.NoError(t, err)
	got, err := decoded.HashTreeRoot()
	require.NoError(t, err)
	require.EqualValues(t, expected, got)
}

func TestSignedBlindedBeaconBlock_ExecutionHeaderHash(t *testing.T) {
	t.Parallel()

	header, err := capella.PayloadToPayloadHeader(randomPayload(2, 2))
	require.NoError(t, err)

	block := map[string]any{
		"message": map[string]any{
			"slot":           "123",
			"proposer_index": "7",
			"body": map[string]any{
				"execution_payload_header": header,
				"graffiti":                 types.Hash{},
			},
		},
		"signature": types.Signature{},
	}

	b, err := json.Marshal(block)
	require.NoError(t, err)

	var sbbb capella.SignedBlindedBeaconBlock
	require.NoError(t, json.Unmarshal(b, &sbbb))
	require.EqualValues(t, 123, sbbb.Slot())
	require.EqualValues(t, 7, sbbb.ProposerIndex())
	require.Equal(t, header.BlockHash, sbbb.BlockHash())

	expected, err := header.HashTreeRoot()
	require.NoError(t, err)
	got, err := sbbb.ExecutionHeaderHash()
	require.NoError(t, err)
	require.EqualValues(t, expected, got)

	var empty capella.SignedBlindedBeaconBlock
	_, err = empty.ExecutionHeaderHash()
	require.ErrorIs(t, err, structs.ErrMissingPayloadHeader)
}

func toAttestant(p *capella.ExecutionPayload) *attCapella.ExecutionPayload {
	txs := make([]attBellatrix.Transaction, 0, len(p.EpTransactions))
	for _, tx := range p.EpTransactions {
		txs = append(txs, attBellatrix.Transaction(tx))
	}
	ws := make([]*attCapella.Withdrawal, 0, len(p.EpWithdrawals))
	for _, w := range p.EpWithdrawals {
		ws = append(ws, &attCapella.Withdrawal{
			Index:          attCapella.WithdrawalIndex(w.Index),
			ValidatorIndex: phase0.ValidatorIndex(w.ValidatorIndex),
			Address:        attBellatrix.ExecutionAddress(w.Address),
			Amount:         phase0.Gwei(w.Amount),
		})
	}
	return &attCapella.ExecutionPayload{
		ParentHash:    phase0.Hash32(p.EpParentHash),
		FeeRecipient:  attBellatrix.ExecutionAddress(p.EpFeeRecipient),
		StateRoot:     p.EpStateRoot,
		ReceiptsRoot:  p.EpReceiptsRoot,
		LogsBloom:     p.EpLogsBloom,
		PrevRandao:    p.EpRandom,
		BlockNumber:   p.EpBlockNumber,
		GasLimit:      p.EpGasLimit,
		GasUsed:       p.EpGasUsed,
		Timestamp:     p.EpTimestamp,
		ExtraData:     p.EpExtraData,
		BaseFeePerGas: p.EpBaseFeePerGas,
		BlockHash:     phase0.Hash32(p.EpBlockHash),
		Transactions:  txs,
		Withdrawals:   ws,
	}
}

func randomPayload(numTx, numWithdrawals int) *capella.ExecutionPayload {
	extraData := random20Bytes()
	return &capella.ExecutionPayload{
		ExecutionPayload: bellatrix.ExecutionPayload{
			EpParentHash:    random32Bytes(),
			EpFeeRecipient:  random20Bytes(),
			EpStateRoot:     random32Bytes(),
			EpReceiptsRoot:  random32Bytes(),
			EpLogsBloom:     random256Bytes(),
			EpRandom:        random32Bytes(),
			EpBlockNumber:   rand.Uint64(),
			EpGasLimit:      rand.Uint64(),
			EpGasUsed:       rand.Uint64(),
			EpTimestamp:     rand.Uint64(),
			EpExtraData:     extraData[:],
			EpBaseFeePerGas: types.IntToU256(rand.Uint64()),
			EpBlockHash:     random32Bytes(),
			EpTransactions:  randomTransactions(numTx),
		},
		EpWithdrawals: randomWithdrawals(numWithdrawals),
	}
}

func random32Bytes() (b [32]byte) {
	crand.Read(b[:])
	return b
}

func random20Bytes() (b [20]byte) {
	crand.Read(b[:])
	return b
}

func random256Bytes() (b [256]byte) {
	crand.Read(b[:])
	return b
}

func randomTransactions(size int) []hexutil.Bytes {
	txs := make([]hexutil.Bytes, 0, size)
	for i := 0; i < size; i++ {
		tx := make([]byte, 300)
		crand.Read(tx)
		txs = append(txs, tx)
	}
	return txs
}

func randomWithdrawals(size int) structs.Withdrawals {
	ws := make(structs.Withdrawals, 0, size)
	for i := 0; i < size; i++ {
		ws = append(ws, &structs.Withdrawal{
			Index:          rand.Uint64(),
			ValidatorIndex: rand.Uint64(),
			Address:        random20Bytes(),
			Amount:         rand.Uint64(),
		})
	}
	return ws
}
