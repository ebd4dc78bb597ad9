package deneb_test

import (
	crand "crypto/rand"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	"github.com/blocknative/dinghy/structs/forks/capella"
	"github.com/blocknative/dinghy/structs/forks/deneb"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoot_EqualsHeaderRoot(t *testing.T) {
	t.Parallel()

	payload := randomPayload()
	header, err := deneb.PayloadToPayloadHeader(payload)
	require.NoError(t, err)
	require.Equal(t, payload.EpBlobGasUsed, header.BlobGasUsed)
	require.Equal(t, payload.EpExcessBlobGas, header.ExcessBlobGas)

	hr, err := header.HashTreeRoot()
	require.NoError(t, err)
	pr, err := payload.HashTreeRoot()
	require.NoError(t, err)
	require.EqualValues(t, hr, pr)
}

func TestPayloadRoot_CommitsToBlobGas(t *testing.T) {
	t.Parallel()

	payload := randomPayload()
	before, err := payload.HashTreeRoot()
	require.NoError(t, err)

	payload.EpExcessBlobGas++
	after, err := payload.HashTreeRoot()
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	// the capella root of the same payload differs from the deneb one
	cr, err := payload.ExecutionPayload.HashTreeRoot()
	require.NoError(t, err)
	require.NotEqual(t, after, cr)
}

func TestBuilderBid_EmptyCommitments(t *testing.T) {
	t.Parallel()

	header, err := deneb.PayloadToPayloadHeader(randomPayload())
	require.NoError(t, err)

	bid := &deneb.BuilderBid{
		DenebHeader:             header,
		DenebBlobKZGCommitments: []deneb.KZGCommitment{},
		DenebValue:              types.IntToU256(7),
	}
	withEmpty, err := bid.HashTreeRoot()
	require.NoError(t, err)

	bid.DenebBlobKZGCommitments = nil
	withNil, err := bid.HashTreeRoot()
	require.NoError(t, err)
	require.Equal(t, withEmpty, withNil)

	bid.DenebBlobKZGCommitments = []deneb.KZGCommitment{{0x01}}
	withOne, err := bid.HashTreeRoot()
	require.NoError(t, err)
	require.NotEqual(t, withEmpty, withOne)
}

func TestBuilderBid_JSON(t *testing.T) {
	t.Parallel()

	header, err := deneb.PayloadToPayloadHeader(randomPayload())
	require.NoError(t, err)

	sbb := deneb.SignedBuilderBid{
		DenebMessage: &deneb.BuilderBid{
			DenebHeader:             header,
			DenebBlobKZGCommitments: []deneb.KZGCommitment{},
			DenebValue:              types.IntToU256(7),
		},
	}
	b, err := json.Marshal(sbb)
	require.NoError(t, err)
	require.Contains(t, string(b), `"blob_kzg_commitments":[]`)
	require.Contains(t, string(b), `"blob_gas_used"`)
	require.Contains(t, string(b), `"excess_blob_gas"`)
}

func TestPayloadContents_JSON(t *testing.T) {
	t.Parallel()

	pc := deneb.PayloadContents{
		Payload:     randomPayload(),
		BlobsBundle: deneb.EmptyBlobsBundle(),
	}
	require.Equal(t, structs.ForkDeneb, pc.Fork())

	b, err := json.Marshal(structs.VersionedResponse{
		Version: pc.Fork().VersionString(),
		Data:    pc.Data(),
	})
	require.NoError(t, err)

	var decoded struct {
		Version string `json:"version"`
		Data    struct {
			ExecutionPayload map[string]any `json:"execution_payload"`
			BlobsBundle      struct {
				Commitments []any `json:"commitments"`
				Proofs      []any `json:"proofs"`
				Blobs       []any `json:"blobs"`
			} `json:"blobs_bundle"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "deneb", decoded.Version)
	require.Contains(t, decoded.Data.ExecutionPayload, "withdrawals")
	require.Contains(t, decoded.Data.ExecutionPayload, "blob_gas_used")
	require.NotNil(t, decoded.Data.BlobsBundle.Commitments)
	require.Empty(t, decoded.Data.BlobsBundle.Commitments)
	require.NotNil(t, decoded.Data.BlobsBundle.Blobs)
}

func TestKZGCommitment_Text(t *testing.T) {
	t.Parallel()

	var c deneb.KZGCommitment
	crand.Read(c[:])

	b, err := c.MarshalText()
	require.NoError(t, err)

	var got deneb.KZGCommitment
	require.NoError(t, got.UnmarshalText(b))
	require.Equal(t, c, got)

	require.Error(t, got.UnmarshalText([]byte("0x0102")))
}

func randomPayload() *deneb.ExecutionPayload {
	tx := make([]byte, 128)
	crand.Read(tx)
	return &deneb.ExecutionPayload{
		ExecutionPayload: capella.ExecutionPayload{
			ExecutionPayload: bellatrix.ExecutionPayload{
				EpParentHash:    random32Bytes(),
				EpFeeRecipient:  random20Bytes(),
				EpRandom:        random32Bytes(),
				EpBlockNumber:   rand.Uint64(),
				EpGasLimit:      structs.GasLimit,
				EpTimestamp:     rand.Uint64(),
				EpBaseFeePerGas: types.IntToU256(rand.Uint64()),
				EpBlockHash:     structs.DummyBlockHash,
				EpTransactions:  []hexutil.Bytes{tx},
			},
			EpWithdrawals: structs.Withdrawals{
				{Index: 1, ValidatorIndex: 2, Address: random20Bytes(), Amount: 3},
			},
		},
		EpBlobGasUsed:   rand.Uint64(),
		EpExcessBlobGas: rand.Uint64(),
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
