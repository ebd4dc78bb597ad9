package structs_test

import (
	"encoding/json"
	"testing"

	"github.com/blocknative/dinghy/structs"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/stretchr/testify/require"
)

func TestParseForkVersion(t *testing.T) {
	t.Parallel()

	for in, expected := range map[string]structs.ForkVersion{
		"bellatrix": structs.ForkBellatrix,
		"merge":     structs.ForkBellatrix,
		"capella":   structs.ForkCapella,
		"Deneb":     structs.ForkDeneb,
		"electra":   structs.ForkUnknown,
		"":          structs.ForkUnknown,
	} {
		require.Equal(t, expected, structs.ParseForkVersion(in), in)
	}
	require.Equal(t, "capella", structs.ForkCapella.String())
	require.Equal(t, types.VersionString("deneb"), structs.ForkDeneb.VersionString())
}

func TestForkSchedule(t *testing.T) {
	t.Parallel()

	fs := structs.ForkSchedule{
		BellatrixEpoch: 10,
		CapellaEpoch:   20,
		DenebEpoch:     structs.FarFutureEpoch,
	}
	require.Equal(t, structs.ForkUnknown, fs.ForkVersion(0))
	require.Equal(t, structs.ForkBellatrix, fs.ForkVersion(10*structs.SlotsPerEpoch))
	require.Equal(t, structs.ForkBellatrix, fs.ForkVersion(20*structs.SlotsPerEpoch-1))
	require.Equal(t, structs.ForkCapella, fs.ForkVersion(20*structs.SlotsPerEpoch))
	require.Equal(t, structs.ForkCapella, fs.ForkVersion(1<<40))

	genesis := structs.ForkSchedule{}
	require.Equal(t, structs.ForkDeneb, genesis.ForkVersion(0))
}

func TestPayloadAttributesEvent_Decode(t *testing.T) {
	t.Parallel()

	raw := `{"version":"capella","data":{"proposer_index":"123","proposal_slot":"10",
	"parent_block_number":"9","parent_block_root":"0x0100000000000000000000000000000000000000000000000000000000000000",
	"parent_block_hash":"0x0200000000000000000000000000000000000000000000000000000000000000",
	"payload_attributes":{"timestamp":"1700000000","prev_randao":"0x0300000000000000000000000000000000000000000000000000000000000000",
	"suggested_fee_recipient":"0x0400000000000000000000000000000000000000",
	"withdrawals":[{"index":"5","validator_index":"6","address":"0x0500000000000000000000000000000000000000","amount":"7"}]}}}`

	var ev structs.PayloadAttributesEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	pa := ev.Attributes()
	require.Equal(t, structs.ForkCapella, pa.Fork())
	require.EqualValues(t, 10, pa.Slot)
	require.EqualValues(t, 9, pa.ParentBlockNumber)
	require.EqualValues(t, 1700000000, pa.Timestamp)
	require.Equal(t, byte(0x02), pa.ParentHash[0])
	require.Equal(t, byte(0x03), pa.PrevRandao[0])
	require.Equal(t, byte(0x04), pa.FeeRecipient[0])
	require.True(t, pa.HasWithdrawals())
	require.Len(t, pa.Withdrawals, 1)
	require.EqualValues(t, 7, pa.Withdrawals[0].Amount)

	require.Equal(t, structs.AttributesKey{ParentHash: pa.ParentHash, Slot: 10}, ev.Key())
}

func TestPayloadAttributes_WithdrawalsPresence(t *testing.T) {
	t.Parallel()

	var absent, empty structs.PayloadAttributesEvent
	require.NoError(t, json.Unmarshal([]byte(`{"version":"bellatrix","data":{"payload_attributes":{}}}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"version":"capella","data":{"payload_attributes":{"withdrawals":[]}}}`), &empty))

	require.False(t, absent.Attributes().HasWithdrawals())
	require.True(t, empty.Attributes().HasWithdrawals())
	require.Empty(t, empty.Attributes().Withdrawals)
}

func TestPayloadAttributes_Copy(t *testing.T) {
	t.Parallel()

	root := types.Root{0x01}
	pa := structs.PayloadAttributes{
		Version:               "deneb",
		Withdrawals:           structs.Withdrawals{{Index: 1, Amount: 2}},
		ParentBeaconBlockRoot: &root,
	}

	cp := pa.Copy()
	cp.Withdrawals[0].Amount = 100
	cp.ParentBeaconBlockRoot[0] = 0xff

	require.EqualValues(t, 2, pa.Withdrawals[0].Amount)
	require.Equal(t, byte(0x01), pa.ParentBeaconBlockRoot[0])
}

func TestHeaderRequest(t *testing.T) {
	t.Parallel()

	hr := structs.HeaderRequest{
		"slot":        "42",
		"parent_hash": "0xA000000000000000000000000000000000000000000000000000000000000000",
		"pubkey":      "0x8a1d7b8dd64e0aafe7ea7b6c95065c9364cf99d38470c12ee807d55f7de1529ad29ce2c422e0b65e3d5a05c02caca249",
	}
	slot, err := hr.Slot()
	require.NoError(t, err)
	require.EqualValues(t, 42, slot)

	ph, err := hr.ParentHash()
	require.NoError(t, err)
	require.Equal(t, byte(0xa0), ph[0])

	_, err = hr.Pubkey()
	require.NoError(t, err)

	_, err = structs.HeaderRequest{"slot": "x"}.Slot()
	require.ErrorIs(t, err, structs.ErrInvalidSlot)
	_, err = structs.HeaderRequest{"parent_hash": "0x01"}.ParentHash()
	require.ErrorIs(t, err, structs.ErrInvalidParentHash)
	_, err = structs.HeaderRequest{"pubkey": "nope"}.Pubkey()
	require.ErrorIs(t, err, structs.ErrInvalidPubkey)
}
