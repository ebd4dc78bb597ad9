package structs

import (
	"github.com/flashbots/go-boost-utils/types"
)

// PayloadAttributesEvent is the `payload_attributes` event published by the
// beacon node event stream.
type PayloadAttributesEvent struct {
	Version string                     `json:"version"`
	Data    PayloadAttributesEventData `json:"data"`
}

type PayloadAttributesEventData struct {
	ProposerIndex     uint64                 `json:"proposer_index,string"`
	ProposalSlot      uint64                 `json:"proposal_slot,string"`
	ParentBlockNumber uint64                 `json:"parent_block_number,string"`
	ParentBlockRoot   types.Root             `json:"parent_block_root"`
	ParentBlockHash   types.Hash             `json:"parent_block_hash"`
	PayloadAttributes EventPayloadAttributes `json:"payload_attributes"`
}

type EventPayloadAttributes struct {
	Timestamp             uint64        `json:"timestamp,string"`
	PrevRandao            types.Hash    `json:"prev_randao"`
	SuggestedFeeRecipient types.Address `json:"suggested_fee_recipient"`
	Withdrawals           Withdrawals   `json:"withdrawals,omitempty"`
	ParentBeaconBlockRoot *types.Root   `json:"parent_beacon_block_root,omitempty"`
}

func (e PayloadAttributesEvent) Loggable() map[string]any {
	return map[string]any{
		"version":    e.Version,
		"slot":       e.Data.ProposalSlot,
		"parentHash": e.Data.ParentBlockHash,
	}
}

// Key is the cache key the event is stored under.
func (e PayloadAttributesEvent) Key() AttributesKey {
	return AttributesKey{
		ParentHash: e.Data.ParentBlockHash,
		Slot:       Slot(e.Data.ProposalSlot),
	}
}

// Attributes normalizes the event into the record served to the bid factory.
func (e PayloadAttributesEvent) Attributes() PayloadAttributes {
	pa := PayloadAttributes{
		Version:           e.Version,
		Slot:              Slot(e.Data.ProposalSlot),
		ParentHash:        e.Data.ParentBlockHash,
		ParentBlockNumber: e.Data.ParentBlockNumber,
		Timestamp:         e.Data.PayloadAttributes.Timestamp,
		PrevRandao:        e.Data.PayloadAttributes.PrevRandao,
		FeeRecipient:      e.Data.PayloadAttributes.SuggestedFeeRecipient,
		Withdrawals:       e.Data.PayloadAttributes.Withdrawals,
	}
	if e.Data.PayloadAttributes.ParentBeaconBlockRoot != nil {
		root := *e.Data.PayloadAttributes.ParentBeaconBlockRoot
		pa.ParentBeaconBlockRoot = &root
	}
	return pa.Copy()
}

// AttributesKey identifies the chain tip and slot a payload would be built for.
type AttributesKey struct {
	ParentHash types.Hash
	Slot       Slot
}

func (k AttributesKey) Loggable() map[string]any {
	return map[string]any{
		"slot":       k.Slot,
		"parentHash": k.ParentHash,
	}
}

// PayloadAttributes is the latest known build hint for an AttributesKey.
// Withdrawals is nil when the announcement carried no withdrawal set.
type PayloadAttributes struct {
	Version               string
	Slot                  Slot
	ParentHash            types.Hash
	ParentBlockNumber     uint64
	Timestamp             uint64
	PrevRandao            types.Hash
	FeeRecipient          types.Address
	Withdrawals           Withdrawals
	ParentBeaconBlockRoot *types.Root
}

func (pa PayloadAttributes) Fork() ForkVersion {
	return ParseForkVersion(pa.Version)
}

func (pa PayloadAttributes) HasWithdrawals() bool {
	return pa.Withdrawals != nil
}

// Copy returns a deep copy, so readers never share withdrawals with the cache.
func (pa PayloadAttributes) Copy() PayloadAttributes {
	cp := pa
	if pa.Withdrawals != nil {
		cp.Withdrawals = make(Withdrawals, len(pa.Withdrawals))
		for i, w := range pa.Withdrawals {
			if w == nil {
				continue
			}
			wc := *w
			cp.Withdrawals[i] = &wc
		}
	}
	if pa.ParentBeaconBlockRoot != nil {
		root := *pa.ParentBeaconBlockRoot
		cp.ParentBeaconBlockRoot = &root
	}
	return cp
}
