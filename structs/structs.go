package structs

import (
	"errors"
	"strings"

	"github.com/flashbots/go-boost-utils/types"
)

var ErrUnknownValue = errors.New("value is unknown")

type Slot uint64

func (s Slot) Loggable() map[string]any {
	return map[string]any{
		"slot":  s,
		"epoch": s.Epoch(),
	}
}

func (s Slot) Epoch() Epoch {
	return Epoch(s / SlotsPerEpoch)
}

type Epoch uint64

func (e Epoch) Loggable() map[string]any {
	return map[string]any{
		"epoch": e,
	}
}

type PubKey struct{ types.PublicKey }

func (pk PubKey) Loggable() map[string]any {
	return map[string]any{
		"pubkey": pk,
	}
}

func (pk PubKey) Bytes() []byte {
	return pk.PublicKey[:]
}

type ForkVersion uint8

const (
	ForkUnknown ForkVersion = iota
	ForkBellatrix
	ForkCapella
	ForkDeneb
)

// ParseForkVersion maps a consensus version string onto a supported fork.
// Anything it does not recognise is ForkUnknown.
func ParseForkVersion(version string) ForkVersion {
	switch strings.ToLower(version) {
	case "bellatrix", "merge":
		return ForkBellatrix
	case "capella":
		return ForkCapella
	case "deneb":
		return ForkDeneb
	default:
		return ForkUnknown
	}
}

func (v ForkVersion) String() string {
	switch v {
	case ForkBellatrix:
		return "bellatrix"
	case ForkCapella:
		return "capella"
	case ForkDeneb:
		return "deneb"
	default:
		return "unknown"
	}
}

func (v ForkVersion) VersionString() types.VersionString {
	return types.VersionString(v.String())
}

// ForkSchedule holds the activation epochs of the forks the builder can serve.
// Forks that are not scheduled carry FarFutureEpoch.
type ForkSchedule struct {
	BellatrixEpoch Epoch
	CapellaEpoch   Epoch
	DenebEpoch     Epoch
}

func (fs ForkSchedule) ForkVersion(slot Slot) ForkVersion {
	epoch := slot.Epoch()
	switch {
	case epoch >= fs.DenebEpoch:
		return ForkDeneb
	case epoch >= fs.CapellaEpoch:
		return ForkCapella
	case epoch >= fs.BellatrixEpoch:
		return ForkBellatrix
	default:
		return ForkUnknown
	}
}

// VersionedResponse is the fork versioned envelope of the builder API.
type VersionedResponse struct {
	Version types.VersionString `json:"version"`
	Data    any                 `json:"data"`
}

var ErrMissingPayloadHeader = errors.New("missing execution payload header")
