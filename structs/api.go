package structs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flashbots/go-boost-utils/types"
)

var (
	ErrInvalidSlot       = errors.New("invalid slot")
	ErrInvalidParentHash = errors.New("invalid parent hash")
	ErrInvalidPubkey     = errors.New("invalid public key")
)

// HeaderRequest holds the path variables of a getHeader call.
type HeaderRequest map[string]string

func (hr HeaderRequest) Slot() (Slot, error) {
	slot, err := strconv.ParseUint(hr["slot"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSlot, hr["slot"])
	}
	return Slot(slot), nil
}

func (hr HeaderRequest) ParentHash() (types.Hash, error) {
	var parentHash types.Hash
	if err := parentHash.UnmarshalText([]byte(strings.ToLower(hr["parent_hash"]))); err != nil {
		return types.Hash{}, fmt.Errorf("%w: %s", ErrInvalidParentHash, hr["parent_hash"])
	}
	return parentHash, nil
}

func (hr HeaderRequest) Pubkey() (PubKey, error) {
	var pk PubKey
	if err := pk.UnmarshalText([]byte(strings.ToLower(hr["pubkey"]))); err != nil {
		return PubKey{}, ErrInvalidPubkey
	}
	return pk, nil
}

// UserContent carries request metadata that is only used for logging.
type UserContent struct {
	IP string
}
