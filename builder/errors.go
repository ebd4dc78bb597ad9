package builder

import (
	"errors"
	"fmt"

	"github.com/flashbots/go-boost-utils/types"
)

var (
	// ErrNoPayload means there is nothing to bid on: no attributes for the
	// requested key or a fork the builder cannot build for.
	ErrNoPayload = errors.New("no payload")
	// ErrLogic marks an invariant violation, usually upstream data that does
	// not fit the announced fork.
	ErrLogic      = errors.New("logic error")
	ErrBadRequest = errors.New("bad request")
	ErrSigning    = errors.New("failed to sign bid")

	ErrInvalidConfig = errors.New("invalid factory config")
)

// UnbindPayloadError is returned when a blinded block commits to a payload the
// vault does not hold: never issued, already revealed or evicted.
type UnbindPayloadError struct {
	Root types.Hash
}

func (e UnbindPayloadError) Error() string {
	return fmt.Sprintf("no payload committed to root %s", e.Root.String())
}
