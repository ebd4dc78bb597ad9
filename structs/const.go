package structs

import (
	"math"
	"time"
)

const (
	SlotsPerEpoch    Slot = 32
	DurationPerSlot       = time.Second * 12
	DurationPerEpoch      = DurationPerSlot * time.Duration(SlotsPerEpoch)

	FarFutureEpoch Epoch = math.MaxUint64
)
