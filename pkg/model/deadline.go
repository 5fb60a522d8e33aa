package model

import (
	"fmt"
	"time"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
)

// Deadline is the number of milliseconds since the network epoch at which an
// unconfirmed transaction expires. Embedded inner transactions carry a zero
// placeholder because the surrounding aggregate's deadline governs them.
type Deadline struct {
	Value uint64
}

// NewDeadline computes a deadline the given duration from now relative to
// the network's epoch adjustment (seconds since the unix epoch). A zero or
// negative duration is rejected; that rule applies to top level transactions
// only, embedded ones use EmbeddedDeadline.
func NewDeadline(epochAdjustment uint64, duration time.Duration) (Deadline, error) {
	if duration <= 0 {
		return Deadline{}, fmt.Errorf("%w: deadline duration must be positive but received %s", codec.ErrInvalidArgument, duration)
	}
	now := time.Now().UnixMilli()
	value := uint64(now) - epochAdjustment*1000 + uint64(duration.Milliseconds())
	return Deadline{Value: value}, nil
}

// NewDeadlineFromValue wraps a raw deadline read from the wire or a DTO.
func NewDeadlineFromValue(value uint64) Deadline {
	return Deadline{Value: value}
}

// EmbeddedDeadline is the placeholder used by inner transactions.
func EmbeddedDeadline() Deadline {
	return Deadline{}
}

// ToTime converts the deadline back to wall clock time.
func (d Deadline) ToTime(epochAdjustment uint64) time.Time {
	return time.UnixMilli(int64(epochAdjustment*1000 + d.Value))
}
