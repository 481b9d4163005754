package osc

import (
	"fmt"

	"github.com/gebauer/cosc/wire"
)

// TimeTag is the OSC time tag: a 64-bit NTP-style timestamp. The high 32
// bits are whole seconds since 1900-01-01 00:00:00 UTC, the low 32 bits are
// a binary fraction of a second (2^32 fractions = 1 second).
type TimeTag uint64

// TypeTag reports the atom's type-tag character.
func (TimeTag) TypeTag() byte { return 't' }

// Append appends the 8-byte big-endian encoding of t to b.
func (t TimeTag) Append(b []byte) []byte {
	return wire.AppendUint64(b, uint64(t))
}

// Consume reads a TimeTag from the front of b, returning the remainder.
func (t *TimeTag) Consume(b []byte) ([]byte, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("time tag: %w", ErrOverrun)
	}
	*t = TimeTag(wire.Uint64(b))
	return b[8:], nil
}

func (t TimeTag) String() string {
	s, ns := t.Time()
	return fmt.Sprintf("TimeTag(%ds %dns)", s, ns)
}

// Time splits the time tag into (seconds, nanoseconds) since the NTP epoch,
// matching cosc_timetag_to_time exactly: the fractional word is scaled by
// 1e9 and rounded with a +5e8 bias before shifting back down by 32 bits.
func (t TimeTag) Time() (seconds, nanos uint32) {
	seconds = uint32(t >> 32)
	frac := uint64(uint32(t))
	frac *= 1000000000
	frac += 500000000
	nanos = uint32(frac >> 32)
	return seconds, nanos
}

// NewTimeTag builds a TimeTag from (seconds, nanoseconds) since the NTP
// epoch, matching cosc_timetag_from_time exactly: overflowing nanos carry
// into seconds first, then the fractional word is computed as
// (nanos<<32 + 2^29) / 1e9.
func NewTimeTag(seconds, nanos uint32) TimeTag {
	seconds += nanos / 1000000000
	nanos %= 1000000000
	frac := uint64(nanos) << 32
	frac += 0x20000000
	frac /= 1000000000
	return TimeTag(uint64(seconds)<<32 | frac)
}

// Immediate is the special time tag value (63 zero bits followed by a one)
// meaning "execute as soon as possible", per the OSC spec.
const Immediate TimeTag = 1
