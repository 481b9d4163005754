// Package wire does the big-endian byte I/O that every OSC atom is built
// from: load/store of 32- and 64-bit unsigned, signed, and floating values
// against a caller-supplied buffer. The Put and load functions never
// allocate; the Append functions grow b with append. None of them validates
// buffer length; callers (the osc atom codecs) are expected to slice their
// window first.
package wire

import (
	"encoding/binary"
	"math"
)

// PutUint32 stores v at the start of b, big-endian.
func PutUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }

// Uint32 loads a big-endian uint32 from the start of b.
func Uint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

// PutInt32 stores v at the start of b, big-endian two's complement.
func PutInt32(b []byte, v int32) { binary.BigEndian.PutUint32(b, uint32(v)) }

// Int32 loads a big-endian two's complement int32 from the start of b.
func Int32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

// PutUint64 stores v at the start of b, big-endian.
func PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

// Uint64 loads a big-endian uint64 from the start of b.
func Uint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

// PutInt64 stores v at the start of b, big-endian two's complement.
func PutInt64(b []byte, v int64) { binary.BigEndian.PutUint64(b, uint64(v)) }

// Int64 loads a big-endian two's complement int64 from the start of b.
func Int64(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }

// PutFloat32 stores the IEEE-754 bit pattern of v, big-endian. The bits are
// reinterpreted, not the numeric value converted.
func PutFloat32(b []byte, v float32) { binary.BigEndian.PutUint32(b, math.Float32bits(v)) }

// Float32 loads a big-endian IEEE-754 float32 from the start of b.
func Float32(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }

// PutFloat64 stores the IEEE-754 bit pattern of v, big-endian.
func PutFloat64(b []byte, v float64) { binary.BigEndian.PutUint64(b, math.Float64bits(v)) }

// Float64 loads a big-endian IEEE-754 float64 from the start of b.
func Float64(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }

// AppendUint32 appends v, big-endian, growing b as needed; a nil b is a
// valid dry run that still returns the grown slice's length.
func AppendUint32(b []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(b, v) }

// AppendInt32 appends v, big-endian two's complement.
func AppendInt32(b []byte, v int32) []byte { return binary.BigEndian.AppendUint32(b, uint32(v)) }

// AppendUint64 appends v, big-endian.
func AppendUint64(b []byte, v uint64) []byte { return binary.BigEndian.AppendUint64(b, v) }

// AppendInt64 appends v, big-endian two's complement.
func AppendInt64(b []byte, v int64) []byte { return binary.BigEndian.AppendUint64(b, uint64(v)) }

// AppendFloat32 appends the IEEE-754 bit pattern of v, big-endian.
func AppendFloat32(b []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(v))
}

// AppendFloat64 appends the IEEE-754 bit pattern of v, big-endian.
func AppendFloat64(b []byte, v float64) []byte {
	return binary.BigEndian.AppendUint64(b, math.Float64bits(v))
}

// Pad returns the number of NUL bytes (0-3) needed to round n up to a
// multiple of 4.
func Pad(n int) int {
	return (4 - n%4) % 4
}

// PadLen rounds n up to the next multiple of 4.
func PadLen(n int) int {
	return n + Pad(n)
}
