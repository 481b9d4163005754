// Package osc encodes and decodes Open Sound Control (OSC) 1.0/1.1 binary
// packets: messages (an address, a type tag, and a sequence of typed
// arguments) and bundles (a time tag and nested, length-prefixed packets).
// All integers and floats are big-endian; strings and blobs are padded to a
// four-byte boundary with NUL bytes.
package osc

import (
	"bytes"
	"fmt"

	"github.com/gebauer/cosc/wire"
)

// Argument is an OSC value: one character of an atom's type tag plus its
// wire encoding.
type Argument interface {
	// TypeTag returns the argument's one-character type tag.
	TypeTag() byte
	// Append appends the argument's binary encoding to b. A nil b is a
	// valid dry run: Append(nil) returns a slice whose length is the
	// number of bytes the real encoding would occupy.
	Append(b []byte) []byte
	// Consume fills in the argument from the front of b, returning the
	// unconsumed remainder.
	Consume(b []byte) ([]byte, error)
}

// newByTypeTag constructs a zero-valued Argument for each type tag, with or
// without payload, used when decoding a type-tag-driven value sequence.
var newByTypeTag = map[byte]func() Argument{
	'i': func() Argument { return new(Int32) },
	'r': func() Argument { return new(Uint32) },
	'f': func() Argument { return new(Float32) },
	'c': func() Argument { return new(Char) },
	'm': func() Argument { return new(MIDI) },
	'h': func() Argument { return new(Int64) },
	't': func() Argument { return new(TimeTag) },
	'd': func() Argument { return new(Float64) },
	's': func() Argument { return new(String) },
	'S': func() Argument { return new(String) },
	'b': func() Argument { return new(Blob) },
	'T': func() Argument { return Bool(true) },
	'F': func() Argument { return Bool(false) },
	'N': func() Argument { return Nil{} },
	'I': func() Argument { return Impulse{} },
}

// IsPayloadType reports whether t is one of the payload-bearing type tags
// (i.e. everything except T, F, N, I).
func IsPayloadType(t byte) bool {
	switch t {
	case 'T', 'F', 'N', 'I':
		return false
	}
	_, ok := newByTypeTag[t]
	return ok
}

// IsNumericType reports whether t is one of the six numeric type tags
// (i r f h t d), the set matched by the pattern-matcher's `#` extension
// when used against a type tag.
func IsNumericType(t byte) bool {
	switch t {
	case 'i', 'r', 'f', 'h', 't', 'd':
		return true
	}
	return false
}

// Int32 is a signed 32-bit big-endian two's complement integer.
type Int32 int32

func (Int32) TypeTag() byte { return 'i' }

func (i Int32) Append(b []byte) []byte { return wire.AppendInt32(b, int32(i)) }

func (i *Int32) Consume(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("int32: %w", ErrOverrun)
	}
	*i = Int32(wire.Int32(b))
	return b[4:], nil
}

func (i Int32) String() string { return fmt.Sprintf("Int32(%d)", i) }

// Uint32 is an unsigned 32-bit big-endian integer, type tag 'r' (often used
// for RGBA color values).
type Uint32 uint32

func (Uint32) TypeTag() byte { return 'r' }

func (u Uint32) Append(b []byte) []byte { return wire.AppendUint32(b, uint32(u)) }

func (u *Uint32) Consume(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("uint32: %w", ErrOverrun)
	}
	*u = Uint32(wire.Uint32(b))
	return b[4:], nil
}

func (u Uint32) String() string { return fmt.Sprintf("Uint32(%d)", uint32(u)) }

// Float32 is a 32-bit big-endian IEEE-754 floating point number.
type Float32 float32

func (Float32) TypeTag() byte { return 'f' }

func (f Float32) Append(b []byte) []byte { return wire.AppendFloat32(b, float32(f)) }

func (f *Float32) Consume(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("float32: %w", ErrOverrun)
	}
	*f = Float32(wire.Float32(b))
	return b[4:], nil
}

func (f Float32) String() string { return fmt.Sprintf("Float32(%f)", f) }

// Char is a 7-bit ASCII character stored in the low byte of a 4-byte word.
type Char byte

func (Char) TypeTag() byte { return 'c' }

func (c Char) Append(b []byte) []byte {
	return append(b, byte(c)&0x7f, 0, 0, 0)
}

func (c *Char) Consume(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("char: %w", ErrOverrun)
	}
	*c = Char(b[0] & 0x7f)
	return b[4:], nil
}

func (c Char) String() string { return fmt.Sprintf("Char(%c)", byte(c)) }

// MIDI is an opaque 4-byte MIDI message, copied verbatim.
type MIDI [4]byte

func (MIDI) TypeTag() byte { return 'm' }

func (m MIDI) Append(b []byte) []byte { return append(b, m[0], m[1], m[2], m[3]) }

func (m *MIDI) Consume(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("midi: %w", ErrOverrun)
	}
	copy(m[:], b[:4])
	return b[4:], nil
}

func (m MIDI) String() string { return fmt.Sprintf("MIDI(% x)", [4]byte(m)) }

// Int64 is a signed 64-bit big-endian two's complement integer, type tag 'h'.
type Int64 int64

func (Int64) TypeTag() byte { return 'h' }

func (i Int64) Append(b []byte) []byte { return wire.AppendInt64(b, int64(i)) }

func (i *Int64) Consume(b []byte) ([]byte, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("int64: %w", ErrOverrun)
	}
	*i = Int64(wire.Int64(b))
	return b[8:], nil
}

func (i Int64) String() string { return fmt.Sprintf("Int64(%d)", int64(i)) }

// Float64 is a 64-bit big-endian IEEE-754 floating point number, type tag 'd'.
type Float64 float64

func (Float64) TypeTag() byte { return 'd' }

func (f Float64) Append(b []byte) []byte { return wire.AppendFloat64(b, float64(f)) }

func (f *Float64) Consume(b []byte) ([]byte, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("float64: %w", ErrOverrun)
	}
	*f = Float64(wire.Float64(b))
	return b[8:], nil
}

func (f Float64) String() string { return fmt.Sprintf("Float64(%f)", float64(f)) }

// String is a NUL-terminated, 4-byte-padded ASCII string. Type tag 's'
// (and 'S', the OSC 1.1 "symbol" alias with identical wire layout).
type String string

func (String) TypeTag() byte { return 's' }

// Append copies s's bytes, a terminating NUL, and 0-3 further NUL pad
// bytes so the result ends on a 4-byte boundary. Append has no error return
// and does not check SizeMax (cosc_write_string's ESIZEMAX guard);
// CheckEncodedSize(len(s)+1) reports whether the encoding would exceed it.
func (s String) Append(b []byte) []byte {
	for i := 0; i < len(s); i++ {
		b = append(b, s[i])
	}
	b = append(b, 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// Consume scans for the first NUL in b; the string is the bytes before it
// and the following 1-4 NUL pad bytes are skipped. Fails with ErrOverrun
// if there is no NUL, or if the padded length runs past len(b).
func (s *String) Consume(b []byte) ([]byte, error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return nil, fmt.Errorf("string: no NUL terminator: %w", ErrOverrun)
	}
	padded := wire.PadLen(end + 1)
	if padded > len(b) {
		return nil, fmt.Errorf("string: padding runs past buffer: %w", ErrOverrun)
	}
	*s = String(b[:end])
	return b[padded:], nil
}

func (s String) String() string { return fmt.Sprintf("String(%q)", string(s)) }

// Blob is a length-prefixed byte blob: an int32 size, the bytes, and
// padding to a 4-byte boundary.
type Blob []byte

func (Blob) TypeTag() byte { return 'b' }

// Append writes the int32 size prefix, the payload, then pads to 4 bytes.
// Callers who must enforce SizeMax should check CheckEncodedSize(len(bl))
// first; see String.Append.
func (bl Blob) Append(b []byte) []byte {
	b = wire.AppendInt32(b, int32(len(bl)))
	b = append(b, bl...)
	pad := wire.Pad(len(bl))
	for i := 0; i < pad; i++ {
		b = append(b, 0)
	}
	return b
}

// Consume reads the int32 size prefix (which must be >= 0) and slices the
// payload directly out of b: no copy is made. Fails with ErrType if the
// prefix is negative, or ErrOverrun if the payload and padding don't fit.
func (bl *Blob) Consume(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("blob: size prefix: %w", ErrOverrun)
	}
	size := wire.Int32(b)
	if size < 0 {
		return nil, fmt.Errorf("blob: negative size %d: %w", size, ErrType)
	}
	if size > SizeMax-4 {
		return nil, fmt.Errorf("blob: size %d exceeds maximum: %w", size, ErrSizeMax)
	}
	padded := wire.PadLen(int(size))
	if 4+padded > len(b) {
		return nil, fmt.Errorf("blob: payload and padding: %w", ErrOverrun)
	}
	if size == 0 {
		*bl = nil
	} else {
		*bl = Blob(b[4 : 4+size])
	}
	return b[4+padded:], nil
}

func (bl Blob) String() string { return fmt.Sprintf("Blob(%d bytes)", len(bl)) }

// Bool is an OSC 1.1 boolean, encoded entirely in its type tag: 'T' when
// true, 'F' when false. It never consumes or produces payload bytes.
type Bool bool

func (b Bool) TypeTag() byte {
	if b {
		return 'T'
	}
	return 'F'
}

func (Bool) Append(b []byte) []byte           { return b }
func (Bool) Consume(b []byte) ([]byte, error) { return b, nil }

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

// Nil is the OSC 1.1 nil value, type tag 'N'. It carries no payload.
type Nil struct{}

func (Nil) TypeTag() byte                    { return 'N' }
func (Nil) Append(b []byte) []byte           { return b }
func (Nil) Consume(b []byte) ([]byte, error) { return b, nil }
func (Nil) String() string                   { return "Nil" }

// Impulse is the OSC 1.1 "infinitum"/"bang" value, type tag 'I'. It carries
// no payload.
type Impulse struct{}

func (Impulse) TypeTag() byte                    { return 'I' }
func (Impulse) Append(b []byte) []byte           { return b }
func (Impulse) Consume(b []byte) ([]byte, error) { return b, nil }
func (Impulse) String() string                   { return "Impulse" }

// CheckEncodedSize fails with ErrSizeMax if a string or blob payload of n
// bytes, once NUL-padded to a 4-byte boundary, would exceed SizeMax. It is
// meant to be called before String.Append/Blob.Append by code that owns an
// error return, since those methods don't.
func CheckEncodedSize(n int) error {
	if n < 0 || wire.PadLen(n) > SizeMax {
		return fmt.Errorf("encoded size of %d bytes: %w", n, ErrSizeMax)
	}
	return nil
}

// ZeroValue returns the zero/empty Argument for a given type tag, used to
// pad a message's argument list out to match its type tag on encode (M2)
// and when Skip-ping a value on the streaming serial.
func ZeroValue(t byte) (Argument, error) {
	c, ok := newByTypeTag[t]
	if !ok {
		return nil, fmt.Errorf("type tag %q: %w", string(t), ErrType)
	}
	return c(), nil
}
