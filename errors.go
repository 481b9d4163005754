package osc

import "errors"

// Sentinel errors, one per error symbol in the OSC codec's error taxonomy.
// Composite codecs wrap these with fmt.Errorf("...: %w", ...) so callers can
// still use errors.Is while getting a message with context.
var (
	// ErrOverrun means the buffer was too small for the requested operation.
	ErrOverrun = errors.New("osc: buffer too small")
	// ErrSizeMax means the encoded size would exceed 2^31-4 bytes.
	ErrSizeMax = errors.New("osc: encoded size exceeds maximum")
	// ErrType means a type tag or bundle marker was not valid.
	ErrType = errors.New("osc: invalid type tag or bundle marker")
	// ErrPSize means an explicit packet size was negative, not a multiple
	// of 4, or smaller than the type's minimum.
	ErrPSize = errors.New("osc: invalid packet size prefix")
	// ErrLevelMax means the serial's level stack is full.
	ErrLevelMax = errors.New("osc: level stack full")
	// ErrLevelType means the operation is incompatible with the innermost
	// level's kind.
	ErrLevelType = errors.New("osc: operation incompatible with level")
	// ErrPSizeFlag means a second outermost packet was written without the
	// PSIZE flag set.
	ErrPSizeFlag = errors.New("osc: multiple outer packets without PSIZE flag")
	// ErrMsgType means a value's type disagreed with the next type-tag
	// character.
	ErrMsgType = errors.New("osc: value type disagrees with type tag")
)

// SizeMax is the largest number of bytes any single encode operation may
// produce: 2^31-4, leaving room for a length prefix without overflowing a
// signed 32-bit size.
const SizeMax = 1<<31 - 4
