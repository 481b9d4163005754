package oscserial

import (
	"fmt"

	cosc "github.com/gebauer/cosc"
	"github.com/gebauer/cosc/wire"
)

// Reader incrementally decodes a tree of OSC bundles and messages from a
// caller-supplied buffer, mirroring Writer's level stack so a caller can
// consume exactly as much of a nested packet as it wants before moving on.
type Reader struct {
	buf     []byte
	pos     int
	levels  []Level
	top     int
	flags   Flags
	readTop bool // an unprefixed outermost packet has already been read
}

// NewReader creates a Reader over buf, using levels as its nesting stack
// (capping nesting depth at cap(levels)).
func NewReader(buf []byte, levels []Level, flags Flags) *Reader {
	r := &Reader{buf: buf, levels: levels[:0], flags: flags}
	r.top = -1
	return r
}

// Size returns the number of bytes consumed so far.
func (r *Reader) Size() int { return r.pos }

// BufferSize returns the total number of bytes available to read.
func (r *Reader) BufferSize() int { return len(r.buf) }

// MsgType returns the innermost message level's next expected type-tag
// character, 0 if its type tag is exhausted, or ErrLevelType if the
// innermost level is not a message.
func (r *Reader) MsgType() (byte, error) {
	lvl, err := r.level(KindMessage)
	if err != nil {
		return 0, err
	}
	return lvl.MsgType(), nil
}

func (r *Reader) level(want Kind) (*Level, error) {
	if r.top < 0 {
		return nil, fmt.Errorf("oscserial: no open level: %w", cosc.ErrLevelType)
	}
	lvl := &r.levels[r.top]
	if lvl.Kind != want {
		return nil, fmt.Errorf("oscserial: innermost level is %s, not %s: %w", lvl.Kind, want, cosc.ErrLevelType)
	}
	return lvl, nil
}

// remainingBytes returns how many bytes are left to read before this
// Reader's own buffer ends or, if tighter, before the nearest ancestor
// level's Declared bound (an absolute end position, Start+Declared) is
// reached. Every open level with a declared length prefix is checked, not
// just the innermost one, since a child (e.g. a message embedded in a
// blob) must not read past its enclosing level's promised extent.
func (r *Reader) remainingBytes() int {
	n := len(r.buf) - r.pos
	for i := r.top; i >= 0; i-- {
		lvl := &r.levels[i]
		if lvl.Declared < 0 {
			continue
		}
		if left := lvl.Start + lvl.Declared - r.pos; left < n {
			n = left
		}
	}
	return n
}

// take returns the next n unread bytes without advancing, failing with
// ErrOverrun if fewer than n remain within the current bound.
func (r *Reader) take(n int) ([]byte, error) {
	if n > r.remainingBytes() {
		return nil, fmt.Errorf("oscserial: need %d bytes: %w", n, cosc.ErrOverrun)
	}
	return r.buf[r.pos : r.pos+n], nil
}

// advanceBy moves the read cursor forward n bytes, which must already have
// been validated by take, and credits them to the innermost level.
func (r *Reader) advanceBy(n int) {
	r.pos += n
	if r.top >= 0 {
		r.levels[r.top].Written += n
	}
}

func (r *Reader) pushLevel(kind Kind, declared int) (*Level, error) {
	if len(r.levels) >= cap(r.levels) {
		return nil, fmt.Errorf("oscserial: level stack full: %w", cosc.ErrLevelMax)
	}
	r.levels = r.levels[:len(r.levels)+1]
	lvl := &r.levels[len(r.levels)-1]
	lvl.reset()
	lvl.Kind = kind
	lvl.Start = r.pos
	lvl.Declared = declared
	r.top = len(r.levels) - 1
	return lvl, nil
}

// needsPrefix mirrors Writer.needsPrefix: a length prefix is mandatory for
// any child of a bundle, and for an outermost packet when PSize is set.
func (r *Reader) needsPrefix() (need bool, outer bool) {
	if r.top < 0 {
		return r.flags.Has(PSize), true
	}
	return r.levels[r.top].Kind == KindBundle, false
}

func (r *Reader) checkOuterOnce(outer, prefixed bool) error {
	if !outer || prefixed {
		return nil
	}
	if r.readTop {
		return fmt.Errorf("oscserial: second unprefixed top-level packet: %w", cosc.ErrPSizeFlag)
	}
	r.readTop = true
	return nil
}

// readPrefix reads and validates a 4-byte big-endian length prefix,
// requiring it to be non-negative, a multiple of 4, and at least min bytes
// (8 for a message signature, 16 for a bundle header).
func (r *Reader) readPrefix(min int) (int, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, fmt.Errorf("oscserial: length prefix: %w", err)
	}
	n := wire.Int32(p)
	if n < int32(min) || n%4 != 0 || int(n) > cosc.SizeMax {
		return 0, fmt.Errorf("oscserial: length prefix %d: %w", n, cosc.ErrPSize)
	}
	r.advanceBy(4)
	return int(n), nil
}

// OpenBundle reads "#bundle\0" and the time tag, pushing a bundle level. A
// bundle may nest inside another bundle but not inside a message or blob.
func (r *Reader) OpenBundle() (cosc.TimeTag, error) {
	if r.top >= 0 && r.levels[r.top].Kind != KindBundle {
		return 0, fmt.Errorf("oscserial: open bundle: %w", cosc.ErrLevelType)
	}
	need, outer := r.needsPrefix()
	declared := -1
	if need {
		if err := r.checkOuterOnce(outer, true); err != nil {
			return 0, err
		}
		n, err := r.readPrefix(16)
		if err != nil {
			return 0, err
		}
		declared = n
	} else if err := r.checkOuterOnce(outer, false); err != nil {
		return 0, err
	}
	lit, err := r.take(8)
	if err != nil {
		return 0, fmt.Errorf("oscserial: bundle marker: %w", err)
	}
	if string(lit) != "#bundle\x00" {
		return 0, fmt.Errorf("oscserial: bundle marker %q: %w", lit, cosc.ErrType)
	}
	lvl, err := r.pushLevel(KindBundle, declared)
	if err != nil {
		return 0, err
	}
	lvl.Start = r.pos
	r.advanceBy(8)
	ttBytes, err := r.take(8)
	if err != nil {
		return 0, fmt.Errorf("oscserial: bundle time tag: %w", err)
	}
	var tt cosc.TimeTag
	if _, err := (&tt).Consume(ttBytes); err != nil {
		return 0, err
	}
	r.advanceBy(8)
	return tt, nil
}

// OpenMessage reads an address and type-tag signature, pushing a message
// level. A message may nest inside a bundle or a blob (a whole OSC packet
// embedded as a blob's payload) but not directly inside another message.
func (r *Reader) OpenMessage() (address, typetag string, err error) {
	if r.top >= 0 && r.levels[r.top].Kind == KindMessage {
		return "", "", fmt.Errorf("oscserial: open message: %w", cosc.ErrLevelType)
	}
	need, outer := r.needsPrefix()
	declared := -1
	if need {
		if err := r.checkOuterOnce(outer, true); err != nil {
			return "", "", err
		}
		n, err := r.readPrefix(8)
		if err != nil {
			return "", "", err
		}
		declared = n
	} else if err := r.checkOuterOnce(outer, false); err != nil {
		return "", "", err
	}
	start := r.pos
	var addr cosc.String
	rest, err := (&addr).Consume(r.buf[r.pos:])
	if err != nil {
		return "", "", fmt.Errorf("oscserial: message address: %w", err)
	}
	consumed := len(r.buf[r.pos:]) - len(rest)
	if consumed > r.remainingBytes() {
		return "", "", fmt.Errorf("oscserial: message address: %w", cosc.ErrOverrun)
	}
	lvl, perr := r.pushLevel(KindMessage, declared)
	if perr != nil {
		return "", "", perr
	}
	lvl.Start = start
	r.advanceBy(consumed)

	var tag cosc.String
	rest2, err := (&tag).Consume(r.buf[r.pos:])
	if err != nil {
		return "", "", fmt.Errorf("oscserial: message type tag: %w", err)
	}
	consumed2 := len(r.buf[r.pos:]) - len(rest2)
	if consumed2 > r.remainingBytes() {
		return "", "", fmt.Errorf("oscserial: message type tag: %w", cosc.ErrOverrun)
	}
	if len(tag) == 0 || tag[0] != ',' {
		return "", "", fmt.Errorf("oscserial: message type tag %q: %w", string(tag), cosc.ErrType)
	}
	r.advanceBy(consumed2)
	lvl.typeTag = string(tag[1:])
	lvl.cursor = 0
	lvl.arrayOpen = -1
	return string(addr), lvl.typeTag, nil
}

// OpenBlob reads a blob's 4-byte size prefix and pushes a blob level bounding
// exactly that many payload bytes. Only valid when the innermost message
// level's next expected type is 'b'.
func (r *Reader) OpenBlob() error {
	parent, err := r.level(KindMessage)
	if err != nil {
		return fmt.Errorf("oscserial: open blob: %w", err)
	}
	t, ok := parent.currentType()
	if !ok || t != 'b' {
		return fmt.Errorf("oscserial: open blob: expected type %q, at 'b': %w", t, cosc.ErrMsgType)
	}
	p, err := r.take(4)
	if err != nil {
		return fmt.Errorf("oscserial: blob size: %w", err)
	}
	n := wire.Int32(p)
	if n < 0 || int(n) > cosc.SizeMax {
		return fmt.Errorf("oscserial: blob size %d: %w", n, cosc.ErrSizeMax)
	}
	r.advanceBy(4)
	start := r.pos
	lvl, perr := r.pushLevel(KindBlob, int(n))
	if perr != nil {
		return perr
	}
	lvl.Start = start
	return nil
}

// Bytes reads exactly len(p) raw bytes into p. Only valid while the
// innermost level is a blob; no padding and no type-tag interaction.
func (r *Reader) Bytes(p []byte) error {
	if _, err := r.level(KindBlob); err != nil {
		return err
	}
	b, err := r.take(len(p))
	if err != nil {
		return err
	}
	copy(p, b)
	r.advanceBy(len(p))
	return nil
}

// Repeat rewinds the innermost message level's type-tag cursor to just
// after the last '[', letting the caller read further array members.
// Errors if no array is open or the cursor is not at a ']'.
func (r *Reader) Repeat() error {
	lvl, err := r.level(KindMessage)
	if err != nil {
		return err
	}
	if !lvl.atArrayBoundary() {
		return fmt.Errorf("oscserial: repeat: not at a closed array: %w", cosc.ErrLevelType)
	}
	lvl.cursor = lvl.arrayOpen
	return nil
}

// Value reads the innermost message level's next expected value into v,
// which must already be the correctly-typed Argument (e.g. a *cosc.Int32
// to read an 'i'); use cosc.ZeroValue or MsgType to pick the right type
// dynamically.
func (r *Reader) Value(v cosc.Argument) error {
	lvl, err := r.level(KindMessage)
	if err != nil {
		return err
	}
	want, ok := lvl.currentType()
	if !ok {
		return fmt.Errorf("oscserial: value: %w", cosc.ErrLevelType)
	}
	got := v.TypeTag()
	if got != want && !(want == 'S' && got == 's') {
		return fmt.Errorf("oscserial: value type %q, expected %q: %w", got, want, cosc.ErrMsgType)
	}
	avail, err := r.take(r.remainingBytes())
	if err != nil {
		return err
	}
	rest, err := v.Consume(avail)
	if err != nil {
		return err
	}
	r.advanceBy(len(avail) - len(rest))
	lvl.advance()
	return nil
}

// Skip reads and discards the innermost message level's next expected
// value.
func (r *Reader) Skip() error {
	lvl, err := r.level(KindMessage)
	if err != nil {
		return err
	}
	t, ok := lvl.currentType()
	if !ok {
		return fmt.Errorf("oscserial: skip: %w", cosc.ErrLevelType)
	}
	zero, zerr := cosc.ZeroValue(t)
	if zerr != nil {
		return zerr
	}
	return r.Value(zero)
}

func (r *Reader) Int32() (int32, error) {
	var v cosc.Int32
	err := r.Value(&v)
	return int32(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	var v cosc.Uint32
	err := r.Value(&v)
	return uint32(v), err
}

func (r *Reader) Float32() (float32, error) {
	var v cosc.Float32
	err := r.Value(&v)
	return float32(v), err
}

func (r *Reader) Int64() (int64, error) {
	var v cosc.Int64
	err := r.Value(&v)
	return int64(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	var v cosc.TimeTag
	err := r.Value(&v)
	return uint64(v), err
}

func (r *Reader) Float64() (float64, error) {
	var v cosc.Float64
	err := r.Value(&v)
	return float64(v), err
}

func (r *Reader) Char() (byte, error) {
	var v cosc.Char
	err := r.Value(&v)
	return byte(v), err
}

func (r *Reader) MIDI() ([4]byte, error) {
	var v cosc.MIDI
	err := r.Value(&v)
	return [4]byte(v), err
}

func (r *Reader) String() (string, error) {
	var v cosc.String
	err := r.Value(&v)
	return string(v), err
}

// Blob reads a complete blob value in one call: the size prefix and the
// payload, without pushing a blob level. Use OpenBlob/Bytes/Close instead
// when the payload should be parsed incrementally (e.g. it is itself a
// nested OSC packet).
func (r *Reader) Blob() ([]byte, error) {
	lvl, err := r.level(KindMessage)
	if err != nil {
		return nil, err
	}
	t, ok := lvl.currentType()
	if !ok || t != 'b' {
		return nil, fmt.Errorf("oscserial: blob: expected type %q, at 'b': %w", t, cosc.ErrMsgType)
	}
	avail, err := r.take(r.remainingBytes())
	if err != nil {
		return nil, err
	}
	var bl cosc.Blob
	rest, err := (&bl).Consume(avail)
	if err != nil {
		return nil, err
	}
	r.advanceBy(len(avail) - len(rest))
	lvl.advance()
	return []byte(bl), nil
}

// Close pops the innermost level. If finalize is true, any outstanding
// type-tag elements (message levels) or unread bytes up to a level's
// declared length (blob levels) are skipped/consumed rather than treated as an error; a bundle
// level with a Declared bound advances the cursor to that bound regardless
// of how many children were actually opened and closed.
func (r *Reader) Close(finalize bool) error {
	if r.top < 0 {
		return fmt.Errorf("oscserial: close: %w", cosc.ErrLevelType)
	}
	lvl := &r.levels[r.top]
	if lvl.Kind == KindMessage && lvl.remaining() {
		if !finalize {
			return fmt.Errorf("oscserial: close: message has unread type-tag elements")
		}
		for lvl.remaining() {
			if lvl.atArrayBoundary() {
				lvl.cursor++
				continue
			}
			if err := r.Skip(); err != nil {
				return err
			}
		}
	}
	if lvl.Declared >= 0 {
		left := lvl.Start + lvl.Declared - r.pos
		if left > 0 {
			if !finalize {
				return fmt.Errorf("oscserial: close: %d declared bytes unread", left)
			}
			if _, err := r.take(left); err != nil {
				return err
			}
			r.advanceBy(left)
		} else if left < 0 {
			return fmt.Errorf("oscserial: close: read past declared length: %w", cosc.ErrOverrun)
		}
	}
	if lvl.Kind == KindBlob {
		// A blob's size prefix counts only its payload, not the padding
		// that follows; pad is computed from the declared payload size,
		// not from how much of it this Close call actually had to fill
		// in above.
		pad := wire.Pad(lvl.Declared)
		if pad > 0 {
			if _, err := r.take(pad); err != nil {
				return err
			}
			r.advanceBy(pad)
		}
	}
	wasBlob := lvl.Kind == KindBlob
	r.levels = r.levels[:r.top]
	r.top = len(r.levels) - 1
	if wasBlob && r.top >= 0 && r.levels[r.top].Kind == KindMessage {
		r.levels[r.top].advance()
	}
	return nil
}
