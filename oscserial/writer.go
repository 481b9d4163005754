package oscserial

import (
	"fmt"

	cosc "github.com/gebauer/cosc"
	"github.com/gebauer/cosc/oscpattern"
	"github.com/gebauer/cosc/wire"
)

// Writer incrementally encodes a tree of OSC bundles and messages into a
// caller-supplied buffer, backed by a caller-supplied level stack. It never
// allocates beyond what append needs to grow buf past its starting
// capacity, and it never blocks.
type Writer struct {
	buf     []byte
	bufSize int // ceiling in bytes; writes beyond it fail with ErrOverrun
	levels  []Level
	top     int // index of the innermost open level, -1 if none
	flags   Flags
	wroteTop bool // an unprefixed outermost packet has already been written
}

// NewWriter creates a Writer appending into buf (which may be nil or have
// spare capacity already) up to bufSize total bytes, using levels as its
// nesting stack (capping nesting depth at cap(levels)).
func NewWriter(buf []byte, bufSize int, levels []Level, flags Flags) *Writer {
	w := &Writer{buf: buf, bufSize: bufSize, levels: levels[:0], flags: flags}
	w.top = -1
	return w
}

// Bytes returns the buffer written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset empties the level stack and write cursor without touching the
// already-written bytes in the buffer (a subsequent write overwrites them).
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.levels = w.levels[:0]
	w.top = -1
	w.wroteTop = false
}

// Size returns the number of bytes written so far.
func (w *Writer) Size() int { return len(w.buf) }

// BufferSize returns the configured buffer size ceiling.
func (w *Writer) BufferSize() int { return w.bufSize }

// MsgType returns the innermost message level's next expected type-tag
// character, 0 if its type tag is exhausted, or ErrLevelType if the
// innermost level is not a message.
func (w *Writer) MsgType() (byte, error) {
	lvl, err := w.level(KindMessage)
	if err != nil {
		return 0, err
	}
	return lvl.MsgType(), nil
}

func (w *Writer) level(want Kind) (*Level, error) {
	if w.top < 0 {
		return nil, fmt.Errorf("oscserial: no open level: %w", cosc.ErrLevelType)
	}
	lvl := &w.levels[w.top]
	if lvl.Kind != want {
		return nil, fmt.Errorf("oscserial: innermost level is %s, not %s: %w", lvl.Kind, want, cosc.ErrLevelType)
	}
	return lvl, nil
}

// append grows w.buf by p, enforcing the buffer size ceiling, and advances
// the innermost level's Written counter.
func (w *Writer) append(p []byte) error {
	if w.bufSize > 0 && len(w.buf)+len(p) > w.bufSize {
		return fmt.Errorf("oscserial: write of %d bytes: %w", len(p), cosc.ErrOverrun)
	}
	w.buf = append(w.buf, p...)
	if w.top >= 0 {
		w.levels[w.top].Written += len(p)
	}
	return nil
}

// reservePrefix appends a 4-byte placeholder and returns its offset.
func (w *Writer) reservePrefix() (int, error) {
	at := len(w.buf)
	if err := w.append([]byte{0, 0, 0, 0}); err != nil {
		return -1, err
	}
	return at, nil
}

func (w *Writer) pushLevel(kind Kind, prefixAt int) (*Level, error) {
	if len(w.levels) >= cap(w.levels) {
		return nil, fmt.Errorf("oscserial: level stack full: %w", cosc.ErrLevelMax)
	}
	w.levels = w.levels[:len(w.levels)+1]
	lvl := &w.levels[len(w.levels)-1]
	lvl.reset()
	lvl.Kind = kind
	lvl.Start = len(w.buf)
	lvl.PrefixAt = prefixAt
	w.top = len(w.levels) - 1
	return lvl, nil
}

// needsPrefix reports whether opening a new level right now requires a
// length prefix: mandatory for any child of a bundle, or for an outermost
// packet when PSize is set.
func (w *Writer) needsPrefix() (need bool, outer bool) {
	if w.top < 0 {
		return w.flags.Has(PSize), true
	}
	return w.levels[w.top].Kind == KindBundle, false
}

// checkOuterOnce enforces the "one unprefixed top-level packet per serial
// lifetime" rule (ErrPSizeFlag).
func (w *Writer) checkOuterOnce(outer, prefixed bool) error {
	if !outer || prefixed {
		return nil
	}
	if w.wroteTop {
		return fmt.Errorf("oscserial: second unprefixed top-level packet: %w", cosc.ErrPSizeFlag)
	}
	w.wroteTop = true
	return nil
}

// OpenBundle pushes a bundle level and writes "#bundle\0" + the time tag.
// A bundle may nest inside another bundle but not inside a message or
// blob.
func (w *Writer) OpenBundle(tt cosc.TimeTag) error {
	if w.top >= 0 && w.levels[w.top].Kind != KindBundle {
		return fmt.Errorf("oscserial: open bundle: %w", cosc.ErrLevelType)
	}
	need, outer := w.needsPrefix()
	var prefixAt = -1
	if need {
		if err := w.checkOuterOnce(outer, true); err != nil {
			return err
		}
		var err error
		prefixAt, err = w.reservePrefix()
		if err != nil {
			return err
		}
	} else if err := w.checkOuterOnce(outer, false); err != nil {
		return err
	}
	lvl, err := w.pushLevel(KindBundle, prefixAt)
	if err != nil {
		return err
	}
	lvl.Start = len(w.buf)
	if err := w.append([]byte("#bundle\x00")); err != nil {
		return err
	}
	if err := w.append(tt.Append(nil)); err != nil {
		return err
	}
	return nil
}

// OpenMessage pushes a message level and writes the address + type tag
// signature. A message may nest inside a bundle or a blob (embedding a
// whole OSC packet as a blob's payload) but not directly inside another
// message.
func (w *Writer) OpenMessage(address, typetag string) error {
	if w.top >= 0 && w.levels[w.top].Kind == KindMessage {
		return fmt.Errorf("oscserial: open message: %w", cosc.ErrLevelType)
	}
	if ok, _ := oscpattern.ValidateTypeTag("," + typetag); !ok {
		return fmt.Errorf("oscserial: invalid type tag %q: %w", typetag, cosc.ErrType)
	}
	need, outer := w.needsPrefix()
	var prefixAt = -1
	if need {
		if err := w.checkOuterOnce(outer, true); err != nil {
			return err
		}
		var err error
		prefixAt, err = w.reservePrefix()
		if err != nil {
			return err
		}
	} else if err := w.checkOuterOnce(outer, false); err != nil {
		return err
	}
	lvl, err := w.pushLevel(KindMessage, prefixAt)
	if err != nil {
		return err
	}
	lvl.Start = len(w.buf)
	if err := w.append(cosc.String(address).Append(nil)); err != nil {
		return err
	}
	tt := "," + typetag
	if err := w.append(cosc.String(tt).Append(nil)); err != nil {
		return err
	}
	lvl.typeTag = typetag
	lvl.cursor = 0
	lvl.arrayOpen = -1
	return nil
}

// OpenBlob pushes a blob level and reserves 4 bytes for its size prefix.
// Only valid when the innermost message level's next expected type is 'b'.
func (w *Writer) OpenBlob() error {
	parent, err := w.level(KindMessage)
	if err != nil {
		return fmt.Errorf("oscserial: open blob: %w", cosc.ErrLevelType)
	}
	t, ok := parent.currentType()
	if !ok || t != 'b' {
		return fmt.Errorf("oscserial: open blob: expected type %q, at 'b': %w", t, cosc.ErrMsgType)
	}
	prefixAt, perr := w.reservePrefix()
	if perr != nil {
		return perr
	}
	lvl, err := w.pushLevel(KindBlob, prefixAt)
	if err != nil {
		return err
	}
	lvl.Start = len(w.buf)
	return nil
}

// WriteBytes writes raw bytes. Only valid while the innermost level is a
// blob; no padding and no type-tag interaction.
func (w *Writer) WriteBytes(p []byte) error {
	if _, err := w.level(KindBlob); err != nil {
		return err
	}
	return w.append(p)
}

// Repeat rewinds the innermost message level's type-tag cursor to just
// after the last '[', letting the caller emit further array members.
// Errors if no array is open or the cursor is not at a ']'.
func (w *Writer) Repeat() error {
	lvl, err := w.level(KindMessage)
	if err != nil {
		return err
	}
	if !lvl.atArrayBoundary() {
		return fmt.Errorf("oscserial: repeat: not at a closed array: %w", cosc.ErrLevelType)
	}
	lvl.cursor = lvl.arrayOpen
	return nil
}

// Value writes an arbitrary Argument, checked against the innermost
// message level's expected type tag character (both 's' and 'S' accept a
// String).
func (w *Writer) Value(v cosc.Argument) error {
	lvl, err := w.level(KindMessage)
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
	if err := w.append(v.Append(nil)); err != nil {
		return err
	}
	lvl.advance()
	return nil
}

// Skip writes the zero/empty value for the innermost message level's next
// expected type and advances past it.
func (w *Writer) Skip() error {
	lvl, err := w.level(KindMessage)
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
	return w.Value(zero)
}

func (w *Writer) Int32(v int32) error     { return w.Value(cosc.Int32(v)) }
func (w *Writer) Uint32(v uint32) error    { return w.Value(cosc.Uint32(v)) }
func (w *Writer) Float32(v float32) error  { return w.Value(cosc.Float32(v)) }
func (w *Writer) Int64(v int64) error      { return w.Value(cosc.Int64(v)) }
func (w *Writer) Uint64(v uint64) error    { return w.Value(cosc.TimeTag(v)) }
func (w *Writer) Float64(v float64) error  { return w.Value(cosc.Float64(v)) }
func (w *Writer) Char(v byte) error        { return w.Value(cosc.Char(v)) }
func (w *Writer) MIDI(v [4]byte) error     { return w.Value(cosc.MIDI(v)) }
func (w *Writer) String(v string) error    { return w.Value(cosc.String(v)) }

// Blob writes a complete blob value in one call: the size prefix, the
// payload, and padding, without pushing a blob level. Use OpenBlob/
// WriteBytes/Close instead when the payload must be assembled incrementally (e.g. it
// is itself a nested OSC packet).
func (w *Writer) Blob(data []byte) error {
	lvl, err := w.level(KindMessage)
	if err != nil {
		return err
	}
	t, ok := lvl.currentType()
	if !ok || t != 'b' {
		return fmt.Errorf("oscserial: blob: expected type %q, at 'b': %w", t, cosc.ErrMsgType)
	}
	if err := w.append(cosc.Blob(data).Append(nil)); err != nil {
		return err
	}
	lvl.advance()
	return nil
}

// Close pops the innermost level, back-patching its length prefix (if it
// reserved one) with the observed size. If finalize is true and the level
// still has outstanding type-tag elements or, for a blob, no special
// padding is owed beyond the usual 4-byte alignment, the remainder is
// padded with zero values so the on-wire size matches what the type tag or
// blob declared. If finalize is false and anything is outstanding, Close
// returns an error rather than guessing.
func (w *Writer) Close(finalize bool) error {
	if w.top < 0 {
		return fmt.Errorf("oscserial: close: %w", cosc.ErrLevelType)
	}
	lvl := &w.levels[w.top]
	if lvl.Kind == KindMessage && lvl.remaining() {
		if !finalize {
			return fmt.Errorf("oscserial: close: message has unwritten type-tag elements")
		}
		for lvl.remaining() {
			if lvl.atArrayBoundary() {
				// step past the array's ']' and pad what follows it.
				lvl.cursor++
				continue
			}
			if err := w.Skip(); err != nil {
				return err
			}
		}
	}
	if lvl.Kind == KindBlob {
		pad := wire.Pad(lvl.Written)
		if pad > 0 {
			if err := w.append(make([]byte, pad)); err != nil {
				return err
			}
		}
	}
	size := len(w.buf) - lvl.Start
	if lvl.PrefixAt >= 0 {
		wire.PutInt32(w.buf[lvl.PrefixAt:lvl.PrefixAt+4], int32(size))
	}
	wasBlob := lvl.Kind == KindBlob
	w.levels = w.levels[:w.top]
	w.top = len(w.levels) - 1
	if wasBlob && w.top >= 0 && w.levels[w.top].Kind == KindMessage {
		// a blob value always corresponds to one 'b' in the parent
		// message's type tag; closing it completes that value.
		w.levels[w.top].advance()
	}
	return nil
}
