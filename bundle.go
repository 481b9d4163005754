package osc

import (
	"fmt"

	"github.com/gebauer/cosc/wire"
)

// bundleLiteral is the 8-byte marker that opens every bundle.
const bundleLiteral = "#bundle\x00"

// Element is a bundle element: either a Message or a nested Bundle. Both
// types satisfy it by value.
type Element interface {
	appendElement(b []byte) ([]byte, error)
}

func (m Message) appendElement(b []byte) ([]byte, error) {
	mb, err := m.Append(nil)
	if err != nil {
		return nil, err
	}
	b = wire.AppendInt32(b, int32(len(mb)))
	return append(b, mb...), nil
}

func (bun Bundle) appendElement(b []byte) ([]byte, error) {
	bb, err := bun.Append(nil)
	if err != nil {
		return nil, err
	}
	b = wire.AppendInt32(b, int32(len(bb)))
	return append(b, bb...), nil
}

// Bundle is a time-tagged, ordered sequence of nested messages and
// bundles. Per Invariant B1, every element is preceded by a 4-byte size
// prefix regardless of its kind, so a reader can skip elements it does not
// understand.
type Bundle struct {
	Time     TimeTag
	Elements []Element
}

// Append encodes the bundle and appends it to b. It does not add the
// bundle's own outer length prefix; callers nesting a Bundle inside
// another one get that from appendElement, and a top-level Append is
// unprefixed unless the caller adds one itself (e.g. via oscserial with
// PSIZE).
func (bun Bundle) Append(b []byte) ([]byte, error) {
	b = append(b, bundleLiteral...)
	b = bun.Time.Append(b)
	for i, e := range bun.Elements {
		var err error
		b, err = e.appendElement(b)
		if err != nil {
			return nil, fmt.Errorf("osc: bundle element %d: %w", i, err)
		}
	}
	return b, nil
}

func (bun Bundle) String() string {
	return fmt.Sprintf("Bundle(%v, %d elements)", bun.Time, len(bun.Elements))
}

// ParseBundle parses a bundle with no outer length prefix.
func ParseBundle(buf []byte) (*Bundle, error) {
	if len(buf) < 16 {
		return nil, fmt.Errorf("osc: bundle: %w", ErrOverrun)
	}
	if string(buf[:8]) != bundleLiteral {
		return nil, fmt.Errorf("osc: bundle marker %q: %w", buf[:8], ErrType)
	}
	var tt TimeTag
	rest, err := (&tt).Consume(buf[8:])
	if err != nil {
		return nil, fmt.Errorf("osc: bundle time tag: %w", err)
	}
	bun := &Bundle{Time: tt}
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("osc: bundle element length prefix: %w", ErrOverrun)
		}
		n := wire.Int32(rest)
		if n < 8 || n%4 != 0 || int(n) > len(rest)-4 {
			return nil, fmt.Errorf("osc: bundle element length %d: %w", n, ErrPSize)
		}
		elemBuf := rest[4 : 4+n]
		rest = rest[4+n:]
		el, err := parseElement(elemBuf)
		if err != nil {
			return nil, err
		}
		bun.Elements = append(bun.Elements, el)
	}
	return bun, nil
}

func parseElement(buf []byte) (Element, error) {
	if len(buf) >= 8 && string(buf[:8]) == bundleLiteral {
		b, err := ParseBundle(buf)
		if err != nil {
			return nil, err
		}
		return *b, nil
	}
	m, err := ParseMessage(buf)
	if err != nil {
		return nil, err
	}
	return *m, nil
}
