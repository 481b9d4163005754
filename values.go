package osc

import "fmt"

// Array groups a run of argument values enclosed in an OSC 1.1 array
// bracket pair within a message's type tag. The brackets contribute no
// bytes of their own: an Array's wire encoding is simply its Elements'
// encodings back to back, in order.
type Array struct {
	Elements []Argument
}

// TypeTag returns '[' as a marker. It never appears as a lone character in
// an encoded type tag, which instead spells out the bracket plus one
// character per element (nested arrays included).
func (Array) TypeTag() byte { return '[' }

// Append appends each element's encoding in turn.
func (a Array) Append(b []byte) []byte {
	for _, e := range a.Elements {
		b = e.Append(b)
	}
	return b
}

// Consume always fails: decoding an array requires the type tag to know
// its shape, so WriteValues/ReadValues handle arrays directly rather than
// going through the Argument interface.
func (a Array) Consume(b []byte) ([]byte, error) {
	return nil, fmt.Errorf("osc: Array has no standalone wire encoding; use ReadValues")
}

func (a Array) String() string { return fmt.Sprintf("Array(%d elements)", len(a.Elements)) }

// WriteValues appends the wire encoding of args to b, checked against
// typetag (the payload portion of a type-tag string, without the leading
// ','). typetag's bracket structure must match args exactly: wherever
// typetag opens a '[', the corresponding element of args must be an
// Array, and that Array's Elements are checked against the bracket's
// contents recursively.
func WriteValues(b []byte, typetag string, args []Argument) ([]byte, error) {
	b, rest, n, err := writeValues(b, typetag, args)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("osc: type tag %q: unmatched ']': %w", typetag, ErrType)
	}
	if n != len(args) {
		return nil, fmt.Errorf("osc: %d argument(s) unused by type tag %q", len(args)-n, typetag)
	}
	return b, nil
}

func writeValues(b []byte, tag string, args []Argument) (out []byte, rest string, consumed int, err error) {
	i := 0
	for len(tag) > 0 {
		switch tag[0] {
		case ']':
			return b, tag[1:], i, nil
		case '[':
			if i >= len(args) {
				return nil, "", 0, fmt.Errorf("osc: not enough arguments for type tag %q", tag)
			}
			arr, ok := args[i].(Array)
			if !ok {
				return nil, "", 0, fmt.Errorf("osc: argument %d: type tag wants '[', got %T", i, args[i])
			}
			body, afterClose, serr := splitBracket(tag[1:])
			if serr != nil {
				return nil, "", 0, serr
			}
			// Cycle the bracket body against arr.Elements, rewinding to just
			// after '[' while values remain, the way cosc_write_values loops
			// tlen = array_start while vlen < values_n.
			elems := arr.Elements
			for pos := 0; pos < len(elems); {
				var werr error
				var n int
				b, _, n, werr = writeValues(b, body, elems[pos:])
				if werr != nil {
					return nil, "", 0, werr
				}
				if n == 0 {
					return nil, "", 0, fmt.Errorf("osc: array type tag %q consumes no values, cannot repeat", body)
				}
				pos += n
			}
			tag = afterClose
			i++
		default:
			if i >= len(args) {
				return nil, "", 0, fmt.Errorf("osc: not enough arguments for type tag %q", tag)
			}
			got, want := args[i].TypeTag(), tag[0]
			if got != want && !(want == 'S' && got == 's') {
				return nil, "", 0, fmt.Errorf("osc: argument %d type %q, type tag wants %q: %w", i, got, want, ErrMsgType)
			}
			b = args[i].Append(b)
			i++
			tag = tag[1:]
		}
	}
	return b, "", i, nil
}

// ReadValues decodes a sequence of values from the front of b, driven by
// typetag (the payload portion of a type-tag string, without the leading
// ','), returning the decoded arguments (with nested Arrays for bracketed
// runs) and the unconsumed remainder of b.
func ReadValues(b []byte, typetag string) ([]Argument, []byte, error) {
	args, rest, buf, err := readValues(b, typetag)
	if err != nil {
		return nil, nil, err
	}
	if rest != "" {
		return nil, nil, fmt.Errorf("osc: type tag %q: unmatched ']': %w", typetag, ErrType)
	}
	return args, buf, nil
}

func readValues(b []byte, tag string) (args []Argument, rest string, out []byte, err error) {
	for len(tag) > 0 {
		switch tag[0] {
		case ']':
			return args, tag[1:], b, nil
		case '[':
			body, afterClose, serr := splitBracket(tag[1:])
			if serr != nil {
				return nil, "", nil, serr
			}
			var elems []Argument
			if afterClose == "" && body != "" {
				// A trailing array has no encoded repeat count, so the only
				// unambiguous stopping point is buffer exhaustion, mirroring
				// cosc_read_values's array_start loop (which, absent a
				// values_n cap, never advances past the matching ']' either
				// -- it is only ever reachable once the whole buffer is
				// spent). A non-trailing array (more type tag follows the
				// ']') decodes exactly one group, since nothing in the wire
				// format distinguishes "repeat again" from "stop and decode
				// what follows" in that position.
				for len(b) > 0 {
					var group []Argument
					var innerRest string
					var innerBuf []byte
					var rerr error
					group, innerRest, innerBuf, rerr = readValues(b, body)
					if rerr != nil {
						return nil, "", nil, rerr
					}
					if innerRest != "" {
						return nil, "", nil, fmt.Errorf("osc: type tag %q: unmatched ']': %w", body, ErrType)
					}
					elems = append(elems, group...)
					b = innerBuf
				}
			} else if body != "" {
				group, innerRest, innerBuf, rerr := readValues(b, body)
				if rerr != nil {
					return nil, "", nil, rerr
				}
				if innerRest != "" {
					return nil, "", nil, fmt.Errorf("osc: type tag %q: unmatched ']': %w", body, ErrType)
				}
				elems = group
				b = innerBuf
			}
			args = append(args, Array{Elements: elems})
			tag = afterClose
		default:
			mk, ok := newByTypeTag[tag[0]]
			if !ok {
				return nil, "", nil, fmt.Errorf("osc: type tag %q: %w", string(tag[0]), ErrType)
			}
			a := mk()
			nb, cerr := a.Consume(b)
			if cerr != nil {
				return nil, "", nil, fmt.Errorf("osc: argument %d (%c): %w", len(args), tag[0], cerr)
			}
			args = append(args, a)
			b = nb
			tag = tag[1:]
		}
	}
	return args, "", b, nil
}

// TypeTag computes the type-tag payload (no leading ',') that describes
// args, recursing into Arrays to produce their bracketed sub-tags.
func TypeTag(args []Argument) string {
	b := make([]byte, 0, len(args))
	for _, a := range args {
		b = appendTypeTag(b, a)
	}
	return string(b)
}

func appendTypeTag(b []byte, a Argument) []byte {
	if arr, ok := a.(Array); ok {
		b = append(b, '[')
		for _, e := range arr.Elements {
			b = appendTypeTag(b, e)
		}
		return append(b, ']')
	}
	return append(b, a.TypeTag())
}

// splitBracket locates the ']' matching a '[' already consumed from the
// front of the caller's type tag, given the remainder tag (nested brackets,
// if any, are skipped over by tracking depth). It returns the bracket's
// body (not including the closing ']') and whatever follows the ']'.
func splitBracket(tag string) (body, after string, err error) {
	depth := 1
	for i := 0; i < len(tag); i++ {
		switch tag[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return tag[:i], tag[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("osc: type tag: unmatched '[': %w", ErrType)
}
