// Package oscserial implements the streaming OSC serializer/deserializer:
// a Writer and a Reader, each maintaining a stack of levels (bundle,
// message, blob) so that nested packets and length-prefixed blobs can be
// written or parsed incrementally, with size back-patching performed on
// level close.
package oscserial

// Kind identifies what a Level represents.
type Kind int

const (
	// KindBundle is a bundle level: "#bundle\0" + time tag + children.
	KindBundle Kind = iota
	// KindMessage is a message level: address + type tag + values.
	KindMessage
	// KindBlob is a blob level: the payload of a single 'b' value.
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindBundle:
		return "bundle"
	case KindMessage:
		return "message"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Level is one frame of a Writer or Reader's nesting stack.
type Level struct {
	Kind Kind
	// Start is the buffer offset at which this level's own content began
	// (after any length prefix it wrote/read).
	Start int
	// PrefixAt is the buffer offset of this level's 4-byte size
	// placeholder, or -1 if it did not reserve one.
	PrefixAt int
	// Written is the number of bytes produced/consumed while this level was
	// the innermost open level, not counting its own prefix; bytes of a
	// nested level are credited to that level instead.
	Written int

	// typeTag is the message's payload type tag (message levels only):
	// everything after the leading ',', brackets included verbatim.
	typeTag string
	// cursor is the index into typeTag of the next character to
	// interpret.
	cursor int
	// arrayOpen is the index just after the most recently opened '[', or
	// -1 if no array is currently open.
	arrayOpen int

	// Declared is, for a Reader level that carried a length prefix, the
	// number of content bytes the prefix promised (used to bound nested
	// reads); -1 if the level carries no such bound.
	Declared int
}

// reset clears a level for reuse.
func (l *Level) reset() { *l = Level{PrefixAt: -1, arrayOpen: -1, Declared: -1} }

// currentType reports the next payload type character a message level
// expects, skipping over any '[' transparently (and remembering where it
// opened). ok is false if the type tag is exhausted or the cursor is
// sitting exactly at an unmatched ']' (an array boundary).
func (l *Level) currentType() (t byte, ok bool) {
	for l.cursor < len(l.typeTag) && l.typeTag[l.cursor] == '[' {
		l.arrayOpen = l.cursor + 1
		l.cursor++
	}
	if l.cursor >= len(l.typeTag) {
		return 0, false
	}
	if l.typeTag[l.cursor] == ']' {
		return 0, false
	}
	return l.typeTag[l.cursor], true
}

// atArrayBoundary reports whether the cursor sits exactly at an unmatched
// ']' with an open array to rewind to.
func (l *Level) atArrayBoundary() bool {
	return l.arrayOpen >= 0 && l.cursor < len(l.typeTag) && l.typeTag[l.cursor] == ']'
}

// advance moves the cursor past the type character most recently matched.
func (l *Level) advance() { l.cursor++ }

// remaining reports whether a message level still has type characters
// outstanding; it is always false for other kinds. A ']' that ends the type
// tag closes a complete group, so it leaves nothing outstanding.
func (l *Level) remaining() bool {
	if l.Kind != KindMessage {
		return false
	}
	_, ok := l.currentType()
	return ok || (l.atArrayBoundary() && l.cursor+1 < len(l.typeTag))
}

// MsgType returns the message level's next expected type-tag character, or
// 0 if the type tag is exhausted (including sitting at an unrewound array
// boundary).
func (l *Level) MsgType() byte {
	t, ok := l.currentType()
	if !ok {
		return 0
	}
	return t
}
