package osc

import "fmt"

// Message is a parsed OSC message: an address pattern and its typed
// arguments.
type Message struct {
	// Address is the message's address pattern, conventionally starting
	// with "/".
	Address string
	// Arguments are the message's values, in order. An Array groups a
	// bracketed run sharing OSC 1.1 array syntax.
	Arguments []Argument
}

// ParseMessage parses a message with no length prefix, as found standalone
// or as the payload of a UDP packet.
func ParseMessage(buf []byte) (*Message, error) {
	addr, typetag, rest, err := ReadSignature(buf, false)
	if err != nil {
		return nil, err
	}
	args, _, err := ReadValues(rest, typetag)
	if err != nil {
		return nil, fmt.Errorf("osc: message %q: %w", addr, err)
	}
	return &Message{Address: addr, Arguments: args}, nil
}

// Append encodes the message and appends it to b.
func (m Message) Append(b []byte) ([]byte, error) {
	typetag := TypeTag(m.Arguments)
	b, err := WriteSignature(b, false, m.Address, typetag)
	if err != nil {
		return nil, err
	}
	return WriteValues(b, typetag, m.Arguments)
}

func (m Message) String() string {
	return fmt.Sprintf("Message(%s, %d args)", m.Address, len(m.Arguments))
}
