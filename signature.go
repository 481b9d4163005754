package osc

import (
	"fmt"

	"github.com/gebauer/cosc/oscpattern"
	"github.com/gebauer/cosc/wire"
)

// WriteSignature appends address and typetag (typetag without its leading
// ',', which WriteSignature adds) to b as a pair of OSC strings, optionally
// preceded by a 4-byte big-endian length prefix sized to exactly the two
// strings that follow it. prefixed mirrors whether the packet this
// signature belongs to is itself length-prefixed (see oscserial's bundle
// and PSIZE rules).
func WriteSignature(b []byte, prefixed bool, address, typetag string) ([]byte, error) {
	tag := "," + typetag
	if ok, invalid := oscpattern.ValidateAddress(address); !ok {
		return nil, fmt.Errorf("osc: invalid address %q at byte %d: %w", address, invalid, ErrType)
	}
	if ok, invalid := oscpattern.ValidateTypeTag(tag); !ok {
		return nil, fmt.Errorf("osc: invalid type tag %q at byte %d: %w", tag, invalid, ErrType)
	}
	payload := String(address).Append(nil)
	payload = String(tag).Append(payload)
	// The length prefix that may follow this signature must itself leave
	// room for a further 8-byte minimum (message signature or bundle
	// header), per the contractual SIZE_MAX-8 ceiling.
	if len(payload) > SizeMax-8 {
		return nil, fmt.Errorf("osc: signature of %d bytes: %w", len(payload), ErrSizeMax)
	}
	if !prefixed {
		return append(b, payload...), nil
	}
	b = wire.AppendInt32(b, int32(len(payload)))
	return append(b, payload...), nil
}

// ReadSignature reads an address and type tag (without its leading ',')
// from the front of b, optionally preceded by a 4-byte length prefix that
// must exactly bound the two strings (at least 8 bytes, a multiple of 4,
// per the EPSIZE rule for message signatures).
func ReadSignature(b []byte, prefixed bool) (address, typetag string, rest []byte, err error) {
	var tail []byte
	if prefixed {
		if len(b) < 4 {
			return "", "", nil, fmt.Errorf("osc: signature length prefix: %w", ErrOverrun)
		}
		n := wire.Int32(b)
		if n < 8 || n%4 != 0 || int(n) > SizeMax-8 {
			return "", "", nil, fmt.Errorf("osc: signature length prefix %d: %w", n, ErrPSize)
		}
		b = b[4:]
		if len(b) < int(n) {
			return "", "", nil, fmt.Errorf("osc: signature: %w", ErrOverrun)
		}
		tail = b[n:]
		b = b[:n]
	}
	var addr String
	after, err := (&addr).Consume(b)
	if err != nil {
		return "", "", nil, fmt.Errorf("osc: signature address: %w", err)
	}
	var tag String
	after2, err := (&tag).Consume(after)
	if err != nil {
		return "", "", nil, fmt.Errorf("osc: signature type tag: %w", err)
	}
	if len(tag) == 0 || tag[0] != ',' {
		return "", "", nil, fmt.Errorf("osc: signature type tag %q: %w", string(tag), ErrType)
	}
	if prefixed {
		if len(after2) != 0 {
			return "", "", nil, fmt.Errorf("osc: signature length prefix %d: %d bytes past type tag: %w", len(b), len(after2), ErrPSize)
		}
		return string(addr), string(tag[1:]), tail, nil
	}
	return string(addr), string(tag[1:]), after2, nil
}
