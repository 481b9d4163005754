package osc

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/exp/constraints"
)

// Send builds and sends a message using the provided arguments, to the
// given address at the given network address.
func Send(conn net.PacketConn, addr, address string, args ...Argument) error {
	nAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	msg := Message{
		Address:   address,
		Arguments: args,
	}
	b := getBuf()
	defer putBuf(b)
	b, err = msg.Append(b)
	if err != nil {
		return err
	}
	_, err = conn.WriteTo(b, nAddr)
	return err
}

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 1024)
		return &b
	},
}

func getBuf() []byte {
	b := bufPool.Get().(*[]byte)
	return (*b)[:0]
}

func putBuf(b []byte) {
	bufPool.Put(&b)
}

func AsString(s string) *String {
	os := String(s)
	return &os
}

func AsInt32[T constraints.Integer](i T) *Int32 {
	ii := Int32(i)
	return &ii
}

func AsInt64[T constraints.Integer](i T) *Int64 {
	ii := Int64(i)
	return &ii
}

func AsFloat64[T constraints.Float](f T) *Float64 {
	ff := Float64(f)
	return &ff
}

// SendBundle builds and sends a bundle of messages at the given time tag,
// to the given network address.
func SendBundle(conn net.PacketConn, addr string, tt TimeTag, msgs ...Message) error {
	nAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	elements := make([]Element, len(msgs))
	for i, m := range msgs {
		elements[i] = m
	}
	bun := Bundle{Time: tt, Elements: elements}
	b := getBuf()
	defer putBuf(b)
	b, err = bun.Append(b)
	if err != nil {
		return fmt.Errorf("osc: send bundle: %w", err)
	}
	_, err = conn.WriteTo(b, nAddr)
	return err
}
