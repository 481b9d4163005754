package osc

import (
	"bytes"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	const (
		maxAddr   = 30
		maxString = 25
		maxArgs   = 10
	)
	str := func() string {
		const chars = "abcdefghijklmnopqrstuvwzyz"
		b := make([]byte, rand.Intn(maxString))
		for i := range b {
			b[i] = chars[rand.Intn(len(chars))]
		}
		return string(b)
	}
	leaf := []func() Argument{
		func() Argument { return Int32(rand.Int31()) },
		func() Argument { return Float32(rand.Float32()) },
		func() Argument { return String(str()) },
		func() Argument { return Bool(true) },
		func() Argument { return Bool(false) },
		func() Argument { return Nil{} },
		func() Argument { return Impulse{} },
	}
	arguments := func() []Argument {
		as := make([]Argument, rand.Intn(maxArgs))
		for i := range as {
			as[i] = leaf[rand.Intn(len(leaf))]()
		}
		return as
	}
	address := func() string {
		path := make([]string, rand.Intn(maxAddr)+1)
		path[0] = ""
		for i := 1; i < len(path); i++ {
			path[i] = str()
		}
		return strings.Join(path, "/")
	}

	msgs := []Message{
		{Address: "/"},
		{Address: "/hi"},
		{Address: "/hi", Arguments: []Argument{}},
		{Address: "/array", Arguments: []Argument{Array{Elements: []Argument{Int32(1), Int32(2)}}}},
	}
	for i := 0; i < 200; i++ {
		msgs = append(msgs, Message{Address: address(), Arguments: arguments()})
	}

	for _, msg := range msgs {
		enc, err := msg.Append(nil)
		if err != nil {
			t.Errorf("Append(%v): %v", msg, err)
			continue
		}
		got, err := ParseMessage(enc)
		if err != nil {
			t.Errorf("ParseMessage: %v\n(%v)", err, msg)
			continue
		}
		gotEnc, err := got.Append(nil)
		if err != nil {
			t.Errorf("Append(got): %v", err)
			continue
		}
		if msg.Arguments == nil {
			msg.Arguments = []Argument{}
		}
		if !reflect.DeepEqual(msg.Arguments, got.Arguments) || msg.Address != got.Address {
			t.Errorf("Message did not survive round trip:\nwant: %+v\n got: %+v", msg, got)
		}
		if !bytes.Equal(enc, gotEnc) {
			t.Errorf("Unstable encoding:\n first: %q\nsecond: %q", enc, gotEnc)
		}
	}
}

func TestInt32(t *testing.T) {
	cases := []int32{math.MaxInt32, math.MinInt32, -1, 0, 1}
	for i := 0; i < 1000; i++ {
		cases = append(cases, rand.Int31())
	}
	for _, i := range cases {
		j := Int32(i)
		enc := j.Append(nil)
		var got Int32
		if _, err := (&got).Consume(enc); err != nil {
			t.Errorf("Int32(%d).Consume: unexpected error: %v", i, err)
			continue
		}
		if int32(got) != i {
			t.Errorf("Int32(%d) round trip = %d", i, got)
		}
	}
}

func TestStringConsume(t *testing.T) {
	nt := func(s string) []byte {
		b := append([]byte(s), 0)
		for len(b)%4 > 0 {
			b = append(b, 0)
		}
		return b
	}
	type testCase struct {
		in      []byte
		out     string
		tail    []byte
		wantErr bool
	}
	cases := []testCase{
		{in: []byte{'a', 'B', 'c', 0}, out: "aBc"},
		{in: []byte("not terminated"), wantErr: true},
		{in: []byte{}, wantErr: true},
		{in: []byte{0}, wantErr: true}, // padding runs past the buffer
		{in: []byte{0, 0, 0, 0}, out: ""},
	}
	const in = "on the longer side"
	for i := 0; i < len(in); i++ {
		cases = append(cases, testCase{
			in:   append(nt(in[:i]), in[i:]...),
			out:  in[:i],
			tail: []byte(in[i:]),
		})
	}
	for _, c := range cases {
		var got String
		gotTail, err := (&got).Consume(c.in)
		if err != nil {
			if !c.wantErr {
				t.Errorf("String.Consume(%q) = %v", c.in, err)
			}
			continue
		}
		if c.wantErr {
			t.Errorf("String.Consume(%q): wanted error", c.in)
			continue
		}
		if string(got) != c.out {
			t.Errorf("String.Consume(%q) = %q, want %q", c.in, got, c.out)
		}
		if !bytes.Equal(gotTail, c.tail) {
			t.Errorf("String.Consume(%q): tail = %q, want %q", c.in, gotTail, c.tail)
		}
	}
}

func TestArgRoundTrip(t *testing.T) {
	t.Run("Int32", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			testArgRoundTrip(t, Int32(rand.Int31()))
		}
	})
	t.Run("Float32", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			testArgRoundTrip(t, Float32(rand.Float32()))
		}
	})
	t.Run("String", func(t *testing.T) {
		const chars = "1234567890abcdefghijklmnop"
		for i := 0; i < 100; i++ {
			n := rand.Intn(25)
			b := make([]byte, n)
			for j := range b {
				b[j] = chars[rand.Intn(len(chars))]
			}
			testArgRoundTrip(t, String(b))
		}
	})
	t.Run("TimeTag", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			testArgRoundTrip(t, TimeTag(rand.Uint64()))
		}
	})
	t.Run("Blob", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			n := rand.Intn(40)
			b := make([]byte, n)
			rand.Read(b)
			if n == 0 {
				// An empty blob decodes to a nil Blob.
				b = nil
			}
			testArgRoundTrip(t, Blob(b))
		}
	})
}

func testArgRoundTrip(t *testing.T, a Argument) {
	t.Helper()
	enc := a.Append(nil)
	var tail [11]byte
	rand.Read(tail[:])
	enc = append(enc, tail[:]...)

	got, err := ZeroValue(a.TypeTag())
	if err != nil {
		t.Fatalf("ZeroValue(%c): %v", a.TypeTag(), err)
	}
	gotTail, err := got.Consume(enc)
	if err != nil {
		t.Fatalf("Round trip (%c: %v) failed: %v", a.TypeTag(), a, err)
	}
	gotVal := reflect.Indirect(reflect.ValueOf(got)).Interface()
	if !reflect.DeepEqual(a, gotVal) {
		t.Errorf("Round trip (%c) failed:\n got: %v\nwant: %v", a.TypeTag(), got, a)
	}
	if !bytes.Equal(tail[:], gotTail) {
		t.Errorf("Round trip (%c) failed: wrong leftovers after Consume:\n got: %x\nwant: %x", a.TypeTag(), gotTail, tail)
	}
}
