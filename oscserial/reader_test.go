package oscserial

import (
	"testing"

	cosc "github.com/gebauer/cosc"
)

func TestReaderRoundTripMessage(t *testing.T) {
	w := NewWriter(nil, 1<<16, make([]Level, 0, 8), 0)
	if err := w.OpenMessage("/foo", "ifs"); err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if err := w.Int32(7); err != nil {
		t.Fatalf("Int32: %v", err)
	}
	if err := w.Float32(2.5); err != nil {
		t.Fatalf("Float32: %v", err)
	}
	if err := w.String("hello"); err != nil {
		t.Fatalf("String: %v", err)
	}
	if err := w.Close(false); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := NewReader(w.Bytes(), make([]Level, 0, 8), 0)
	addr, typetag, err := r.OpenMessage()
	if err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if addr != "/foo" || typetag != "ifs" {
		t.Fatalf("OpenMessage = %q, %q, want /foo, ifs", addr, typetag)
	}
	i, err := r.Int32()
	if err != nil || i != 7 {
		t.Fatalf("Int32 = %d, %v, want 7, nil", i, err)
	}
	f, err := r.Float32()
	if err != nil || f != 2.5 {
		t.Fatalf("Float32 = %f, %v, want 2.5, nil", f, err)
	}
	s, err := r.String()
	if err != nil || s != "hello" {
		t.Fatalf("String = %q, %v, want hello, nil", s, err)
	}
	if err := r.Close(false); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if r.Size() != len(w.Bytes()) {
		t.Errorf("Size() = %d, want %d", r.Size(), len(w.Bytes()))
	}
}

func TestReaderRoundTripBundle(t *testing.T) {
	w := NewWriter(nil, 1<<16, make([]Level, 0, 8), 0)
	if err := w.OpenBundle(cosc.Immediate); err != nil {
		t.Fatalf("OpenBundle: %v", err)
	}
	if err := w.OpenMessage("/a", "i"); err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if err := w.Int32(1); err != nil {
		t.Fatalf("Int32: %v", err)
	}
	if err := w.Close(false); err != nil {
		t.Fatalf("Close message: %v", err)
	}
	if err := w.Close(false); err != nil {
		t.Fatalf("Close bundle: %v", err)
	}

	r := NewReader(w.Bytes(), make([]Level, 0, 8), 0)
	tt, err := r.OpenBundle()
	if err != nil {
		t.Fatalf("OpenBundle: %v", err)
	}
	if tt != cosc.Immediate {
		t.Errorf("time tag = %v, want Immediate", tt)
	}
	addr, _, err := r.OpenMessage()
	if err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if addr != "/a" {
		t.Errorf("address = %q, want /a", addr)
	}
	if _, err := r.Int32(); err != nil {
		t.Fatalf("Int32: %v", err)
	}
	if err := r.Close(false); err != nil {
		t.Fatalf("Close message: %v", err)
	}
	if err := r.Close(false); err != nil {
		t.Fatalf("Close bundle: %v", err)
	}
}

func TestReaderPSizeRoundTrip(t *testing.T) {
	w := NewWriter(nil, 1<<16, make([]Level, 0, 8), PSize)
	if err := w.OpenMessage("/a", "i"); err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if err := w.Int32(1); err != nil {
		t.Fatalf("Int32: %v", err)
	}
	if err := w.Close(false); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.OpenMessage("/b", "i"); err != nil {
		t.Fatalf("second OpenMessage: %v", err)
	}
	if err := w.Int32(2); err != nil {
		t.Fatalf("Int32: %v", err)
	}
	if err := w.Close(false); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := NewReader(w.Bytes(), make([]Level, 0, 8), PSize)
	addr, _, err := r.OpenMessage()
	if err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if addr != "/a" {
		t.Errorf("address = %q, want /a", addr)
	}
	if _, err := r.Int32(); err != nil {
		t.Fatalf("Int32: %v", err)
	}
	if err := r.Close(false); err != nil {
		t.Fatalf("Close: %v", err)
	}
	addr2, _, err := r.OpenMessage()
	if err != nil {
		t.Fatalf("second OpenMessage: %v", err)
	}
	if addr2 != "/b" {
		t.Errorf("address = %q, want /b", addr2)
	}
}
