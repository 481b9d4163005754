package osc

import (
	"bytes"
	"reflect"
	"testing"
)

func TestBundleRoundTrip(t *testing.T) {
	inner := Bundle{
		Time: NewTimeTag(100, 0),
		Elements: []Element{
			Message{Address: "/inner", Arguments: []Argument{Int32(1)}},
		},
	}
	outer := Bundle{
		Time: Immediate,
		Elements: []Element{
			Message{Address: "/a", Arguments: []Argument{Int32(1), String("hi")}},
			inner,
			Message{Address: "/b"},
		},
	}

	enc, err := outer.Append(nil)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := ParseBundle(enc)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	if got.Time != outer.Time {
		t.Errorf("Time = %v, want %v", got.Time, outer.Time)
	}
	if len(got.Elements) != len(outer.Elements) {
		t.Fatalf("got %d elements, want %d", len(got.Elements), len(outer.Elements))
	}
	for i, want := range outer.Elements {
		if !reflect.DeepEqual(got.Elements[i], want) {
			t.Errorf("element %d = %+v, want %+v", i, got.Elements[i], want)
		}
	}

	gotEnc, err := got.Append(nil)
	if err != nil {
		t.Fatalf("Append(got): %v", err)
	}
	if !bytes.Equal(enc, gotEnc) {
		t.Errorf("unstable encoding:\n first: %q\nsecond: %q", enc, gotEnc)
	}
}

func TestParseBundleRejectsShort(t *testing.T) {
	if _, err := ParseBundle([]byte("short")); err == nil {
		t.Errorf("ParseBundle(short): want error")
	}
}

func TestParseBundleRejectsBadMarker(t *testing.T) {
	buf := append([]byte("NOTBNDL\x00"), make([]byte, 8)...)
	if _, err := ParseBundle(buf); err == nil {
		t.Errorf("ParseBundle(bad marker): want error")
	}
}
