package osc

import (
	"math/rand"
	"testing"
)

func TestTimeTagRoundTrip(t *testing.T) {
	for i := 0; i < 10000; i++ {
		seconds := rand.Uint32()
		nanos := rand.Uint32() % 1000000000
		tt := NewTimeTag(seconds, nanos)
		s, n := tt.Time()
		if s != seconds {
			t.Fatalf("NewTimeTag(%d, %d).Time() seconds = %d, want %d", seconds, nanos, s, seconds)
		}
		// Both conversions round, with biases that make the round trip
		// return the same nanos; the check allows 1 ns of slack.
		diff := int64(n) - int64(nanos)
		if diff < -1 || diff > 1 {
			t.Errorf("NewTimeTag(%d, %d).Time() nanos = %d, want close to %d", seconds, nanos, n, nanos)
		}
	}
}

func TestTimeTagAppendConsume(t *testing.T) {
	for i := 0; i < 1000; i++ {
		tt := TimeTag(rand.Uint64())
		enc := tt.Append(nil)
		if len(enc) != 8 {
			t.Fatalf("TimeTag.Append: got %d bytes, want 8", len(enc))
		}
		var got TimeTag
		rest, err := (&got).Consume(enc)
		if err != nil {
			t.Fatalf("TimeTag.Consume: %v", err)
		}
		if len(rest) != 0 {
			t.Errorf("TimeTag.Consume: leftover %d bytes", len(rest))
		}
		if got != tt {
			t.Errorf("TimeTag round trip: got %d, want %d", got, tt)
		}
	}
}

func TestImmediate(t *testing.T) {
	s, ns := Immediate.Time()
	if s != 0 || ns != 0 {
		t.Errorf("Immediate.Time() = %d, %d, want 0, 0", s, ns)
	}
}
