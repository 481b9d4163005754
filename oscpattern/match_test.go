package oscpattern

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{"/foo", "/foo", true},
		{"/foo", "/bar", false},
		{"/foo/*", "/foo/bar", true},
		{"/foo/*", "/foo/bar/baz", true},
		{"/foo/*/baz", "/foo/bar/baz", true},
		{"/foo/?", "/foo/b", true},
		{"/foo/?", "/foo/bb", false},
		{"/foo/[ab]", "/foo/a", true},
		{"/foo/[ab]", "/foo/c", false},
		{"/foo/[!ab]", "/foo/c", true},
		{"/foo/[a-c]", "/foo/b", true},
		{"/foo/[a-c]", "/foo/d", false},
		{"/foo/{bar,baz}", "/foo/bar", true},
		{"/foo/{bar,baz}", "/foo/qux", false},
		{"/*", "/anything", true},
		{"/foo/#", "/foo/5", true},
		{"/foo/#", "/foo/x", false},
	}
	for _, c := range cases {
		got := Match(c.pattern, c.s)
		if got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.s, got, c.want)
		}
	}
}

func TestMatchTypeTag(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{",i", ",i", true},
		{",#", ",i", true},
		{",#", ",s", false},
		{",B", ",T", true},
		{",B", ",F", true},
		{",B", ",i", false},
		{",s[ii]", ",s[ii]", true},
	}
	for _, c := range cases {
		got := Match(c.pattern, c.s)
		if got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.s, got, c.want)
		}
	}
}

func TestMatchSignature(t *testing.T) {
	var buf []byte
	buf = append(buf, '/', 'f', 'o', 'o', 0, 0, 0, 0)
	buf = append(buf, ',', 'i', 0, 0)
	ok, err := MatchSignature(buf, false, "/foo", ",i")
	if err != nil {
		t.Fatalf("MatchSignature: %v", err)
	}
	if !ok {
		t.Errorf("MatchSignature: want match")
	}
	ok, err = MatchSignature(buf, false, "/bar", ",i")
	if err != nil {
		t.Fatalf("MatchSignature: %v", err)
	}
	if ok {
		t.Errorf("MatchSignature: want no match")
	}
}
