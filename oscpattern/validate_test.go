package oscpattern

import "testing"

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"/foo/bar", true},
		{"/foo/1/2", true},
		{"", true},
		{"/foo bar", false},
		{"/foo*bar", false},
		{"/foo[bar", false},
		{"/foo,bar", false},
	}
	for _, c := range cases {
		ok, _ := ValidateAddress(c.in)
		if ok != c.ok {
			t.Errorf("ValidateAddress(%q) = %v, want %v", c.in, ok, c.ok)
		}
	}
}

func TestValidateTypeTag(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{",", true},
		{",ifs", true},
		{",[ii]", true},
		{",s[ii]s", true},
		{",[ii]s", true},
		{"", false},
		{"ifs", false},
		{",x", false},
		{",[[i]]", false},
		{",[i", false},
	}
	for _, c := range cases {
		ok, _ := ValidateTypeTag(c.in)
		if ok != c.ok {
			t.Errorf("ValidateTypeTag(%q) = %v, want %v", c.in, ok, c.ok)
		}
	}
}

func TestValidatePattern(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"/foo/*", true},
		{"/foo/[ab]", true},
		{"/foo/{a,b}", true},
		{"/foo/[ab", false},
		{"/foo/{a,b", false},
		{"/foo/[a{b]}", false},
	}
	for _, c := range cases {
		ok, _ := ValidatePattern(c.in)
		if ok != c.ok {
			t.Errorf("ValidatePattern(%q) = %v, want %v", c.in, ok, c.ok)
		}
	}
}

func TestTypeTagPayload(t *testing.T) {
	payload, n := TypeTagPayload(",s[ii]f")
	if payload != "siif" || n != 2 {
		t.Errorf("TypeTagPayload = %q, %d, want %q, %d", payload, n, "siif", 2)
	}
}
