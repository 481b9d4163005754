package oscpattern

import "encoding/binary"

// Match reports whether s matches pattern, using the OSC address-pattern
// mini-language: `?` any one byte, `*` zero or more bytes, `[...]`/`[!...]`
// a (negated) character class, `{a,b,c}` string alternation, and this
// package's extensions `#` (any digit) and `B` (no effect outside a type
// tag). If either s or pattern looks like a type tag (starts with `,`),
// matching runs in type-tag mode: array brackets in s are skipped over,
// `#` matches any numeric type letter, and `B` matches `T` or `F`.
func Match(pattern, s string) bool {
	isTypeTag := (len(s) > 0 && s[0] == ',') || (len(pattern) > 0 && pattern[0] == ',')
	si, pi := 0, 0
	if len(s) > 0 && s[0] == ',' {
		si++
	}
	if len(pattern) > 0 && pattern[0] == ',' {
		pi++
	}
	if (len(s) == 0 || s == "\x00") && (len(pattern) == 0 || pattern == "\x00") {
		return true
	}

	for si < len(s) && s[si] != 0 && pi < len(pattern) && pattern[pi] != 0 {
		if isTypeTag && (s[si] == '[' || s[si] == ']') {
			si++
			continue
		}
		switch pattern[pi] {
		case '?':
			pi++
			si++
			continue
		case '#':
			if isTypeTag {
				if !isNumericType(s[si]) {
					return false
				}
			} else if s[si] < '0' || s[si] > '9' {
				return false
			}
			pi++
			si++
			continue
		case 'B':
			if isTypeTag {
				if s[si] != 'T' && s[si] != 'F' {
					return false
				}
				pi++
				si++
				continue
			}
		case '*':
			for pi < len(pattern) && pattern[pi] == '*' {
				pi++
			}
			if pi >= len(pattern) || pattern[pi] == 0 {
				return true
			}
			for si < len(s) && s[si] != 0 && s[si] != pattern[pi] {
				si++
			}
			if si >= len(s) || s[si] != pattern[pi] {
				return false
			}
			pi++
			si++
			continue
		case '[':
			ok, plen := charsetMatch(s[si], pattern[pi:])
			if !ok {
				return false
			}
			si++
			pi += plen
			continue
		case '{':
			ok, plen, slen := stringsetMatch(s[si:], pattern[pi:])
			if !ok {
				return false
			}
			si += slen
			pi += plen
			continue
		}
		if s[si] == pattern[pi] {
			pi++
			si++
			continue
		}
		return false
	}
	if isTypeTag && si < len(s) && s[si] == ']' {
		si++
	}

	for pi < len(pattern) {
		switch {
		case pattern[pi] == '*':
			pi++
		case pattern[pi] == '[':
			ok, plen := charsetMatch(0, pattern[pi:])
			if !ok {
				return false
			}
			pi += plen
		case pattern[pi] == '{':
			ok, plen, _ := stringsetMatch("", pattern[pi:])
			if !ok {
				return false
			}
			pi += plen
		case pattern[pi] == 0:
			pi = len(pattern)
		default:
			return false
		}
	}

	return (si >= len(s) || s[si] == 0) && (pi >= len(pattern) || pattern[pi] == 0)
}

func isNumericType(c byte) bool {
	switch c {
	case 'i', 'r', 'f', 'h', 't', 'd':
		return true
	}
	return false
}

// charsetMatch matches a single byte (0 meaning "no more input") against a
// leading `[...]`/`[!...]` character class in pattern, returning whether it
// matched and how many pattern bytes the class consumed. A `lo-hi` pair
// inside the brackets (grounded on the teacher's parseCharClass) expands to
// the inclusive range of bytes; an empty class `[]` matches nothing.
func charsetMatch(c byte, pattern string) (ok bool, forward int) {
	n := len(pattern)
	if n < 2 || pattern[0] != '[' || c == 0 {
		return false, 0
	}
	i := 1
	negate := false
	if i < n && pattern[i] == '!' {
		negate = true
		i++
	}
	found := false
	for i < n && pattern[i] != 0 && pattern[i] != ']' {
		if pattern[i] == '-' && i > 1 && i+1 < n && pattern[i+1] != ']' && pattern[i-1] != '[' && pattern[i-1] != '!' {
			lo, hi := pattern[i-1], pattern[i+1]
			if lo <= hi && lo <= c && c <= hi {
				found = true
			}
			i += 2
			continue
		}
		if pattern[i] == c {
			found = true
		}
		i++
	}
	if i < n && pattern[i] == ']' {
		i++
		if negate {
			found = !found
		}
		return found, i
	}
	return false, i
}

// stringsetMatch matches s against a leading `{a,b,c}` alternation in
// pattern. It returns whether one alternative matched as a prefix of s, how
// many pattern bytes the whole `{...}` consumed, and how many bytes of s
// the matched alternative consumed.
func stringsetMatch(s, pattern string) (ok bool, forward, sforward int) {
	n := len(pattern)
	if n < 2 || pattern[0] != '{' {
		return false, 0, 0
	}
	i := 1
	matchedLen := 0
	for i < n && pattern[i] != 0 && pattern[i] != '}' {
		end := i
		for end < n && pattern[end] != 0 && pattern[end] != '}' && pattern[end] != ',' {
			end++
		}
		alt := pattern[i:end]
		if len(alt) <= len(s) && s[:len(alt)] == alt {
			matchedLen = len(alt)
			i = end
			for i < n && pattern[i] != 0 && pattern[i] != '}' {
				i++
			}
			break
		}
		matchedLen = 0
		i = end + 1
	}
	if i < n && pattern[i] == '}' {
		i++
		return true, i, matchedLen
	}
	return false, i, 0
}

// MatchSignature decodes an OSC signature (address, type tag) from buf --
// optionally preceded by a 4-byte big-endian length prefix -- and reports
// whether addrPattern matches the address and typetagPattern matches the
// type tag.
func MatchSignature(buf []byte, prefixed bool, addrPattern, typetagPattern string) (bool, error) {
	if prefixed {
		if len(buf) < 12 {
			return false, errShortSignature
		}
		prefix := int32(binary.BigEndian.Uint32(buf))
		if prefix < 8 || prefix > sizeMax-8 || prefix%4 != 0 {
			return false, errBadPrefix
		}
		buf = buf[4:]
	} else if len(buf) < 8 {
		return false, errShortSignature
	}
	end := indexByte(buf, 0)
	if end < 0 {
		return false, errShortSignature
	}
	addr := string(buf[:end])
	rest := buf[padLen(end+1):]
	end2 := indexByte(rest, 0)
	if end2 < 0 {
		return false, errShortSignature
	}
	tt := string(rest[:end2])
	return Match(addrPattern, addr) && Match(typetagPattern, tt), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func padLen(n int) int {
	return n + (4-n%4)%4
}

const sizeMax = 1<<31 - 4
