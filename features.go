package osc

// Feature queries, preserved for API parity with cosc's compile-time
// feature flags (COSC_NOARRAY, COSC_NOPATTERN, COSC_NO64, ...). This module
// targets a modern 64-bit, IEEE-754 platform, so every switch is always on;
// nothing in this package alters observable behavior based on them.

// SupportsInt64 reports whether 64-bit integer atoms (h, t) are supported.
func SupportsInt64() bool { return true }

// SupportsFloat32 reports whether the f atom is supported.
func SupportsFloat32() bool { return true }

// SupportsFloat64 reports whether the d atom is supported.
func SupportsFloat64() bool { return true }

// SupportsArrays reports whether the OSC 1.1 `[...]` type-tag array syntax
// is supported.
func SupportsArrays() bool { return true }

// SupportsPatternMatching reports whether oscpattern.Match is available.
func SupportsPatternMatching() bool { return true }

// SupportsTimeTag reports whether time tag <-> (seconds, nanos) conversion
// is available.
func SupportsTimeTag() bool { return true }

// SupportsWriter reports whether oscserial.Writer is available.
func SupportsWriter() bool { return true }

// SupportsReader reports whether oscserial.Reader is available.
func SupportsReader() bool { return true }
