package engine

import "unicode/utf8"

// Replacement is substituted by decoders for bytes they cannot interpret.
const Replacement = utf8.RuneError

// Engine is a named encode/decode transform between text and bytes.
//
// Implementations must be stateless: Encode and Decode are pure functions of
// their input.
type Engine interface {
	// Name returns the engine's display name. It must not be empty and is
	// used both for rendering and for comparing tree nodes.
	Name() string

	// Encode represents every rune of s in the engine's repertoire.
	// It reports false when at least one rune cannot be represented; this is
	// not a fault, the branch simply does not exist.
	Encode(s string) ([]byte, bool)

	// Decode interprets b and never fails: bytes or byte runs the engine
	// cannot interpret are replaced with U+FFFD.
	Decode(b []byte) string
}

// Default returns the engine list used by the command line tool, in order.
// A fresh slice is returned on every call.
func Default() []Engine {
	return []Engine{
		UTF8(),
		Latin1(),
		Latin2(),
		CP1253(),
		Mixed816BE(),
		Mixed816LE(),
		UTF7(),
	}
}

// Names returns the display names of engines, in order.
func Names(engines []Engine) []string {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Name()
	}
	return names
}
