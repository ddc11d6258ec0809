package engine

import (
	"golang.org/x/text/encoding/unicode"
)

type utf8Engine struct{}

// UTF8 returns the UTF-8 engine. Encoding always succeeds; decoding replaces
// invalid bytes with U+FFFD.
func UTF8() Engine {
	return utf8Engine{}
}

func (utf8Engine) Name() string { return "UTF-8" }

func (utf8Engine) Encode(s string) ([]byte, bool) {
	return []byte(s), true
}

func (utf8Engine) Decode(b []byte) string {
	return lossyUTF8(b)
}

// lossyUTF8 converts b to a valid UTF-8 string, replacing ill-formed bytes
// with U+FFFD.
func lossyUTF8(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		// unreachable: the x/text UTF-8 decoder substitutes U+FFFD
		return string([]rune(string(b)))
	}
	return string(out)
}
