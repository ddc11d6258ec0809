package engine

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"
)

// Mixed816 is a mixed single-byte/double-byte scheme: ASCII runes are written
// as one byte, every other rune as its UTF-16 code units in the configured
// byte order.
//
// No standard charset works this way. It models software that treats ASCII
// as UTF-8 and everything else as UTF-16, which yields strings that can be
// encoded but not decoded back, and decodings where one non-ASCII byte
// swallows the ASCII byte next to it. Encoding "Clément" as Latin-1 and
// decoding it with the little-endian variant gives "Cl淩ent".
type Mixed816 struct {
	order byteOrder
	name  string
}

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Mixed816BE returns the big-endian mixed UTF-8/UTF-16 engine.
func Mixed816BE() *Mixed816 {
	return &Mixed816{order: binary.BigEndian, name: "mixed UTF-8/UTF-16BE"}
}

// Mixed816LE returns the little-endian mixed UTF-8/UTF-16 engine.
func Mixed816LE() *Mixed816 {
	return &Mixed816{order: binary.LittleEndian, name: "mixed UTF-8/UTF-16LE"}
}

func (m *Mixed816) Name() string { return m.name }

// Encode never fails.
func (m *Mixed816) Encode(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != Replacement {
			out = m.order.AppendUint16(out, uint16(r1))
			out = m.order.AppendUint16(out, uint16(r2))
			continue
		}
		out = m.order.AppendUint16(out, uint16(r))
	}
	return out, true
}

// Decode reads ASCII bytes one at a time and anything else as 16-bit units.
// A stray final byte yields U+FFFD and consumes one byte; a high surrogate
// without a following unit yields U+FFFD and consumes two.
func (m *Mixed816) Decode(b []byte) string {
	out := make([]rune, 0, len(b))

	i := 0
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			out = append(out, rune(b[i]))
			i++
			continue
		}

		if i+1 == len(b) {
			out = append(out, Replacement)
			i++
			continue
		}

		unit1 := m.order.Uint16(b[i : i+2])
		if unit1 < 0xD800 || unit1 >= 0xE000 {
			out = append(out, utf16.Decode([]uint16{unit1})...)
			i += 2
			continue
		}

		if len(b) <= i+3 {
			out = append(out, Replacement)
			i += 2
			continue
		}

		// an unpaired surrogate decodes to U+FFFD and the second unit is
		// decoded on its own
		unit2 := m.order.Uint16(b[i+2 : i+4])
		out = append(out, utf16.Decode([]uint16{unit1, unit2})...)
		i += 4
	}

	return string(out)
}
