package engine

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// codePage adapts a single-byte Windows code page from x/text.
type codePage struct {
	cm   *charmap.Charmap
	name string
}

// Latin1 returns the Latin-1 engine, backed by Codepage 1252 (a superset of
// ISO 8859-1).
func Latin1() Engine {
	return codePage{name: "Latin-1 / Codepage 1252", cm: charmap.Windows1252}
}

// Latin2 returns the Latin-2 engine, backed by Codepage 1250 which is the
// variant seen in practice.
func Latin2() Engine {
	return codePage{name: "Latin-2 / Codepage 1250", cm: charmap.Windows1250}
}

// CP1253 returns the Greek Codepage 1253 engine.
func CP1253() Engine {
	return codePage{name: "Codepage 1253", cm: charmap.Windows1253}
}

// CP1254 returns the Turkish engine, backed by Codepage 1254 (a superset of
// ISO 8859-9).
func CP1254() Engine {
	return codePage{name: "ISO 8859-9 / Codepage 1254", cm: charmap.Windows1254}
}

// CP1255 returns the Hebrew engine, backed by Codepage 1255.
func CP1255() Engine {
	return codePage{name: "ISO 8859-8 / Codepage 1255", cm: charmap.Windows1255}
}

func (c codePage) Name() string { return c.name }

// Encode maps a C1 control to its own byte when the code page leaves that
// byte unassigned, as the WHATWG single-byte indexes do.
func (c codePage) Encode(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := c.cm.EncodeRune(r)
		if !ok {
			if !c.unassignedC1(r) {
				return nil, false
			}
			b = byte(r)
		}
		out = append(out, b)
	}
	return out, true
}

func (c codePage) unassignedC1(r rune) bool {
	return r >= 0x80 && r <= 0x9f && c.cm.DecodeByte(byte(r)) == utf8.RuneError
}

func (c codePage) Decode(b []byte) string {
	out, err := c.cm.NewDecoder().Bytes(b)
	if err != nil {
		// charmap decoders never fail; fall back to byte-wise lookup
		var sb strings.Builder
		for _, x := range b {
			sb.WriteRune(undefinedToReplacement(c.cm.DecodeByte(x)))
		}
		return sb.String()
	}
	return strings.Map(undefinedToReplacement, string(out))
}

// undefinedToReplacement maps the C1 controls x/text uses for bytes a Windows
// code page leaves unassigned to U+FFFD.
func undefinedToReplacement(r rune) rune {
	if r >= 0x80 && r <= 0x9f {
		return Replacement
	}
	return r
}
