package engine

import (
	"strings"

	"github.com/emersion/go-imap/utf7"
)

type utf7Engine struct{}

// UTF7 returns the engine for the modified UTF-7 of RFC 3501 section 5.1.3
// (IMAP mailbox names): printable ASCII stands for itself, "&" is written
// "&-" and other runes go in "&...-" runs of modified base64.
func UTF7() Engine {
	return utf7Engine{}
}

func (utf7Engine) Name() string { return "UTF-7" }

func (utf7Engine) Encode(s string) ([]byte, bool) {
	out, err := utf7.Encoding.NewEncoder().String(s)
	if err != nil {
		return nil, false
	}
	return []byte(out), true
}

// Decode first repairs b as UTF-8, then decodes each shift sequence on its
// own. A malformed or unterminated shift sequence becomes a single U+FFFD.
func (utf7Engine) Decode(b []byte) string {
	s := lossyUTF8(b)
	dec := utf7.Encoding.NewDecoder()

	var sb strings.Builder
	sb.Grow(len(s))
	for len(s) > 0 {
		amp := strings.IndexByte(s, '&')
		if amp < 0 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(s[:amp])
		s = s[amp:]

		end := strings.IndexByte(s, '-')
		if end < 0 {
			sb.WriteRune(Replacement)
			break
		}

		decoded, err := dec.String(s[:end+1])
		if err != nil {
			sb.WriteRune(Replacement)
		} else {
			sb.WriteString(decoded)
		}
		s = s[end+1:]
	}
	return sb.String()
}
