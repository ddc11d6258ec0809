package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/wippyai/deencode"
	"github.com/wippyai/deencode/errors"
)

// Format selects the export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatCBOR}

// Compression selects an optional compression of the export stream.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// ParseFormat parses a format name. The empty string selects FormatText.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", errors.Unsupported(errors.PhaseRender, "format "+name)
	}
}

// ParseCompression parses a compression name. The empty string selects
// CompressionNone.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "":
		return CompressionNone, nil
	case CompressionNone, CompressionZstd:
		return c, nil
	default:
		return "", errors.Unsupported(errors.PhaseRender, "compression "+name)
	}
}

// encMode encodes CBOR with Core Deterministic Encoding: the same tree
// always produces the same bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

// JSON writes t as a JSON document followed by a newline.
func JSON(w io.Writer, t *deencode.Tree) error {
	return writeJSON(w, NewDocument(t))
}

// CBOR writes t as a single CBOR data item.
func CBOR(w io.Writer, t *deencode.Tree) error {
	return writeCBOR(w, NewDocument(t))
}

// Export writes t to w in format f, compressed with c. Style applies to
// FormatText only.
func Export(w io.Writer, t *deencode.Tree, f Format, c Compression, s Style) error {
	return export(w, f, c, NewDocument(t), func() string {
		return Text(t, s)
	})
}

// ExportAlphabet writes the artifact lists returned by Deduplicate in
// format f, compressed with c.
func ExportAlphabet(w io.Writer, strs []string, bytes [][]byte, f Format, c Compression) error {
	return export(w, f, c, NewAlphabetDocument(strs, bytes), func() string {
		return Alphabet(strs, bytes)
	})
}

func export(w io.Writer, f Format, c Compression, doc any, text func() string) (err error) {
	switch c {
	case CompressionNone, "":
	case CompressionZstd:
		zw, zerr := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zerr != nil {
			return errors.Wrap(errors.PhaseRender, errors.KindInvalidInput, zerr, "zstd writer")
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = errors.Wrap(errors.PhaseRender, errors.KindInvalidData, cerr, "zstd close")
			}
		}()
		w = zw
	default:
		return errors.Unsupported(errors.PhaseRender, "compression "+string(c))
	}

	switch f {
	case FormatText, "":
		out := text()
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, werr := io.WriteString(w, out); werr != nil {
			return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, werr, "write text")
		}
		return nil
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatCBOR:
		return writeCBOR(w, doc)
	default:
		return errors.Unsupported(errors.PhaseRender, "format "+string(f))
	}
}

func writeJSON(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "encode json")
	}
	return nil
}

func writeCBOR(w io.Writer, doc any) error {
	if err := encMode.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "encode cbor")
	}
	return nil
}
