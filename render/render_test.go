package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/deencode"
	"github.com/wippyai/deencode/engine"
	"github.com/wippyai/deencode/errors"
)

// sampleTree is "é" through UTF-8 and Latin-1 at depth 1, deduplicated:
//
//	"é"
//	├── UTF-8: c3 a9
//	│   └── Latin-1 / Codepage 1252: "Ã©"
//	└── Latin-1 / Codepage 1252: e9
//	    └── UTF-8: "�"
func sampleTree(t *testing.T) (*deencode.Tree, []string, [][]byte) {
	t.Helper()
	tree, err := deencode.Deencode("é", []engine.Engine{engine.UTF8(), engine.Latin1()}, 1)
	require.NoError(t, err)
	strs, bs := tree.Deduplicate()
	return tree, strs, bs
}

const sampleJSON = `{
	"input": "é",
	"encoders": [
		{"name": "UTF-8", "output": [195, 169], "decoders": [
			{"name": "Latin-1 / Codepage 1252", "output": "Ã©"}
		]},
		{"name": "Latin-1 / Codepage 1252", "output": [233], "decoders": [
			{"name": "UTF-8", "output": "�"}
		]}
	]
}`

func TestText(t *testing.T) {
	tree, _, _ := sampleTree(t)

	out := Text(tree, Style{})
	assert.NotContains(t, out, "\x1b[")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `"é"`, strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "UTF-8: c3 a9")
	assert.Contains(t, lines[2], `Latin-1 / Codepage 1252: "Ã©"`)
	assert.Contains(t, lines[3], "Latin-1 / Codepage 1252: e9")
	assert.Contains(t, lines[4], `UTF-8: "�"`)

	assert.Contains(t, lines[1], "├──")
	assert.Contains(t, lines[3], "└──")
}

func TestText_Color(t *testing.T) {
	tree, _, _ := sampleTree(t)

	out := Text(tree, Style{Color: true})
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "c3 a9")
}

func TestText_QuotesControls(t *testing.T) {
	tree := &deencode.Tree{
		Input: "a\tb",
		Children: []*deencode.EncodeNode{
			{Name: "X", Output: nil, Children: []*deencode.DecodeNode{
				{Name: "Y", Output: "\x00\u0085"},
			}},
		},
	}

	out := Text(tree, Style{})
	assert.Contains(t, out, `"a\tb"`)
	assert.Contains(t, out, "X: <empty>")
	assert.Contains(t, out, `Y: "\x00\u0085"`)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "<empty>", Hex(nil))
	assert.Equal(t, "00", Hex([]byte{0}))
	assert.Equal(t, "43 6c c3 a9", Hex([]byte("Clé")))
}

func TestAlphabet(t *testing.T) {
	_, strs, bs := sampleTree(t)

	want := "strings (3):\n" +
		"  \"é\"\n" +
		"  \"Ã©\"\n" +
		"  \"�\"\n" +
		"bytes (2):\n" +
		"  c3 a9\n" +
		"  e9\n"
	assert.Equal(t, want, Alphabet(strs, bs))
}

func TestJSON(t *testing.T) {
	tree, _, _ := sampleTree(t)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, tree))
	assert.JSONEq(t, sampleJSON, buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestJSON_EmptyLists(t *testing.T) {
	tree, err := deencode.Deencode("Hello", []engine.Engine{engine.UTF8(), engine.Mixed816LE()}, 1)
	require.NoError(t, err)
	tree.Deduplicate()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, tree))
	assert.JSONEq(t, `{"input":"Hello","encoders":[{"name":"UTF-8","output":[72,101,108,108,111],"decoders":[]}]}`, buf.String())
}

func TestJSON_RoundTrip(t *testing.T) {
	tree, err := deencode.Deencode("Clément", engine.Default(), 1)
	require.NoError(t, err)
	tree.Deduplicate()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, tree))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, NewDocument(tree), &doc)
}

func TestCBOR(t *testing.T) {
	tree, _, _ := sampleTree(t)

	var first, second bytes.Buffer
	require.NoError(t, CBOR(&first, tree))
	require.NoError(t, CBOR(&second, tree))
	assert.Equal(t, first.Bytes(), second.Bytes(), "encoding is deterministic")

	var doc Document
	require.NoError(t, cbor.Unmarshal(first.Bytes(), &doc))
	assert.Equal(t, NewDocument(tree), &doc)
	assert.Equal(t, Bytes{0xc3, 0xa9}, doc.Encoders[0].Output)
}

func TestBytes_JSON(t *testing.T) {
	out, err := json.Marshal(Bytes{0, 127, 255})
	require.NoError(t, err)
	assert.Equal(t, "[0,127,255]", string(out))

	out, err = json.Marshal(Bytes(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	var b Bytes
	require.NoError(t, json.Unmarshal([]byte("[1, 2, 3]"), &b))
	assert.Equal(t, Bytes{1, 2, 3}, b)

	assert.Error(t, json.Unmarshal([]byte("[256]"), &b))
	assert.Error(t, json.Unmarshal([]byte("[-1]"), &b))
	assert.Error(t, json.Unmarshal([]byte(`"AQID"`), &b))
}

func TestExport(t *testing.T) {
	tree, _, _ := sampleTree(t)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, tree, FormatText, CompressionNone, Style{}))
		assert.Equal(t, Text(tree, Style{})+"\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, tree, FormatJSON, CompressionNone, Style{}))
		assert.JSONEq(t, sampleJSON, buf.String())
	})

	t.Run("zstd", func(t *testing.T) {
		var plain, packed bytes.Buffer
		require.NoError(t, Export(&plain, tree, FormatCBOR, CompressionNone, Style{}))
		require.NoError(t, Export(&packed, tree, FormatCBOR, CompressionZstd, Style{}))

		dec, err := zstd.NewReader(nil)
		require.NoError(t, err)
		defer dec.Close()

		out, err := dec.DecodeAll(packed.Bytes(), nil)
		require.NoError(t, err)
		assert.Equal(t, plain.Bytes(), out)
	})

	t.Run("unsupported", func(t *testing.T) {
		unsupported := &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindUnsupported}
		assert.ErrorIs(t, Export(&bytes.Buffer{}, tree, "xml", CompressionNone, Style{}), unsupported)
		assert.ErrorIs(t, Export(&bytes.Buffer{}, tree, FormatJSON, "lz4", Style{}), unsupported)
	})
}

func TestExportAlphabet(t *testing.T) {
	_, strs, bs := sampleTree(t)

	var buf bytes.Buffer
	require.NoError(t, ExportAlphabet(&buf, strs, bs, FormatJSON, CompressionNone))
	assert.JSONEq(t, `{"strings":["é","Ã©","�"],"bytes":[[195,169],[233]]}`, buf.String())

	buf.Reset()
	require.NoError(t, ExportAlphabet(&buf, strs, bs, FormatText, CompressionNone))
	assert.Equal(t, Alphabet(strs, bs), buf.String())
}

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{" JSON ", FormatJSON},
		{"cbor", FormatCBOR},
	} {
		f, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, f)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindUnsupported})

	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}
