package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeCase struct {
	input string
	want  []byte
	ok    bool
}

type decodeCase struct {
	input []byte
	want  string
}

func runEncode(t *testing.T, e Engine, cases []encodeCase) {
	t.Helper()
	for _, tc := range cases {
		got, ok := e.Encode(tc.input)
		if ok != tc.ok {
			t.Errorf("%s: Encode(%q) ok = %v, want %v", e.Name(), tc.input, ok, tc.ok)
			continue
		}
		if tc.ok && !bytes.Equal(got, tc.want) {
			t.Errorf("%s: Encode(%q) = % x, want % x", e.Name(), tc.input, got, tc.want)
		}
	}
}

func runDecode(t *testing.T, e Engine, cases []decodeCase) {
	t.Helper()
	for _, tc := range cases {
		if got := e.Decode(tc.input); got != tc.want {
			t.Errorf("%s: Decode(% x) = %q, want %q", e.Name(), tc.input, got, tc.want)
		}
	}
}

var worldBytes = []byte{0x77, 0x6f, 0x72, 0x6c, 0x64, 0x21}

func TestUTF8(t *testing.T) {
	e := UTF8()
	assert.Equal(t, "UTF-8", e.Name())

	runEncode(t, e, []encodeCase{
		{"Hello", []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f}, true},
		{"é", []byte{0xc3, 0xa9}, true},
		{"€", []byte{0xe2, 0x82, 0xac}, true},
		{"\U0001F600", []byte{0xf0, 0x9f, 0x98, 0x80}, true},
	})

	runDecode(t, e, []decodeCase{
		{worldBytes, "world!"},
		{[]byte{0xc3, 0xa8}, "è"},
		{[]byte{0xe2, 0x82, 0xa4}, "₤"},
		{[]byte{0xff}, "�"},
		{[]byte{0x41, 0xff, 0x42}, "A�B"},
		{nil, ""},
	})
}

func TestCodePages(t *testing.T) {
	emoji := "\U0001F600"

	t.Run("Latin1", func(t *testing.T) {
		e := Latin1()
		assert.Equal(t, "Latin-1 / Codepage 1252", e.Name())
		runEncode(t, e, []encodeCase{
			{"Hello", []byte("Hello"), true},
			{"é", []byte{0xe9}, true},
			{"€", []byte{0x80}, true},
			{emoji, nil, false},
			// unassigned slots take their C1 control
			{"\u0081", []byte{0x81}, true},
			{"a\u009db", []byte{0x61, 0x9d, 0x62}, true},
			// 0x80 is assigned to €
			{"\u0080", nil, false},
			{"\uFFFD", nil, false},
		})
		runDecode(t, e, []decodeCase{
			{worldBytes, "world!"},
			{[]byte{0xe8}, "è"},
			{[]byte{0x81}, "�"},
		})
	})

	t.Run("Latin2", func(t *testing.T) {
		e := Latin2()
		assert.Equal(t, "Latin-2 / Codepage 1250", e.Name())
		runEncode(t, e, []encodeCase{
			{"Hello", []byte("Hello"), true},
			{"é", []byte{0xe9}, true},
			{emoji, nil, false},
		})
		runDecode(t, e, []decodeCase{
			{worldBytes, "world!"},
			{[]byte{0xe8}, "č"},
			{[]byte{0x81}, "�"},
		})
	})

	t.Run("CP1253", func(t *testing.T) {
		e := CP1253()
		assert.Equal(t, "Codepage 1253", e.Name())
		runEncode(t, e, []encodeCase{
			{"Hello", []byte("Hello"), true},
			{"μ", []byte{0xec}, true},
			{emoji, nil, false},
			{"\u0081", []byte{0x81}, true},
			{"\u0083", nil, false},
		})
		runDecode(t, e, []decodeCase{
			{worldBytes, "world!"},
			{[]byte{0xe8}, "θ"},
			{[]byte{0x81}, "�"},
		})
	})

	t.Run("CP1254", func(t *testing.T) {
		e := CP1254()
		assert.Equal(t, "ISO 8859-9 / Codepage 1254", e.Name())
		runEncode(t, e, []encodeCase{
			{"Hello", []byte("Hello"), true},
			{"é", []byte{0xe9}, true},
			{"€", []byte{0x80}, true},
			{emoji, nil, false},
			// unassigned slots take their C1 control
			{"\u0081", []byte{0x81}, true},
			{"a\u009db", []byte{0x61, 0x9d, 0x62}, true},
			// 0x80 is assigned to €
			{"\u0080", nil, false},
			{"\uFFFD", nil, false},
		})
		runDecode(t, e, []decodeCase{
			{worldBytes, "world!"},
			{[]byte{0xe8}, "è"},
			{[]byte{0x81}, "�"},
		})
	})

	t.Run("CP1255", func(t *testing.T) {
		e := CP1255()
		assert.Equal(t, "ISO 8859-8 / Codepage 1255", e.Name())
		runEncode(t, e, []encodeCase{
			{"Hello", []byte("Hello"), true},
			{"א", []byte{0xe0}, true},
			{emoji, nil, false},
		})
		runDecode(t, e, []decodeCase{
			{worldBytes, "world!"},
			{[]byte{0x80}, "€"},
			{[]byte{0x81}, "�"},
		})
	})
}

func TestUTF7(t *testing.T) {
	e := UTF7()
	assert.Equal(t, "UTF-7", e.Name())

	runEncode(t, e, []encodeCase{
		{"Hello", []byte("Hello"), true},
		{"é", []byte("&AOk-"), true},
		{"€", []byte("&IKw-"), true},
		{"\U0001F600", []byte("&2D3eAA-"), true},
		{"a&b", []byte("a&-b"), true},
	})

	runDecode(t, e, []decodeCase{
		{[]byte("world"), "world"},
		{[]byte("&AOg-"), "è"},
		{[]byte("&IKQ-"), "₤"},
		{[]byte("Cl&AOk-ment"), "Clément"},
		{[]byte("a&-b"), "a&b"},
		// unterminated shift sequence
		{[]byte("ab&AOk"), "ab�"},
		// non-ASCII bytes are repaired as UTF-8 first
		{[]byte{0x61, 0xff}, "a�"},
	})
}

func TestDefault(t *testing.T) {
	engines := Default()
	require.Len(t, engines, 7)
	assert.Equal(t, []string{
		"UTF-8",
		"Latin-1 / Codepage 1252",
		"Latin-2 / Codepage 1250",
		"Codepage 1253",
		"mixed UTF-8/UTF-16BE",
		"mixed UTF-8/UTF-16LE",
		"UTF-7",
	}, Names(engines))

	// every call returns a new slice
	engines[0] = nil
	assert.NotNil(t, Default()[0])
}

func TestEngines_DecodeIsTotal(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0x80},
		{0xff, 0xfe, 0xfd},
		{0xd8, 0x3d},
		{0xdc, 0x00, 0x41},
		{0x26, 0x41},
		{0x00, 0x7f, 0x80, 0x9f, 0xa0, 0xff},
	}
	for _, e := range append(Default(), CP1254(), CP1255()) {
		for _, in := range inputs {
			assert.NotPanics(t, func() { _ = e.Decode(in) }, "%s: Decode(% x)", e.Name(), in)
		}
	}
}
