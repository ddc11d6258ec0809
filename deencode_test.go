package deencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/deencode/engine"
	"github.com/wippyai/deencode/errors"
)

func TestDeencode_Validation(t *testing.T) {
	utf8 := engine.UTF8()

	tests := []struct {
		name    string
		engines []engine.Engine
		depth   int
		opts    []Option
		kind    errors.Kind
	}{
		{"depth zero", []engine.Engine{utf8}, 0, nil, errors.KindInvalidDepth},
		{"negative depth", []engine.Engine{utf8}, -3, nil, errors.KindInvalidDepth},
		{"no engines", nil, 1, nil, errors.KindInvalidInput},
		{"nil engine", []engine.Engine{utf8, nil}, 1, nil, errors.KindInvalidInput},
		{"empty name", []engine.Engine{namedEngine{}}, 1, nil, errors.KindInvalidInput},
		{"default limit", engine.Default(), 4, nil, errors.KindTooLarge},
		{"custom limit", []engine.Engine{utf8, utf8}, 1, []Option{WithMaxNodes(5)}, errors.KindTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Deencode("x", tt.engines, tt.depth, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseBuild, Kind: tt.kind})
		})
	}
}

func TestDeencode_LimitCanBeDisabled(t *testing.T) {
	utf8 := engine.UTF8()
	tree, err := Deencode("x", []engine.Engine{utf8, utf8}, 1, WithMaxNodes(0))
	require.NoError(t, err)
	assert.Equal(t, 6, tree.Stats().Nodes())
}

func TestDeencode_PathLength(t *testing.T) {
	engines := []engine.Engine{engine.UTF8(), engine.Latin1(), engine.Mixed816LE()}

	for depth := 1; depth <= 3; depth++ {
		for _, input := range []string{"Hello", "Clément", "\U0001F600"} {
			tree, err := Deencode(input, engines, depth)
			require.NoError(t, err)

			tree.Walk(func(d int, enc *EncodeNode, dec *DecodeNode) {
				if enc != nil {
					assert.Equal(t, 1, d%2, "encodings sit on odd levels")
					assert.Len(t, enc.Children, len(engines), "decoding is total")
					return
				}
				assert.Equal(t, 0, d%2, "decodings sit on even levels")
				if len(dec.Children) == 0 {
					assert.Equal(t, 2*depth, d, "%q depth %d: path ends early", input, depth)
				}
				assert.Equal(t, d == 2*depth, dec.IsLeaf())
			})
			assert.LessOrEqual(t, tree.Stats().MaxDepth, 2*depth)
		}
	}
}

func TestDeencode_AbsentEncodingHasNoNode(t *testing.T) {
	tree, err := Deencode("\U0001F600", []engine.Engine{engine.Latin1(), engine.UTF8()}, 1)
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, "UTF-8", tree.Children[0].Name)
	assert.Equal(t, []byte{0xf0, 0x9f, 0x98, 0x80}, tree.Children[0].Output)
	decodings := tree.Children[0].Children
	require.Len(t, decodings, 2)
	assert.Equal(t, "Latin-1 / Codepage 1252", decodings[0].Name, "decodings follow engine order")
	assert.Equal(t, "ðŸ˜€", decodings[0].Output)
	assert.Equal(t, "UTF-8", decodings[1].Name)
	assert.Equal(t, "\U0001F600", decodings[1].Output)
}

func TestDeencode_Hello(t *testing.T) {
	engines := []engine.Engine{engine.UTF8(), engine.Mixed816LE()}
	hello := []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f}

	tree, err := Deencode("Hello", engines, 1)
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	assert.Equal(t, hello, tree.Children[0].Output)
	assert.Equal(t, hello, tree.Children[1].Output)

	strs, bytes := tree.Deduplicate()

	require.Len(t, tree.Children, 1)
	assert.Equal(t, "UTF-8", tree.Children[0].Name, "the earlier engine's branch survives")
	assert.Empty(t, tree.Children[0].Children, "both decodings repeat the input")
	assert.Equal(t, []string{"Hello"}, strs)
	assert.Equal(t, [][]byte{hello}, bytes)
}

func TestDeencode_Determinism(t *testing.T) {
	engines := engine.Default()

	a, err := Deencode("Clément", engines, 2)
	require.NoError(t, err)
	b, err := Deencode("Clément", engines, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	strsA, bytesA := a.Deduplicate()
	strsB, bytesB := b.Deduplicate()
	assert.Equal(t, strsA, strsB)
	assert.Equal(t, bytesA, bytesB)
	assert.Equal(t, a, b)
}

func TestDeencode_ParallelMatchesSequential(t *testing.T) {
	engines := engine.Default()

	for _, input := range []string{"Clément", "naïve café", "\U0001F600 ok"} {
		seq, err := Deencode(input, engines, 2)
		require.NoError(t, err)
		par, err := Deencode(input, engines, 2, WithParallel(true))
		require.NoError(t, err)
		assert.Equal(t, seq, par, input)

		seqStrs, seqBytes := seq.Deduplicate()
		parStrs, parBytes := par.Deduplicate()
		assert.Equal(t, seqStrs, parStrs)
		assert.Equal(t, seqBytes, parBytes)
	}
}

func TestWorstCaseNodes(t *testing.T) {
	tests := []struct {
		n, depth int
		want     uint64
	}{
		{0, 1, 0},
		{3, 0, 0},
		{1, 1, 2},
		{2, 1, 6},
		{7, 1, 56},
		{7, 3, 137256},
		{1000, 10, ^uint64(0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, worstCaseNodes(tt.n, tt.depth), "n=%d depth=%d", tt.n, tt.depth)
	}
}

func TestTree_Stats(t *testing.T) {
	tree, err := Deencode("é", []engine.Engine{engine.UTF8(), engine.Latin1()}, 1)
	require.NoError(t, err)

	s := tree.Stats()
	assert.Equal(t, Stats{EncodeNodes: 2, DecodeNodes: 4, Leaves: 4, MaxDepth: 2}, s)
	assert.Equal(t, 6, s.Nodes())
}

type namedEngine struct{ name string }

func (n namedEngine) Name() string                   { return n.name }
func (n namedEngine) Encode(s string) ([]byte, bool) { return []byte(s), true }
func (n namedEngine) Decode(b []byte) string         { return string(b) }
