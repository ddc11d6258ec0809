package deencode

import (
	"github.com/wippyai/deencode/errors"
)

// artifacts records every distinct string and byte sequence seen, in the
// order they were first registered.
type artifacts struct {
	strings    []string
	bytes      [][]byte
	seenString map[string]struct{}
	seenBytes  map[string]struct{}
}

func newArtifacts(input string) *artifacts {
	a := &artifacts{
		seenString: make(map[string]struct{}),
		seenBytes:  make(map[string]struct{}),
	}
	a.addString(input)
	return a
}

func (a *artifacts) hasString(s string) bool {
	_, ok := a.seenString[s]
	return ok
}

func (a *artifacts) hasBytes(b []byte) bool {
	_, ok := a.seenBytes[string(b)]
	return ok
}

func (a *artifacts) addString(s string) {
	if a.hasString(s) {
		return
	}
	a.seenString[s] = struct{}{}
	a.strings = append(a.strings, s)
}

func (a *artifacts) addBytes(b []byte) {
	if a.hasBytes(b) {
		return
	}
	a.seenBytes[string(b)] = struct{}{}
	a.bytes = append(a.bytes, b)
}

// Deduplicate prunes the tree in place, keeping only the first occurrence of
// every encoder output and every decoder output.
//
// Nodes are visited depth-first in builder order, so the output of an engine
// earlier in the engine list wins over a later one. A decoding whose
// subtree was pruned entirely is dropped too, unless it is a leaf; an
// encoding left without decodings is dropped, except directly under the root.
//
// It returns the distinct strings (the input first) and the distinct byte
// sequences, in the order they were first seen. Deduplicate is idempotent:
// a second call leaves the tree unchanged.
func (t *Tree) Deduplicate() ([]string, [][]byte) {
	seen := newArtifacts(t.Input)

	keep := t.Children[:0]
	for _, enc := range t.Children {
		if seen.hasBytes(enc.Output) {
			continue
		}
		dedupEncode(enc, seen, []string{enc.Name})
		keep = append(keep, enc)
	}
	clearTail(t.Children, len(keep))
	t.Children = keep

	Logger().Debug("tree deduplicated")
	return seen.strings, seen.bytes
}

// dedupEncode registers n's output, then drops decodings already seen and
// decodings that end up carrying nothing.
func dedupEncode(n *EncodeNode, seen *artifacts, path []string) {
	seen.addBytes(n.Output)

	var remove []int
	for i, dec := range n.Children {
		if seen.hasString(dec.Output) {
			remove = append(remove, i)
			continue
		}
		dedupDecode(dec, seen, append(path, dec.Name))
		if len(dec.Children) == 0 && !dec.leaf {
			remove = append(remove, i)
		}
	}
	n.Children = removeIndices(n.Children, remove)
}

// dedupDecode registers n's output, then drops encodings already seen and
// encodings left without decodings.
func dedupDecode(n *DecodeNode, seen *artifacts, path []string) {
	if n.leaf && len(n.Children) > 0 {
		panic(errors.Invariant(errors.PhaseDedup, path, "leaf decode node has children"))
	}

	seen.addString(n.Output)

	var remove []int
	for i, enc := range n.Children {
		if seen.hasBytes(enc.Output) {
			remove = append(remove, i)
			continue
		}
		dedupEncode(enc, seen, append(path, enc.Name))
		if len(enc.Children) == 0 {
			remove = append(remove, i)
		}
	}
	n.Children = removeIndices(n.Children, remove)
}

// removeIndices deletes the elements at the ascending indices idx, keeping
// the order of the rest.
func removeIndices[T any](s []*T, idx []int) []*T {
	if len(idx) == 0 {
		return s
	}
	keep := s[:0]
	next := 0
	for i, v := range s {
		if next < len(idx) && idx[next] == i {
			next++
			continue
		}
		keep = append(keep, v)
	}
	clearTail(s, len(keep))
	return keep
}

// clearTail nils out s[n:] so pruned subtrees can be collected.
func clearTail[T any](s []*T, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}
