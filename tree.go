package deencode

// EncodeNode is one encoding step: the named engine encoded its parent's
// string into Output.
type EncodeNode struct {
	// Name is the encoder's name. See engine.Engine.Name.
	Name string
	// Output is the exact byte sequence the encoder produced.
	Output []byte
	// Children are the decodings of Output, one per engine before
	// deduplication.
	Children []*DecodeNode
}

// DecodeNode is one decoding step: the named engine decoded its parent's
// bytes into Output.
type DecodeNode struct {
	// Name is the decoder's name. See engine.Engine.Name.
	Name string
	// Output is the decoded string.
	Output string
	// Children are the encodings of Output. Empty at maximum depth.
	Children []*EncodeNode

	leaf bool
}

// IsLeaf reports whether the node was built with no encoding depth left.
// A leaf never has children, with or without deduplication.
func (n *DecodeNode) IsLeaf() bool {
	return n.leaf
}

// Tree is the root of a deencoding tree.
//
// The tree alternates EncodeNode and DecodeNode levels and every complete
// path ends on a DecodeNode, so a tree built with encoding depth d is 2*d
// levels deep.
type Tree struct {
	// Input is the string the exploration started from.
	Input string
	// Children are the encodings of Input.
	Children []*EncodeNode
}

// Walk calls fn for every node, depth-first in builder order. Exactly one of
// enc and dec is non-nil; depth counts transform applications from the root,
// starting at 1.
func (t *Tree) Walk(fn func(depth int, enc *EncodeNode, dec *DecodeNode)) {
	for _, enc := range t.Children {
		walkEncode(enc, 1, fn)
	}
}

func walkEncode(n *EncodeNode, depth int, fn func(int, *EncodeNode, *DecodeNode)) {
	fn(depth, n, nil)
	for _, dec := range n.Children {
		walkDecode(dec, depth+1, fn)
	}
}

func walkDecode(n *DecodeNode, depth int, fn func(int, *EncodeNode, *DecodeNode)) {
	fn(depth, nil, n)
	for _, enc := range n.Children {
		walkEncode(enc, depth+1, fn)
	}
}

// Stats summarizes a tree's shape.
type Stats struct {
	EncodeNodes int
	DecodeNodes int
	Leaves      int
	// MaxDepth is the deepest node, in transform applications.
	MaxDepth int
}

// Nodes returns the total node count.
func (s Stats) Nodes() int {
	return s.EncodeNodes + s.DecodeNodes
}

// Stats counts the tree's nodes.
func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(depth int, enc *EncodeNode, dec *DecodeNode) {
		if enc != nil {
			s.EncodeNodes++
		} else {
			s.DecodeNodes++
			if dec.leaf {
				s.Leaves++
			}
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
	})
	return s
}
