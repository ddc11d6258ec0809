package deencode

import (
	"context"
	"math/bits"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/wippyai/deencode/engine"
)

// buildEncodeLevel runs every engine's encoder on input, in engine order.
// An engine that cannot represent input contributes no node. depth counts
// the encodings left including this one and must be at least 1.
//
// Identical sub-paths are recomputed: the tree has up to n^(2*depth) nodes
// for n engines, so callers must keep n*depth small.
func buildEncodeLevel(input string, engines []engine.Engine, depth int) []*EncodeNode {
	nodes := make([]*EncodeNode, 0, len(engines))
	for _, e := range engines {
		if n := buildEncodeNode(input, e, engines, depth); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func buildEncodeNode(input string, e engine.Engine, engines []engine.Engine, depth int) *EncodeNode {
	output, ok := e.Encode(input)
	if !ok {
		return nil
	}
	return &EncodeNode{
		Name:     e.Name(),
		Output:   output,
		Children: buildDecodeLevel(output, engines, depth-1),
	}
}

// buildDecodeLevel runs every engine's decoder on input. Decoding is total,
// so there is one node per engine. depth is not decremented here: only
// encodings consume depth.
func buildDecodeLevel(input []byte, engines []engine.Engine, depth int) []*DecodeNode {
	nodes := make([]*DecodeNode, len(engines))
	for i, e := range engines {
		output := e.Decode(input)
		n := &DecodeNode{
			Name:   e.Name(),
			Output: output,
			leaf:   depth == 0,
		}
		if depth > 0 {
			n.Children = buildEncodeLevel(output, engines, depth)
		}
		nodes[i] = n
	}
	return nodes
}

// buildEncodeLevelParallel builds each top-level encode subtree in its own
// goroutine. Results land in per-engine slots, so the order matches
// buildEncodeLevel exactly.
func buildEncodeLevelParallel(input string, engines []engine.Engine, depth int) []*EncodeNode {
	slots := make([]*EncodeNode, len(engines))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range engines {
		g.Go(func() error {
			slots[i] = buildEncodeNode(input, e, engines, depth)
			return nil
		})
	}
	_ = g.Wait()

	nodes := make([]*EncodeNode, 0, len(engines))
	for _, n := range slots {
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// worstCaseNodes returns the node count of a tree where every encoding
// succeeds: n + n^2 + ... + n^(2*depth), saturating at MaxUint64.
func worstCaseNodes(n, depth int) uint64 {
	if n <= 0 || depth <= 0 {
		return 0
	}
	var total, level uint64 = 0, 1
	for k := 0; k < 2*depth; k++ {
		hi, lo := bits.Mul64(level, uint64(n))
		if hi != 0 {
			return ^uint64(0)
		}
		level = lo
		sum, carry := bits.Add64(total, level, 0)
		if carry != 0 {
			return ^uint64(0)
		}
		total = sum
	}
	return total
}
