package deencode

import (
	"go.uber.org/zap"

	"github.com/wippyai/deencode/engine"
	"github.com/wippyai/deencode/errors"
)

// DefaultMaxNodes is the default limit on the worst-case node count of a
// tree. Seven engines at depth 3 stay below it; seven engines at depth 4 do
// not.
const DefaultMaxNodes = 1 << 22

type options struct {
	logger   *zap.Logger
	maxNodes uint64
	parallel bool
}

// Option configures Deencode.
type Option func(*options)

// WithParallel builds the top-level encode subtrees concurrently. The
// resulting tree is identical to a sequential build.
func WithParallel(enabled bool) Option {
	return func(o *options) {
		o.parallel = enabled
	}
}

// WithMaxNodes rejects engine lists and depths whose worst-case tree exceeds
// n nodes. Zero disables the check.
func WithMaxNodes(n uint64) Option {
	return func(o *options) {
		o.maxNodes = n
	}
}

// WithLogger sets the logger for this call.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Deencode builds the tree of every encode/decode path of input through
// engines.
//
// encodingDepth is the number of encodings on each path. Every encoding is
// followed by a decoding, so the tree is 2*encodingDepth levels deep. The
// order of engines is significant for Deduplicate.
//
// It returns an error when engines is empty or holds an unusable engine,
// when encodingDepth is less than 1, or when the worst-case tree size
// exceeds the configured limit.
func Deencode(input string, engines []engine.Engine, encodingDepth int, opts ...Option) (*Tree, error) {
	o := options{maxNodes: DefaultMaxNodes}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	if err := validate(engines, encodingDepth, o.maxNodes); err != nil {
		return nil, err
	}

	tree := &Tree{Input: input}
	if o.parallel {
		tree.Children = buildEncodeLevelParallel(input, engines, encodingDepth)
	} else {
		tree.Children = buildEncodeLevel(input, engines, encodingDepth)
	}

	if ce := log.Check(zap.DebugLevel, "tree built"); ce != nil {
		stats := tree.Stats()
		ce.Write(
			zap.Int("input_len", len(input)),
			zap.Int("engines", len(engines)),
			zap.Int("depth", encodingDepth),
			zap.Bool("parallel", o.parallel),
			zap.Int("encode_nodes", stats.EncodeNodes),
			zap.Int("decode_nodes", stats.DecodeNodes),
		)
	}
	return tree, nil
}

func validate(engines []engine.Engine, depth int, maxNodes uint64) error {
	if len(engines) == 0 {
		return errors.InvalidInput(errors.PhaseBuild, "no engines")
	}
	for i, e := range engines {
		if e == nil {
			return errors.New(errors.PhaseBuild, errors.KindInvalidInput).
				Value(i).
				Detail("engine %d is nil", i).
				Build()
		}
		if e.Name() == "" {
			return errors.New(errors.PhaseBuild, errors.KindInvalidInput).
				Value(i).
				Detail("engine %d has an empty name", i).
				Build()
		}
	}
	if depth < 1 {
		return errors.InvalidDepth(depth)
	}
	if maxNodes > 0 {
		if worst := worstCaseNodes(len(engines), depth); worst > maxNodes {
			return errors.TooLarge(len(engines), depth, worst, maxNodes)
		}
	}
	return nil
}
