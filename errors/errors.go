package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild  Phase = "build"  // tree construction
	PhaseDedup  Phase = "dedup"  // tree pruning
	PhaseEngine Phase = "engine" // engine registration and lookup
	PhaseLoad   Phase = "load"   // plugin engine loading
	PhaseConfig Phase = "config" // configuration loading and validation
	PhaseRender Phase = "render" // export and rendering
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindInvalidDepth Kind = "invalid_depth"
	KindTooLarge     Kind = "too_large"
	KindNotFound     Kind = "not_found"
	KindDuplicate    Kind = "duplicate"
	KindInvalidData  Kind = "invalid_data"
	KindUnsupported  Kind = "unsupported"
	KindInvariant    Kind = "invariant"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Engine string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, " > "))
	}

	if e.Engine != "" {
		b.WriteString(": engine ")
		b.WriteString(e.Engine)
	}

	if e.Detail != "" {
		if e.Engine != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the tree path (engine names from the root)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Engine sets the engine name
func (b *Builder) Engine(name string) *Builder {
	b.err.Engine = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidDepth creates an error for an encoding depth below one
func InvalidDepth(depth int) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindInvalidDepth,
		Detail: fmt.Sprintf("encoding depth must be at least 1, got %d", depth),
		Value:  depth,
	}
}

// TooLarge creates an error for a tree whose worst-case size exceeds the limit
func TooLarge(engines, depth int, worst, limit uint64) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindTooLarge,
		Detail: fmt.Sprintf("%d engines at depth %d may produce %d nodes (limit %d)", engines, depth, worst, limit),
		Value:  worst,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already registered", what, name),
		Value:  name,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an error for malformed data produced by an engine
func InvalidData(phase Phase, engine, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Engine: engine,
		Detail: detail,
	}
}

// Invariant creates an error describing a broken internal invariant.
// These are programming errors and are raised with panic.
func Invariant(phase Phase, path []string, detail string) *Error {
	return New(phase, KindInvariant).Path(path...).Detail("%s", detail).Build()
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a plugin loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Config creates a configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
