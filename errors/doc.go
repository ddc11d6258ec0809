// Package errors provides structured error types for the deencode module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: the engine involved, the tree path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEngine, errors.KindNotFound).
//		Engine("cp437").
//		Detail("no engine registered under this key").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidDepth(0)
//	err := errors.NotFound(errors.PhaseEngine, "engine", "cp437")
//
// Caller misuse is reported as a returned *Error. A broken internal invariant
// is reported by panicking with a KindInvariant *Error.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
