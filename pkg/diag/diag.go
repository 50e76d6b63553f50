// Package diag provides the core's error taxonomy and an injected
// diagnostics sink. Every operation that can fail reports through a
// *Error rather than panicking or writing to a process-global logger.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code classifies a failure per the error taxonomy.
type Code int

const (
	// InvalidInput covers a missing required option, a negative
	// dimension, a zero cell size, an unknown shape word, or a
	// malformed selector.
	InvalidInput Code = iota
	// KernelBuilderFailed covers a wire/face/prism/edge builder
	// reporting not-done.
	KernelBuilderFailed
	// BooleanFailed covers fuse/cut/intersect reporting not-done, or a
	// null/empty result.
	BooleanFailed
	// OffsetDegenerate covers a polygon offset collapsing to near-zero
	// or a self-intersecting boundary.
	OffsetDegenerate
	// FaceUnanalyzable covers a face with no finite normal (zero-area
	// or non-planar curved).
	FaceUnanalyzable
)

func (c Code) String() string {
	switch c {
	case InvalidInput:
		return "InvalidInput"
	case KernelBuilderFailed:
		return "KernelBuilderFailed"
	case BooleanFailed:
		return "BooleanFailed"
	case OffsetDegenerate:
		return "OffsetDegenerate"
	case FaceUnanalyzable:
		return "FaceUnanalyzable"
	default:
		return "Unknown"
	}
}

// Error is the single typed-failure value the core surfaces to callers.
// It carries a structured dump of the offending input so a host can
// render a useful diagnostic without re-deriving context.
type Error struct {
	Code    Code
	Op      string // operation that failed, e.g. "cutPattern", "fillet"
	Detail  string
	Context map[string]any // structured dump of the offending descriptor/args
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Code, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Detail)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// New builds a diagnostic with no underlying cause.
func New(code Code, op, detail string, ctx map[string]any) *Error {
	return &Error{Code: code, Op: op, Detail: detail, Context: ctx}
}

// Wrap builds a diagnostic around an underlying cause, using
// github.com/pkg/errors so the resulting chain keeps a stack trace at
// the point of failure.
func Wrap(cause error, code Code, op, detail string, ctx map[string]any) *Error {
	return &Error{Code: code, Op: op, Detail: detail, Context: ctx, cause: errors.Wrap(cause, detail)}
}

// Sink receives diagnostics for conditions the core recovers from
// silently (a partial-clip offset falling back to clip=none, a failed
// clip intersection keeping the unclipped cutters) as well as terminal
// failures a caller
// chooses to log before falling back to the unchanged input. Replacing
// scattered console writes with an injected sink keeps the core free
// of process-wide logging state.
type Sink interface {
	Warn(op, message string, ctx map[string]any)
	Error(err *Error)
}

// NopSink discards every diagnostic. Useful for tests and callers that
// only care about returned errors.
type NopSink struct{}

func (NopSink) Warn(string, string, map[string]any) {}
func (NopSink) Error(*Error)                        {}

// DefaultSink is used wherever a caller passes a nil Sink.
var DefaultSink Sink = NopSink{}

// Use returns sink if non-nil, otherwise DefaultSink.
func Use(sink Sink) Sink {
	if sink == nil {
		return DefaultSink
	}
	return sink
}
