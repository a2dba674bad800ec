// Package errors provides structured error handling for the weft UI core.
//
// Nothing in the frame pipeline is allowed to abort the process. Components
// report problems through [Report] (or a context-owned [ErrorHandler]) and then
// carry on: structural errors become no-ops, malformed style rules are
// skipped, binding cycles are muted and layout constraint violations are
// clamped.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-drift/weft/pkg/entity"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindStructural indicates an operation on a dead entity or an invalid tree edit.
	KindStructural
	// KindStyleParse indicates a malformed stylesheet rule or declaration.
	KindStyleParse
	// KindBindingCycle indicates a binding that re-dirtied its own source.
	KindBindingCycle
	// KindLayoutConstraint indicates an unsatisfiable or negative computed size.
	KindLayoutConstraint
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates a configuration loading or validation error.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindStyleParse:
		return "style-parse"
	case KindBindingCycle:
		return "binding-cycle"
	case KindLayoutConstraint:
		return "layout-constraint"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinel causes carried by StructuralError.
var (
	ErrDeadEntity      = stderrors.New("entity is not alive")
	ErrAlreadyAttached = stderrors.New("entity already has a parent")
	ErrCycle           = stderrors.New("edit would create a cycle")
	ErrNotFound        = stderrors.New("not found")
)

// WeftError represents a structured error reported by a weft component.
type WeftError struct {
	// Op is the operation that failed (e.g., "style.Parse").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Entity is the entity involved, if any.
	Entity entity.Entity
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *WeftError) Error() string {
	if !e.Entity.IsNull() {
		return fmt.Sprintf("%s [%s] entity=%s: %v", e.Op, e.Kind, e.Entity, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *WeftError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "event.Dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// StructuralError is returned when an operation targets a dead entity or
// would break the tree invariants.
type StructuralError struct {
	Op     string
	Entity entity.Entity
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// StyleParseError describes a stylesheet rule or declaration that was skipped.
type StyleParseError struct {
	// Source names the stylesheet (usually a file path).
	Source string
	// Line and Column are 1-based positions of the offending token.
	Line   int
	Column int
	// Snippet is the text that failed to parse.
	Snippet string
	// Msg explains the failure.
	Msg string
}

func (e *StyleParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s:%d:%d: %s (%q)", e.Source, e.Line, e.Column, e.Msg, e.Snippet)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Msg)
}

// BindingCycleError is reported when a binding's rebuild keeps dirtying the
// data it observes within a single flush.
type BindingCycleError struct {
	Entity entity.Entity
	// Lens names the lens the binding observes.
	Lens string
	// Passes is the number of reactive passes that ran before the guard tripped.
	Passes int
}

func (e *BindingCycleError) Error() string {
	return fmt.Sprintf("binding %q on %s re-dirtied its own source (after %d passes)", e.Lens, e.Entity, e.Passes)
}

// LayoutConstraintError is reported when a computed size is negative or
// min/max constraints cannot be satisfied. The value is clamped.
type LayoutConstraintError struct {
	Entity  entity.Entity
	Axis    string
	Value   float64
	Clamped float64
}

func (e *LayoutConstraintError) Error() string {
	return fmt.Sprintf("%s %s size %.2f clamped to %.2f", e.Entity, e.Axis, e.Value, e.Clamped)
}

// ErrorHandler receives errors reported by weft components.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *WeftError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
