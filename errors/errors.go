package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which manager operation the error occurred in.
type Phase string

const (
	PhaseParse     Phase = "parse"     // hardware description parsing
	PhaseLoad      Phase = "load"      // component construction and export
	PhaseClaim     Phase = "claim"     // interface claiming
	PhaseLifecycle Phase = "lifecycle" // state transitions
	PhaseReference Phase = "reference" // controller reference interfaces
)

// Kind categorizes the error.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindDuplicate      Kind = "duplicate"
	KindUnavailable    Kind = "unavailable"
	KindAlreadyClaimed Kind = "already_claimed"
	KindValidation     Kind = "validation"
	KindPlugin         Kind = "unresolvable_plugin"
	KindInit           Kind = "init_failed"
	KindTransition     Kind = "invalid_transition"
)

// Error is the structured error type used throughout the library.
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Component string
	Interface string
	Detail    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))
	if e.Component != "" {
		b.WriteString(" component ")
		b.WriteString(e.Component)
	}
	if e.Interface != "" {
		b.WriteString(" interface ")
		b.WriteString(e.Interface)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches against another *Error by Phase and Kind, ignoring context
// fields. This allows sentinel-style matching:
//
//	errors.Is(err, &Error{Phase: PhaseClaim, Kind: KindAlreadyClaimed})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return (t.Phase == "" || t.Phase == e.Phase) && (t.Kind == "" || t.Kind == e.Kind)
}

// Builder constructs an Error fluently.
type Builder struct {
	err Error
}

// New starts building an error for a phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

// Component records the hardware component name.
func (b *Builder) Component(name string) *Builder {
	b.err.Component = name
	return b
}

// Interface records the full interface name.
func (b *Builder) Interface(name string) *Builder {
	b.err.Interface = name
	return b
}

// Detail records a free-form description.
func (b *Builder) Detail(format string, args ...any) *Builder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Cause records the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the error.
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// NotFound reports an unknown name of the given kind ("component",
// "interface", "controller").
func NotFound(phase Phase, what, name string) *Error {
	b := New(phase, KindNotFound).Detail("%s %q not found", what, name)
	return b.Build()
}

// AlreadyClaimed reports a second claim on a held command interface.
func AlreadyClaimed(name string) *Error {
	return New(PhaseClaim, KindAlreadyClaimed).Interface(name).Build()
}

// Unavailable reports a claim on an interface whose owner is not up.
func Unavailable(name string) *Error {
	return New(PhaseClaim, KindUnavailable).Interface(name).Build()
}

// Validation reports a description or export validation failure.
func Validation(phase Phase, format string, args ...any) *Error {
	return New(phase, KindValidation).Detail(format, args...).Build()
}

// Load reports a load failure with a cause.
func Load(detail string, cause error) *Error {
	return New(PhaseLoad, KindInit).Detail("%s", detail).Cause(cause).Build()
}
