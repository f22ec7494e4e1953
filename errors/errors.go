package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout   Phase = "layout"   // layout calculation and verification
	PhaseEncode   Phase = "encode"   // host fields to descriptor bytes
	PhaseDecode   Phase = "decode"   // descriptor bytes to fields
	PhaseValidate Phase = "validate" // envelope and parameter validation
	PhaseDispatch Phase = "dispatch" // kernel invocation
	PhaseLoad     Phase = "load"     // kernel module loading
	PhaseConfig   Phase = "config"   // parameter files and flags
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindLayoutMismatch Kind = "layout_mismatch"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindInstantiation  Kind = "instantiation"
	KindTrap           Kind = "trap"
	KindChecksum       Kind = "checksum"
	KindVersion        Kind = "version"
	KindInvalidData    Kind = "invalid_data"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
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
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// Fatal reports whether the error is a layout contract violation.
// Such errors mean producer and consumer were built against different
// record definitions and must not be retried or recovered from.
func (e *Error) Fatal() bool {
	return e.Kind == KindLayoutMismatch
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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

// InvalidInput creates an invalid input error for a named field
func InvalidInput(phase Phase, field string, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   []string{field},
		Value:  value,
		Detail: detail,
	}
}

// LayoutMismatch creates a layout contract violation error
func LayoutMismatch(phase Phase, goType string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLayoutMismatch,
		GoType: goType,
		Detail: fmt.Sprintf("buffer is %d bytes, record is %d bytes", got, want),
		Value:  got,
	}
}

// FieldDrift creates a layout error for a field whose offset disagrees
// with the calculated layout
func FieldDrift(goType, field string, got, want uintptr) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindLayoutMismatch,
		Path:   []string{field},
		GoType: goType,
		Detail: fmt.Sprintf("offset %d, calculated %d", got, want),
	}
}

// OutOfBounds creates an out of bounds error for foreign memory access
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("offset=%d, length=%d", offset, length),
		Value:  offset,
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

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Instantiation creates a kernel instantiation error
func Instantiation(kernel string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate kernel %q", kernel),
		Cause:  cause,
	}
}

// Trap creates an error for a kernel that aborted during a call
func Trap(kernel string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindTrap,
		Detail: fmt.Sprintf("kernel %q trapped", kernel),
		Cause:  cause,
	}
}

// Load creates a kernel loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
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

// IsFatal reports whether err, or any error it wraps, is a layout
// contract violation.
func IsFatal(err error) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Fatal() {
			return true
		}
		err = e.Cause
	}
	return false
}
