package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // core module loading / instantiation
	PhaseGuest   Phase = "guest"   // guest-signaled domain errors
	PhaseView    Phase = "view"    // memory view derivation
	PhaseMarshal Phase = "marshal" // host to guest data transfer
	PhaseConvert Phase = "convert" // pixel format conversion
	PhasePump    Phase = "pump"    // frame scheduling
	PhaseHost    Phase = "host"    // host callback dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds    Kind = "out_of_bounds"
	KindAllocation     Kind = "allocation"
	KindGuestError     Kind = "guest_error"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidData    Kind = "invalid_data"
	KindNotInitialized Kind = "not_initialized"
	KindNotFound       Kind = "not_found"
	KindInstantiation  Kind = "instantiation"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
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

	if e.Detail != "" {
		b.WriteString(": ")
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
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

// OutOfBounds creates an error for a (ptr, length) range that exceeds the
// current guest memory size. This always indicates a bridge defect, never a
// recoverable guest condition.
func OutOfBounds(phase Phase, ptr, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) exceeds memory size %d", ptr, uint64(ptr)+uint64(length), size),
		Value:  ptr,
	}
}

// AllocationFailed creates a guest allocation failure error
func AllocationFailed(size uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes in guest memory", size),
		Cause:  cause,
	}
}

// Guest creates an error from a guest-signaled diagnostic string
func Guest(text string) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindGuestError,
		Detail: text,
	}
}

// NotInitialized creates a not-initialized error for a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
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

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate core module",
		Cause:  cause,
	}
}

// Load creates a module loading error
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
