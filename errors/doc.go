// Package errors provides structured error types for the agb host bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The two categories that matter operationally:
//
//   - PhaseGuest / KindGuestError: domain errors decoded from guest memory
//     (e.g. a malformed ROM header). The call that triggered them fails, but
//     the bridge remains usable.
//   - KindOutOfBounds: bridge-internal precondition violations. These are
//     raised as panics at the violation site and are never caught by the
//     bridge itself; no recovery is meaningful.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindAllocation).
//		Detail("rom staging failed").
//		Cause(cause).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseView, ptr, length, size)
//	err := errors.Guest("invalid rom header")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
