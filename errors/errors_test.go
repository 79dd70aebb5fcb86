package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseMarshal,
				Kind:   KindAllocation,
				Path:   []string{"load_rom", "rom"},
				Detail: "allocation failed",
			},
			contains: []string{"[marshal]", "allocation", "load_rom.rom", "allocation failed"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseView,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[view]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInstantiation,
				Detail: "instantiate core module",
				Cause:  errors.New("missing import"),
			},
			contains: []string{"[load]", "instantiation", "instantiate core module", "caused by", "missing import"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseGuest,
		Kind:   KindGuestError,
		Detail: "invalid rom header",
	}

	if !errors.Is(err, &Error{Phase: PhaseGuest, Kind: KindGuestError}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseView, Kind: KindGuestError}) {
		t.Error("unexpected match on different phase")
	}
	if errors.Is(err, errors.New("other")) {
		t.Error("unexpected match on foreign error type")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("alloc returned 0")
	err := New(PhaseMarshal, KindAllocation).
		Path("pass_bytes").
		Value(uint32(1024)).
		Detail("failed to stage %d bytes", 1024).
		Cause(cause).
		Build()

	if err.Phase != PhaseMarshal || err.Kind != KindAllocation {
		t.Fatalf("unexpected phase/kind: %v/%v", err.Phase, err.Kind)
	}
	if err.Detail != "failed to stage 1024 bytes" {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
	if !errors.Is(err, &Error{Phase: PhaseMarshal, Kind: KindAllocation}) {
		t.Error("built error does not match its phase/kind")
	}
	if !errors.Is(err, cause) {
		t.Error("built error does not wrap its cause")
	}
}

func TestOutOfBounds(t *testing.T) {
	err := OutOfBounds(PhaseView, 100, 50, 120)
	msg := err.Error()
	for _, s := range []string{"[view]", "out_of_bounds", "100", "150", "120"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message %q missing %q", msg, s)
		}
	}
}

func TestGuest(t *testing.T) {
	err := Guest("invalid rom header")
	if err.Phase != PhaseGuest || err.Kind != KindGuestError {
		t.Fatalf("unexpected phase/kind: %v/%v", err.Phase, err.Kind)
	}
	if !strings.Contains(err.Error(), "invalid rom header") {
		t.Errorf("message %q missing guest text", err.Error())
	}
}
