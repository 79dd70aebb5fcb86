package agbhost

import "context"

// Screen dimensions of the DMG framebuffer reported by the core.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Button is a guest button code. The values are a stable ABI contract with
// the core module and must not be reordered.
type Button uint32

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonB
	ButtonA
	ButtonSelect
	ButtonStart
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonB:
		return "b"
	case ButtonA:
		return "a"
	case ButtonSelect:
		return "select"
	case ButtonStart:
		return "start"
	}
	return "unknown"
}

// Guest is the narrow function surface of the agb core consumed by the
// bridge. Implemented by engine.Module; tests substitute a recording fake.
//
// Any call on this interface may grow guest memory, invalidating previously
// derived memory views.
type Guest interface {
	Allocator

	// LoadROM hands a ROM staged in guest memory to the core. The core
	// reports a malformed header through its error and alert callbacks;
	// a guest trap surfaces as the returned error.
	LoadROM(ctx context.Context, ptr, length uint32) error

	// Keydown and Keyup deliver a button transition by value.
	Keydown(ctx context.Context, code Button) error
	Keyup(ctx context.Context, code Button) error

	// Emulate advances emulation by ms milliseconds. The core invokes the
	// draw callback from inside this call when a new frame is ready.
	Emulate(ctx context.Context, ms uint32) error

	// Memory returns the guest's linear memory.
	Memory() Memory
}

// Frontend receives guest-initiated callbacks. It is configured at bridge
// construction rather than dispatched through free functions so that tests
// can substitute a recorder for a real display surface.
type Frontend interface {
	// Log and Error receive diagnostic lines decoded from guest memory.
	Log(text string)
	Error(text string)

	// Alert reports a fatal, user-facing condition (e.g. an invalid ROM).
	// Whether it blocks is up to the implementation.
	Alert(text string)

	// Draw presents a converted frame. pixels is an RGBA buffer of
	// exactly width*height*4 bytes, reused between calls; implementations
	// that retain it must copy.
	Draw(width, height int, pixels []byte)
}
