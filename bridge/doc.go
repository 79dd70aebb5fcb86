// Package bridge provides the high-level API wiring the agb core to a host
// Frontend.
//
// # Quick Start
//
//	eng, err := engine.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	b, err := bridge.Open(ctx, eng, coreWasm, frontend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close(ctx)
//
//	if err := b.LoadROM(ctx, romBytes); err != nil {
//	    log.Fatal(err)
//	}
//	b.Start(ctx)
//
// The frontend then receives a Draw call roughly 59.7 times per second, plus
// any log, error, and alert lines the core emits.
//
// # Keys
//
// KeyDown and KeyUp accept host key identifiers ("ArrowUp", "x", ...).
// Unmapped keys are silently ignored; they never reach the guest.
//
// # Errors
//
// Guest-signaled domain errors (such as an invalid ROM header) come back as
// errors with Kind guest_error from the call that triggered them; the bridge
// stays usable for a retry. Bridge-internal precondition violations
// (out-of-range views) panic and are deliberately not recovered.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use. Guest entry is
// serialized internally: key events delivered while the pump is running are
// applied atomically between ticks, never during one.
package bridge
