// Package agbhost is the host-side bridge for the agb GameBoy core compiled
// to WebAssembly.
//
// The emulation core is opaque to this library: it is consumed only through a
// narrow export surface (load ROM, key up/down, step N milliseconds) and a
// small set of guest-initiated callbacks (log, error, alert, draw). Everything
// this module does is boundary work: moving bytes across the linear-memory
// boundary safely, converting the guest's packed pixel output into a
// host-displayable format, pacing the per-frame step function against
// wall-clock time, and mapping host key identifiers onto the guest's fixed
// button enumeration.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	agbhost/      Root package with Memory, Allocator, Guest and Frontend interfaces
//	├── bridge/   High-level API wiring the guest core to a Frontend
//	├── engine/   Low-level wazero integration and the core module ABI
//	├── memview/  Generation-stamped typed views over guest linear memory
//	├── marshal/  Host-to-guest byte marshalling with scoped allocations
//	├── frame/    Packed pixel word to RGBA display buffer conversion
//	├── pump/     Fixed-interval frame scheduler
//	├── input/    Host key identifier to guest button mapping
//	└── errors/   Structured error types
//
// # Quick Start
//
//	eng, err := engine.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	b, err := bridge.Open(ctx, eng, coreWasm, myFrontend)
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
// # Memory Model
//
// Guest linear memory is owned by the core module and can be reallocated
// whenever it grows. The bridge never holds a view across a guest call
// boundary: memview re-derives its views whenever the identity of the backing
// buffer changes, and all host data passed into the guest is copied through
// transient allocations that are freed as soon as the consuming guest call
// returns.
//
// # Thread Safety
//
// A Bridge serializes all guest entry internally, so key events may be
// delivered from any goroutine while the pump is running. The lower-level
// engine.Module is NOT safe for concurrent use.
package agbhost
