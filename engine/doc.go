// Package engine runs the agb core module under wazero and exposes its
// export surface as a typed Guest implementation.
//
// # Core Module ABI
//
// The core is a plain (non Component Model) wasm module with a fixed, flat
// ABI. Exports consumed by the host:
//
//	load_rom(ptr, len i32)        hand a staged ROM to the core
//	keydown(code i32)             button press, code 0..7
//	keyup(code i32)               button release, code 0..7
//	emulate(ms i32)               advance emulation by ms milliseconds
//	allocate(len i32) -> i32      guest allocator
//	free(ptr, len i32)            guest allocator release
//
// Imports provided by the host under module "env":
//
//	log(ptr, len i32)             diagnostic line, UTF-8 in guest memory
//	error(ptr, len i32)           error line, UTF-8 in guest memory
//	alert(ptr, len i32)           fatal user-facing message
//	throw(ptr, len i32)           guest-signaled failure; terminates the
//	                              in-flight host call with a guest error
//	draw(width, height, ptr, len i32)
//	                              a frame is ready: len 32-bit pixel words
//	                              at ptr, one word per pixel, 0xRRGGBBxx
//
// String and pixel parameters are (pointer, length) pairs into guest linear
// memory; scalars cross the boundary by value.
//
// # Ownership
//
// One Engine owns one wazero runtime and hosts at most one core instance,
// since the guest imports the fixed "env" module name. Module is not safe
// for concurrent use; the bridge package serializes access.
package engine
