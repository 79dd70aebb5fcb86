package agbhost

// Memory is the guest module's linear memory as observed by the bridge.
// The guest owns the memory; the bridge only derives transient views over it.
type Memory interface {
	// Data returns the full backing byte slice of the current memory block.
	// The slice aliases guest memory and is invalidated by any guest call
	// that may grow memory.
	Data() []byte

	// Size returns the current memory size in bytes.
	Size() uint32
}

// Allocator allocates transient buffers inside guest linear memory using the
// guest's own allocator exports.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
	Free(ptr, size uint32)
}
