// Package memview derives typed, bounds-checked views over guest linear
// memory and revalidates them whenever the backing buffer has been
// reallocated.
//
// Views are windows, not copies. A view is valid only until the next guest
// call that may grow memory; callers must not retain one across a call
// boundary. Out-of-range requests panic with a bridge error: they indicate a
// bridge defect, not a recoverable guest condition, and are deliberately not
// truncated.
package memview

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"
	"unsafe"

	agbhost "github.com/aheraud/agb-host"
	"github.com/aheraud/agb-host/errors"
)

// Cache caches the backing slice of a Memory together with its identity so
// that views are re-derived only when the guest has reallocated memory.
// One Cache belongs to one bridge instance; it is not a process-wide
// singleton, so multiple bridges and tests stay independent.
type Cache struct {
	mem  agbhost.Memory
	data []byte
	base *byte // identity token of data's backing array
}

// New creates a cache over mem. No view is derived until first use.
func New(mem agbhost.Memory) *Cache {
	return &Cache{mem: mem}
}

// refresh re-derives the cached slice when the memory block's identity or
// length has changed since the last access.
func (c *Cache) refresh() {
	data := c.mem.Data()
	base := unsafe.SliceData(data)
	if base != c.base || len(data) != len(c.data) {
		c.data = data
		c.base = base
	}
}

// Bytes returns a byte window over [ptr, ptr+length). The window aliases
// guest memory; writes through it are visible to the guest.
func (c *Cache) Bytes(ptr, length uint32) []byte {
	c.refresh()
	end := uint64(ptr) + uint64(length)
	if end > uint64(len(c.data)) {
		panic(errors.OutOfBounds(errors.PhaseView, ptr, length, uint32(len(c.data))))
	}
	return c.data[ptr:end:end]
}

// Words returns a 32-bit word window starting at ptr, length words long.
// ptr is a byte offset; words are little-endian per the wasm memory model.
func (c *Cache) Words(ptr, length uint32) WordView {
	byteLen := uint64(length) * 4
	if byteLen > uint64(^uint32(0)) {
		panic(errors.OutOfBounds(errors.PhaseView, ptr, ^uint32(0), c.mem.Size()))
	}
	return WordView{b: c.Bytes(ptr, uint32(byteLen))}
}

// String decodes [ptr, ptr+length) as UTF-8. Each invalid byte becomes one
// U+FFFD rather than failing or collapsing runs; guest diagnostics should
// never be lost to their own encoding.
func (c *Cache) String(ptr, length uint32) string {
	b := c.Bytes(ptr, length)
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// WordView is a read/write window over guest memory interpreted as a
// sequence of 32-bit words. Like all views it is invalidated by any guest
// call that may grow memory.
type WordView struct {
	b []byte
}

func (w WordView) Len() int {
	return len(w.b) / 4
}

func (w WordView) At(i int) uint32 {
	return binary.LittleEndian.Uint32(w.b[i*4:])
}

func (w WordView) Set(i int, v uint32) {
	binary.LittleEndian.PutUint32(w.b[i*4:], v)
}
