// Package marshal moves host-native values across the guest memory boundary.
//
// Ownership of guest allocations is transient and scoped to a single guest
// call: acquisition immediately before the call, guaranteed release once the
// call returns, on every exit path. WithBytes is the preferred entry point;
// it enforces the discipline with defer so that guest-reported errors and
// host-side panics cannot leak an allocation.
package marshal

import (
	agbhost "github.com/aheraud/agb-host"
	"github.com/aheraud/agb-host/errors"
	"github.com/aheraud/agb-host/memview"
)

// Allocation is a (pointer, length) pair returned by the guest allocator.
// It must be released with the same pair once the consuming call returns.
type Allocation struct {
	Ptr uint32
	Len uint32
}

// Marshaller copies host data into guest memory and decodes guest-produced
// (pointer, length) pairs back into host values.
type Marshaller struct {
	alloc agbhost.Allocator
	views *memview.Cache
}

func New(alloc agbhost.Allocator, views *memview.Cache) *Marshaller {
	return &Marshaller{alloc: alloc, views: views}
}

// PassBytes copies data into newly guest-allocated space and returns the
// allocation. The caller owns the release; prefer WithBytes unless the
// allocation has to outlive a single function scope.
func (m *Marshaller) PassBytes(data []byte) (Allocation, error) {
	length := uint32(len(data))
	ptr, err := m.alloc.Alloc(length)
	if err != nil {
		return Allocation{}, errors.AllocationFailed(length, err)
	}
	if length > 0 {
		copy(m.views.Bytes(ptr, length), data)
	}
	return Allocation{Ptr: ptr, Len: length}, nil
}

// WithBytes stages data in guest memory, runs fn with the allocation, and
// frees it with the same (pointer, length) regardless of outcome: success,
// guest-reported error, or panic.
func (m *Marshaller) WithBytes(data []byte, fn func(a Allocation) error) error {
	a, err := m.PassBytes(data)
	if err != nil {
		return err
	}
	defer m.alloc.Free(a.Ptr, a.Len)
	return fn(a)
}

// Free releases an allocation returned by PassBytes.
func (m *Marshaller) Free(a Allocation) {
	m.alloc.Free(a.Ptr, a.Len)
}

// ThrowFromGuest decodes a guest-signaled error string and returns it as a
// host error. Used by the guest's throw import to terminate the in-flight
// host call.
func (m *Marshaller) ThrowFromGuest(ptr, length uint32) error {
	return errors.Guest(m.views.String(ptr, length))
}
