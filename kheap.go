// Package kheap holds the process-wide heap. It is the sole allocator for the
// process: it starts uninitialized, Init moves it to the ready state once, and every
// other function requires the ready state.
package kheap

import "github.com/QuangTung97/kheap/allocator"

var global = allocator.NewLockedHeap()

// Init must be called exactly once, before any allocation, with a range the caller
// owns exclusively and that mem already maps read/write.
func Init(mem allocator.Memory, heapStart uintptr, heapSize uintptr) {
	global.Init(mem, heapStart, heapSize)
}

// Alloc ...
func Alloc(l allocator.Layout) (uintptr, bool) {
	return global.Alloc(l)
}

// AllocSize allocates size bytes aligned to align. An invalid pair is reported as
// a failed allocation.
func AllocSize(size uintptr, align uintptr) (uintptr, bool) {
	l, err := allocator.NewLayout(size, align)
	if err != nil {
		return 0, false
	}
	return global.Alloc(l)
}

// Dealloc ...
func Dealloc(addr uintptr, l allocator.Layout) {
	global.Dealloc(addr, l)
}

// DeallocSize frees a span returned by AllocSize with the same size and align.
func DeallocSize(addr uintptr, size uintptr, align uintptr) {
	l, err := allocator.NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	global.Dealloc(addr, l)
}

// Stats ...
func Stats() allocator.Stats {
	return global.Stats()
}

// Ready reports whether Init has been called.
func Ready() bool {
	return global.IsReady()
}
