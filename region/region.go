// Package region provides address ranges that an allocator heap can be initialized with.
//
// A range is presented at a logical start address chosen by the caller and backed by
// host memory. Addresses handed to the heap are logical, ToRealAddr maps them to the
// backing storage.
package region

import (
	"fmt"
	"unsafe"
)

type span struct {
	start uintptr
	size  uintptr
	base  unsafe.Pointer
}

func checkRange(start uintptr, size uintptr) error {
	if size == 0 {
		return ErrEmptyRange
	}
	if start > ^uintptr(0)-size {
		return fmt.Errorf("%w: start=%#x size=%d", ErrRangeOverflow, start, size)
	}
	return nil
}

// Start ...
func (s *span) Start() uintptr {
	return s.start
}

// Size ...
func (s *span) Size() uintptr {
	return s.size
}

// End ...
func (s *span) End() uintptr {
	return s.start + s.size
}

// Contains reports whether [addr, addr+n) lies inside the range.
func (s *span) Contains(addr uintptr, n uintptr) bool {
	if addr < s.start || addr > s.End() {
		return false
	}
	return n <= s.End()-addr
}

// ToRealAddr ...
func (s *span) ToRealAddr(addr uintptr) unsafe.Pointer {
	if addr < s.start || addr >= s.End() {
		panic(fmt.Errorf("%w: %#x not in [%#x, %#x)", ErrOutOfRange, addr, s.start, s.End()))
	}
	return unsafe.Add(s.base, addr-s.start)
}

// Bytes returns the n bytes at addr as a slice sharing the backing storage.
func (s *span) Bytes(addr uintptr, n uintptr) []byte {
	if !s.Contains(addr, n) {
		panic(fmt.Errorf("%w: [%#x, %#x+%d)", ErrOutOfRange, addr, addr, n))
	}
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(s.ToRealAddr(addr)), n)
}
