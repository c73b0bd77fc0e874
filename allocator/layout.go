package allocator

import (
	"fmt"
	"math"
)

// maxLayoutSize is the largest size a layout may have after rounding up to its alignment.
const maxLayoutSize = uintptr(math.MaxInt)

// Layout describes the size and alignment of a requested allocation.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout ...
func NewLayout(size uintptr, align uintptr) (Layout, error) {
	l := Layout{Size: size, Align: align}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func isPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

func (l Layout) validate() error {
	if !isPowerOfTwo(l.Align) {
		return fmt.Errorf("%w: align %d is not a power of two", ErrInvalidLayout, l.Align)
	}
	if l.Size > maxLayoutSize-(l.Align-1) {
		return fmt.Errorf("%w: size %d overflows when rounded to align %d", ErrInvalidLayout, l.Size, l.Align)
	}
	return nil
}

// alignUp rounds addr up to a multiple of align, align must be a power of two.
func alignUp(addr uintptr, align uintptr) (uintptr, bool) {
	mask := align - 1
	if addr > ^uintptr(0)-mask {
		return 0, false
	}
	return (addr + mask) &^ mask, true
}

func maxUintptr(a, b uintptr) uintptr {
	if a > b {
		return a
	}
	return b
}

// sizeAlign normalizes a layout so that the span it reserves can hold a free block once
// it is deallocated, and so that the span right after it starts block-aligned.
// The result depends only on l, Dealloc recomputes it from the same layout.
func sizeAlign(l Layout) (uintptr, uintptr) {
	if err := l.validate(); err != nil {
		panic(err)
	}

	align := maxUintptr(l.Align, blockAlign)
	adjusted := Layout{Size: l.Size, Align: align}
	if err := adjusted.validate(); err != nil {
		panic(fmt.Errorf("adjusting alignment failed: %w", err))
	}

	size, _ := alignUp(l.Size, align)
	return maxUintptr(size, blockSize), align
}
