package allocator

import "errors"

var (
	// ErrMisalignedRegion indicates a free region start that cannot hold a free block header.
	ErrMisalignedRegion = errors.New("allocator: misaligned free region")

	// ErrRegionTooSmall indicates a free region smaller than one free block header.
	ErrRegionTooSmall = errors.New("allocator: free region too small")

	// ErrInvalidLayout indicates a size/alignment pair that cannot describe an allocation.
	ErrInvalidLayout = errors.New("allocator: invalid layout")

	// ErrAlreadyInitialized indicates a second Init on the same heap.
	ErrAlreadyInitialized = errors.New("allocator: heap already initialized")

	// ErrNotInitialized indicates Alloc or Dealloc on a heap that was never initialized.
	ErrNotInitialized = errors.New("allocator: heap not initialized")

	// ErrNullHeapStart indicates a heap range starting at address 0.
	ErrNullHeapStart = errors.New("allocator: heap must not start at address 0")
)
