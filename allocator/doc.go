// Package allocator implements a first-fit free-list heap over a single address range.
//
// # Layout
//
// Every free region starts with a freeBlock header holding the region size and the
// address of the next free region. The list is rooted at a sentinel head that never
// describes memory. Allocated spans are tracked only by their absence from the list.
//
// # Allocation
//
// Alloc normalizes the requested Layout (alignment raised to the header alignment, size
// rounded up to that alignment and to at least one header), then takes the first free
// region that fits. The region is unlinked and whatever is left after the allocation is
// pushed back as a new free region. A remainder that is non-empty but too small for a
// header makes the region unsuitable.
//
// Dealloc pushes the normalized span back to the front of the list. Adjacent free
// regions are never merged, so a heap can fail a request smaller than its total free
// space.
//
// # Concurrency
//
// LockedHeap serializes all access with a Spinlock. The lock is not reentrant: calling
// Alloc or Dealloc from an interrupt handler that preempted a lock holder on the same
// core deadlocks.
package allocator
