package allocator

import "fmt"

type heapState uint32

const (
	heapUninitialized heapState = 0
	heapReady         heapState = 1
)

// Stats ...
type Stats struct {
	HeapSize     uintptr
	FreeBytes    uintptr
	UsedBytes    uintptr
	PaddingBytes uintptr // PaddingBytes is lost in front of over-aligned allocations
	FreeRegions  int
	LargestFree  uintptr
	Allocations  uint64
}

// LockedHeap is a LinkedList guarded by a Spinlock. Its zero value is an
// uninitialized heap, Init moves it to the ready state exactly once.
type LockedHeap struct {
	lock Spinlock

	state heapState
	list  LinkedList

	heapSize     uintptr
	usedBytes    uintptr
	paddingBytes uintptr
	allocCount   uint64
}

// NewLockedHeap ...
func NewLockedHeap() *LockedHeap {
	return &LockedHeap{
		state: heapUninitialized,
		list:  NewLinkedList(),
	}
}

// Init hands [heapStart, heapStart+heapSize) to the heap. The range must already be
// readable and writable through mem and must not be touched by anyone else afterwards.
func (h *LockedHeap) Init(mem Memory, heapStart uintptr, heapSize uintptr) {
	h.lock.Acquire()
	defer h.lock.Release()

	if h.state != heapUninitialized {
		panic(ErrAlreadyInitialized)
	}

	h.list.Init(mem, heapStart, heapSize)
	h.heapSize = heapSize
	h.state = heapReady
}

func (h *LockedHeap) mustBeReady(op string) {
	if h.state != heapReady {
		panic(fmt.Errorf("%w: %s", ErrNotInitialized, op))
	}
}

// Alloc returns the start address of a span satisfying l, or false when no free
// region fits. It never retries or grows the heap.
func (h *LockedHeap) Alloc(l Layout) (uintptr, bool) {
	size, align := sizeAlign(l)

	h.lock.Acquire()
	defer h.lock.Release()

	h.mustBeReady("alloc")

	region, allocStart, ok := h.list.findRegion(size, align)
	if !ok {
		return 0, false
	}

	allocEnd := allocStart + size
	excess := region.End() - allocEnd
	if excess > 0 {
		h.list.addFreeRegion(allocEnd, excess)
	}

	h.usedBytes += size
	h.paddingBytes += allocStart - region.Start
	h.allocCount++

	return allocStart, true
}

// Dealloc returns the span at addr to the heap. addr must come from Alloc with the
// same layout and must not have been freed since, neither is checked. The span is
// not merged with its neighbours.
func (h *LockedHeap) Dealloc(addr uintptr, l Layout) {
	size, _ := sizeAlign(l)

	h.lock.Acquire()
	defer h.lock.Release()

	h.mustBeReady("dealloc")

	h.list.addFreeRegion(addr, size)
	h.usedBytes -= size
	h.allocCount--
}

// Stats walks the free list under the lock.
func (h *LockedHeap) Stats() Stats {
	h.lock.Acquire()
	defer h.lock.Release()

	result := Stats{
		HeapSize:     h.heapSize,
		UsedBytes:    h.usedBytes,
		PaddingBytes: h.paddingBytes,
		Allocations:  h.allocCount,
	}
	if h.state != heapReady {
		return result
	}

	for _, r := range h.list.FreeRegions() {
		result.FreeRegions++
		result.FreeBytes += r.Size
		if r.Size > result.LargestFree {
			result.LargestFree = r.Size
		}
	}
	return result
}

// FreeRegions returns a snapshot of the free list in search order.
func (h *LockedHeap) FreeRegions() []Region {
	h.lock.Acquire()
	defer h.lock.Release()

	if h.state != heapReady {
		return nil
	}
	return h.list.FreeRegions()
}

// IsReady ...
func (h *LockedHeap) IsReady() bool {
	h.lock.Acquire()
	defer h.lock.Release()

	return h.state == heapReady
}
