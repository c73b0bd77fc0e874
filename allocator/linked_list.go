package allocator

import (
	"fmt"
	"unsafe"
)

const nilAddr uintptr = 0

// Memory translates heap addresses into host pointers.
type Memory interface {
	ToRealAddr(addr uintptr) unsafe.Pointer
}

// freeBlock is written at the start of every free region, the region ends at
// start + size.
type freeBlock struct {
	size uintptr
	next uintptr
}

var (
	blockSize  = unsafe.Sizeof(freeBlock{})
	blockAlign = unsafe.Alignof(freeBlock{})
)

// MinBlockSize is the smallest span that can be tracked as a free region.
func MinBlockSize() uintptr {
	return blockSize
}

// BlockAlign is the alignment every free region start must have.
func BlockAlign() uintptr {
	return blockAlign
}

// Region ...
type Region struct {
	Start uintptr
	Size  uintptr
}

// End ...
func (r Region) End() uintptr {
	return r.Start + r.Size
}

// LinkedList is a first-fit free list whose nodes live inside the free memory they
// describe. It is not safe for concurrent use, see LockedHeap.
type LinkedList struct {
	head freeBlock
	mem  Memory
}

// NewLinkedList returns an empty list holding only the sentinel head.
func NewLinkedList() LinkedList {
	return LinkedList{
		head: freeBlock{size: 0, next: nilAddr},
	}
}

// Init registers [heapStart, heapStart+heapSize) as the first free region. The
// caller must own the range exclusively and mem must cover it.
func (l *LinkedList) Init(mem Memory, heapStart uintptr, heapSize uintptr) {
	if heapStart == nilAddr {
		panic(ErrNullHeapStart)
	}
	l.mem = mem
	l.addFreeRegion(heapStart, heapSize)
}

func (l *LinkedList) block(addr uintptr) *freeBlock {
	return (*freeBlock)(l.mem.ToRealAddr(addr))
}

func (l *LinkedList) addFreeRegion(addr uintptr, size uintptr) {
	if aligned, ok := alignUp(addr, blockAlign); !ok || aligned != addr {
		panic(fmt.Errorf("%w: addr=%#x align=%d", ErrMisalignedRegion, addr, blockAlign))
	}
	if size < blockSize {
		panic(fmt.Errorf("%w: size=%d min=%d", ErrRegionTooSmall, size, blockSize))
	}

	node := l.block(addr)
	*node = freeBlock{
		size: size,
		next: l.head.next,
	}
	l.head.next = addr
}

// findRegion unlinks and returns the first region able to hold size bytes at align,
// together with the aligned allocation start.
func (l *LinkedList) findRegion(size uintptr, align uintptr) (Region, uintptr, bool) {
	current := &l.head

	for current.next != nilAddr {
		addr := current.next
		region := l.block(addr)

		allocStart, ok := allocFromRegion(addr, addr+region.size, size, align)
		if ok {
			current.next = region.next
			region.next = nilAddr
			return Region{Start: addr, Size: region.size}, allocStart, true
		}

		current = region
	}

	return Region{}, 0, false
}

// allocFromRegion checks whether [start, end) can hold size bytes aligned to align.
// A remainder must be either empty or large enough to become a free region itself.
func allocFromRegion(start uintptr, end uintptr, size uintptr, align uintptr) (uintptr, bool) {
	allocStart, ok := alignUp(start, align)
	if !ok {
		return 0, false
	}

	allocEnd := allocStart + size
	if allocEnd < allocStart {
		return 0, false
	}

	if allocEnd > end {
		return 0, false
	}

	excess := end - allocEnd
	if excess > 0 && excess < blockSize {
		return 0, false
	}

	return allocStart, true
}

func (l *LinkedList) contentOfList() []uintptr {
	var result []uintptr
	addr := l.head.next
	for addr != nilAddr {
		result = append(result, addr)
		addr = l.block(addr).next
	}
	return result
}

// FreeRegions returns the free regions in list order.
func (l *LinkedList) FreeRegions() []Region {
	var result []Region
	addr := l.head.next
	for addr != nilAddr {
		node := l.block(addr)
		result = append(result, Region{Start: addr, Size: node.size})
		addr = node.next
	}
	return result
}
