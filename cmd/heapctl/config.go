package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/QuangTung97/kheap/allocator"
	"github.com/QuangTung97/kheap/region"
)

type heapConfig struct {
	Start uint64
	Size  uint64
	Mmap  bool
}

func (c heapConfig) validate() error {
	if c.Start == 0 {
		return errors.New("--start must not be 0")
	}
	if c.Start%uint64(allocator.BlockAlign()) != 0 {
		return fmt.Errorf("--start %#x must be %d-byte aligned", c.Start, allocator.BlockAlign())
	}
	if c.Size < uint64(allocator.MinBlockSize()) {
		return fmt.Errorf("--size %d is smaller than one free block (%d)", c.Size, allocator.MinBlockSize())
	}
	return nil
}

type heapRange interface {
	allocator.Memory
	io.Closer
	Start() uintptr
	Size() uintptr
	Bytes(addr uintptr, n uintptr) []byte
}

// newHeap maps the configured range and initializes a heap over it.
func newHeap(conf heapConfig) (*allocator.LockedHeap, heapRange, error) {
	if err := conf.validate(); err != nil {
		return nil, nil, err
	}

	var (
		r   heapRange
		err error
	)
	if conf.Mmap {
		r, err = region.Map(uintptr(conf.Start), uintptr(conf.Size))
	} else {
		r, err = region.NewArena(uintptr(conf.Start), uintptr(conf.Size))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create heap range: %w", err)
	}

	h := allocator.NewLockedHeap()
	h.Init(r, r.Start(), r.Size())
	logger.Debug("heap initialized", "start", fmt.Sprintf("%#x", r.Start()), "size", r.Size(), "mmap", conf.Mmap)
	return h, r, nil
}
