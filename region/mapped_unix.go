//go:build unix

package region

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapped is a range backed by a private anonymous mapping.
type Mapped struct {
	span
	data []byte
}

// Map creates a read/write anonymous mapping of at least size bytes, rounded up to the
// page size, and presents its first size bytes at start.
func Map(start uintptr, size uintptr) (*Mapped, error) {
	if err := checkRange(start, size); err != nil {
		return nil, err
	}

	pageSize := uintptr(unix.Getpagesize())
	length := (size + pageSize - 1) &^ (pageSize - 1)
	if length < size || length > uintptr(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: size=%d", ErrRangeOverflow, size)
	}

	data, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("region: mmap %d bytes: %w", length, err)
	}

	return &Mapped{
		span: span{
			start: start,
			size:  size,
			base:  unsafe.Pointer(&data[0]),
		},
		data: data,
	}, nil
}

// Close unmaps the range. The heap using it must not be touched afterwards.
func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	m.base = nil
	if errors.Is(err, unix.EINVAL) {
		return nil
	}
	return err
}
