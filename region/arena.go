package region

import "unsafe"

// Arena is a range backed by memory from the Go heap.
type Arena struct {
	span
	data []uint64
}

// NewArena allocates size bytes of 8-byte aligned storage presented at start.
func NewArena(start uintptr, size uintptr) (*Arena, error) {
	if err := checkRange(start, size); err != nil {
		return nil, err
	}

	data := make([]uint64, (size+7)>>3)
	return &Arena{
		span: span{
			start: start,
			size:  size,
			base:  unsafe.Pointer(&data[0]),
		},
		data: data,
	}, nil
}

// Close ...
func (a *Arena) Close() error {
	return nil
}
