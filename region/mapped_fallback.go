//go:build !unix

package region

// Mapped is unavailable without mmap.
type Mapped struct {
	span
}

// Map always fails on platforms without anonymous mappings, use NewArena instead.
func Map(start uintptr, size uintptr) (*Mapped, error) {
	if err := checkRange(start, size); err != nil {
		return nil, err
	}
	return nil, ErrMapUnsupported
}

// Close ...
func (m *Mapped) Close() error {
	return nil
}
