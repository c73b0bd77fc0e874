package region

import "errors"

var (
	// ErrEmptyRange indicates a request for a zero-sized heap range.
	ErrEmptyRange = errors.New("region: empty range")

	// ErrRangeOverflow indicates a range whose end does not fit in the address space.
	ErrRangeOverflow = errors.New("region: range overflows address space")

	// ErrOutOfRange indicates an address outside the granted range.
	ErrOutOfRange = errors.New("region: address out of range")

	// ErrMapUnsupported indicates that anonymous mappings are not available on this platform.
	ErrMapUnsupported = errors.New("region: mmap not supported on this platform")
)
