package allocator

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type testMemory struct {
	start uintptr
	data  []uint64
}

func newTestMemory(start uintptr, size uintptr) *testMemory {
	return &testMemory{
		start: start,
		data:  make([]uint64, (size+7)>>3),
	}
}

func (m *testMemory) ToRealAddr(addr uintptr) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(&m.data[0]), addr-m.start)
}

func (m *testMemory) bytes(addr uintptr, n uintptr) []byte {
	return unsafe.Slice((*byte)(m.ToRealAddr(addr)), n)
}

func recoverError(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if !ok {
			panic(r)
		}
		err = e
	}()
	fn()
	return nil
}

func mustLayout(t *testing.T, size uintptr, align uintptr) Layout {
	t.Helper()
	l, err := NewLayout(size, align)
	require.NoError(t, err)
	return l
}

func newTestHeap(start uintptr, size uintptr) (*LockedHeap, *testMemory) {
	mem := newTestMemory(start, size)
	h := NewLockedHeap()
	h.Init(mem, start, size)
	return h, mem
}
