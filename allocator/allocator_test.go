package allocator

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockedHeap_ZeroValue(t *testing.T) {
	var h LockedHeap
	assert.False(t, h.IsReady())
	assert.Nil(t, h.FreeRegions())
	assert.Equal(t, Stats{}, h.Stats())

	err := recoverError(func() {
		h.Alloc(Layout{Size: 8, Align: 8})
	})
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = recoverError(func() {
		h.Dealloc(0x1000, Layout{Size: 8, Align: 8})
	})
	assert.ErrorIs(t, err, ErrNotInitialized)

	// the lock must have been released by the panics
	assert.True(t, h.lock.TryToAcquire())
	h.lock.Release()
}

func TestLockedHeap_Init(t *testing.T) {
	h, _ := newTestHeap(0x1000, 4096)
	assert.True(t, h.IsReady())
	assert.Equal(t, []Region{{Start: 0x1000, Size: 4096}}, h.FreeRegions())
	assert.Equal(t, Stats{
		HeapSize:    4096,
		FreeBytes:   4096,
		FreeRegions: 1,
		LargestFree: 4096,
	}, h.Stats())
}

func TestLockedHeap_InitTwice(t *testing.T) {
	h, mem := newTestHeap(0x1000, 4096)
	assert.PanicsWithValue(t, ErrAlreadyInitialized, func() {
		h.Init(mem, 0x1000, 4096)
	})
	assert.Equal(t, []Region{{Start: 0x1000, Size: 4096}}, h.FreeRegions())
}

func TestLockedHeap_Init_Misaligned(t *testing.T) {
	h := NewLockedHeap()
	err := recoverError(func() {
		h.Init(newTestMemory(0x1001, 64), 0x1001, 64)
	})
	assert.ErrorIs(t, err, ErrMisalignedRegion)
	assert.False(t, h.IsReady())
}

func TestLockedHeap_RoundTrip(t *testing.T) {
	h, _ := newTestHeap(0x1000, 4096)
	l := mustLayout(t, 64, 8)

	a, ok := h.Alloc(l)
	require.True(t, ok)
	assert.Equal(t, uintptr(0), a%8)
	assert.GreaterOrEqual(t, a, uintptr(0x1000))
	assert.Less(t, a, uintptr(0x1000+4096))
	assert.Equal(t, uintptr(0x1000), a)
	assert.Equal(t, []Region{{Start: 0x1040, Size: 4096 - 64}}, h.FreeRegions())

	h.Dealloc(a, l)
	assert.Equal(t, []Region{
		{Start: 0x1000, Size: 64},
		{Start: 0x1040, Size: 4096 - 64},
	}, h.FreeRegions())

	b, ok := h.Alloc(l)
	require.True(t, ok)
	assert.Equal(t, a, b)
	assert.Equal(t, []Region{{Start: 0x1040, Size: 4096 - 64}}, h.FreeRegions())
}

func TestLockedHeap_Fragmentation(t *testing.T) {
	h, _ := newTestHeap(0x1000, 64)
	l := mustLayout(t, 32, 8)

	a, ok := h.Alloc(l)
	require.True(t, ok)
	b, ok := h.Alloc(l)
	require.True(t, ok)
	assert.Equal(t, uintptr(0x1000), a)
	assert.Equal(t, uintptr(0x1020), b)
	assert.Nil(t, h.FreeRegions())

	h.Dealloc(a, l)
	h.Dealloc(b, l)
	assert.Equal(t, []Region{
		{Start: 0x1020, Size: 32},
		{Start: 0x1000, Size: 32},
	}, h.FreeRegions())

	// 48 bytes are free side by side but never merged
	_, ok = h.Alloc(mustLayout(t, 48, 8))
	assert.False(t, ok)

	stats := h.Stats()
	assert.Equal(t, uintptr(64), stats.FreeBytes)
	assert.Equal(t, uintptr(32), stats.LargestFree)
	assert.Equal(t, 2, stats.FreeRegions)
}

func TestLockedHeap_OutOfMemory(t *testing.T) {
	h, _ := newTestHeap(0x1000, 64)

	addr, ok := h.Alloc(mustLayout(t, 100, 8))
	assert.False(t, ok)
	assert.Equal(t, uintptr(0), addr)
	assert.Equal(t, []Region{{Start: 0x1000, Size: 64}}, h.FreeRegions())

	_, ok = h.Alloc(mustLayout(t, 64, 8))
	assert.True(t, ok)

	_, ok = h.Alloc(mustLayout(t, 1, 1))
	assert.False(t, ok)
}

func TestLockedHeap_FitBoundary(t *testing.T) {
	h, _ := newTestHeap(0x1000, 32)
	addr, ok := h.Alloc(mustLayout(t, 32, 8))
	assert.True(t, ok)
	assert.Equal(t, uintptr(0x1000), addr)
	assert.Nil(t, h.FreeRegions())

	h, _ = newTestHeap(0x1000, 32)
	_, ok = h.Alloc(mustLayout(t, 33, 8))
	assert.False(t, ok)
}

func TestLockedHeap_MinimumLeftover(t *testing.T) {
	for k := uintptr(1); k < blockSize; k++ {
		h, _ := newTestHeap(0x1000, 32+k)
		_, ok := h.Alloc(mustLayout(t, 32, 8))
		assert.False(t, ok, "k=%d", k)
		assert.Equal(t, []Region{{Start: 0x1000, Size: 32 + k}}, h.FreeRegions())
	}

	h, _ := newTestHeap(0x1000, 40)
	_, ok := h.Alloc(mustLayout(t, 32, 8))
	assert.False(t, ok)

	addr, ok := h.Alloc(mustLayout(t, 40, 8))
	assert.True(t, ok)
	assert.Equal(t, uintptr(0x1000), addr)
}

func TestLockedHeap_SplitLeftover(t *testing.T) {
	h, _ := newTestHeap(0x1000, 256)

	a, ok := h.Alloc(mustLayout(t, 10, 4))
	require.True(t, ok)
	assert.Equal(t, uintptr(0x1000), a)
	assert.Equal(t, []Region{{Start: 0x1010, Size: 240}}, h.FreeRegions())

	b, ok := h.Alloc(mustLayout(t, 24, 64))
	require.True(t, ok)
	assert.Equal(t, uintptr(0x1040), b)
	assert.Equal(t, []Region{{Start: 0x1080, Size: 128}}, h.FreeRegions())

	stats := h.Stats()
	assert.Equal(t, uintptr(16+64), stats.UsedBytes)
	assert.Equal(t, uintptr(0x30), stats.PaddingBytes)
	assert.Equal(t, uint64(2), stats.Allocations)
	assert.Equal(t, stats.HeapSize, stats.FreeBytes+stats.UsedBytes+stats.PaddingBytes)
}

type liveAlloc struct {
	addr   uintptr
	layout Layout
	fill   byte
}

type span struct {
	start uintptr
	end   uintptr
}

func assertHeapInvariants(t *testing.T, h *LockedHeap, heapStart uintptr, live []liveAlloc) {
	t.Helper()

	stats := h.Stats()
	assert.Equal(t, stats.HeapSize, stats.FreeBytes+stats.UsedBytes+stats.PaddingBytes)
	assert.Equal(t, uint64(len(live)), stats.Allocations)

	var spans []span
	for _, r := range h.FreeRegions() {
		assert.Equal(t, uintptr(0), r.Start%blockAlign)
		assert.GreaterOrEqual(t, r.Size, blockSize)
		spans = append(spans, span{start: r.Start, end: r.End()})
	}
	for _, a := range live {
		size, _ := sizeAlign(a.layout)
		spans = append(spans, span{start: a.addr, end: a.addr + size})
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})
	for i, s := range spans {
		assert.GreaterOrEqual(t, s.start, heapStart)
		assert.LessOrEqual(t, s.end, heapStart+stats.HeapSize)
		if i > 0 {
			assert.LessOrEqual(t, spans[i-1].end, s.start, "overlap at %#x", s.start)
		}
	}
}

func TestLockedHeap_RandomOperations(t *testing.T) {
	const heapStart = 0x10000
	const heapSize = 1 << 16

	h, mem := newTestHeap(heapStart, heapSize)
	r := rand.New(rand.NewSource(42))
	aligns := []uintptr{1, 2, 4, 8, 8, 8, 16, 64}

	var live []liveAlloc
	for i := 0; i < 5000; i++ {
		if len(live) > 0 && (len(live) >= 64 || r.Intn(2) == 0) {
			index := r.Intn(len(live))
			a := live[index]
			for _, b := range mem.bytes(a.addr, a.layout.Size) {
				require.Equal(t, a.fill, b)
			}
			h.Dealloc(a.addr, a.layout)
			live[index] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			l := mustLayout(t, uintptr(r.Intn(256)), aligns[r.Intn(len(aligns))])
			addr, ok := h.Alloc(l)
			if ok {
				assert.Equal(t, uintptr(0), addr%l.Align)
				fill := byte(r.Intn(255) + 1)
				data := mem.bytes(addr, l.Size)
				for k := range data {
					data[k] = fill
				}
				live = append(live, liveAlloc{addr: addr, layout: l, fill: fill})
			}
		}

		if i%100 == 0 {
			assertHeapInvariants(t, h, heapStart, live)
		}
	}
	assertHeapInvariants(t, h, heapStart, live)
}

func TestLockedHeap_CapacityConservation(t *testing.T) {
	h, _ := newTestHeap(0x1000, 4096)
	layouts := []Layout{
		mustLayout(t, 1, 1),
		mustLayout(t, 17, 8),
		mustLayout(t, 100, 4),
		mustLayout(t, 64, 8),
	}

	var addrs []uintptr
	for _, l := range layouts {
		addr, ok := h.Alloc(l)
		require.True(t, ok)
		addrs = append(addrs, addr)
	}

	stats := h.Stats()
	assert.Equal(t, uintptr(16+24+104+64), stats.UsedBytes)
	assert.Equal(t, uintptr(0), stats.PaddingBytes)
	assert.Equal(t, uintptr(4096), stats.FreeBytes+stats.UsedBytes)

	for i, l := range layouts {
		h.Dealloc(addrs[i], l)
	}

	stats = h.Stats()
	assert.Equal(t, uintptr(0), stats.UsedBytes)
	assert.Equal(t, uintptr(4096), stats.FreeBytes)
	assert.Equal(t, 5, stats.FreeRegions)
}
