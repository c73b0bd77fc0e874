package allocator

import (
	"runtime"
	"sync/atomic"
)

const spinAttemptsBeforeYielding = 64

var (
	// yieldFn runs after spinAttemptsBeforeYielding failed attempts. A freestanding
	// build without a scheduler sets it to nil and spins forever.
	yieldFn = runtime.Gosched
)

// Spinlock implements a lock where each context trying to acquire it busy-waits
// till the lock becomes available. It never sleeps.
//
// Any attempt to re-acquire a lock already held by the current context will cause
// a deadlock. In particular, an interrupt handler that allocates while the code it
// interrupted holds the heap lock on the same core never returns. Callers must
// disable interrupts while holding the lock or never allocate from such handlers.
type Spinlock struct {
	state atomic.Uint32
}

// Acquire blocks until the lock can be acquired by the current context.
func (l *Spinlock) Acquire() {
	for attempts := 0; ; attempts++ {
		if l.state.Load() == 0 && l.state.CompareAndSwap(0, 1) {
			return
		}
		if attempts >= spinAttemptsBeforeYielding && yieldFn != nil {
			yieldFn()
			attempts = 0
		}
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release relinquishes a held lock. Calling Release while the lock is free has
// no effect.
func (l *Spinlock) Release() {
	l.state.Store(0)
}
