// Package hostsim provides a runnable stand-in for the host-runtime
// hooks a speculative/transactional execution substrate would supply:
// a stable per-thread id, a random source for bank selection, and the
// deferred-dealloc protocol speculative tasks need around free and
// malloc.
//
// The core allocator (the talloc package) only ever sees the narrow
// talloc.Hooks interface; everything speculation-specific lives here so
// the core stays oblivious to it.
package hostsim

import (
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Hooks is a reference talloc.Hooks implementation. ThreadID assigns a
// stable small slot to each OS thread the first time it's seen;
// RandomU64 draws from the process-wide default source.
type Hooks struct {
	mu    sync.Mutex
	slots map[int]uint64
	next  uint64
}

// New constructs a ready-to-use Hooks value.
func New() *Hooks {
	return &Hooks{slots: make(map[int]uint64)}
}

// ThreadID returns the calling OS thread's stable slot, assigning a
// fresh one on first use.
func (h *Hooks) ThreadID() uint64 {
	tid := unix.Gettid()

	h.mu.Lock()
	defer h.mu.Unlock()

	if slot, ok := h.slots[tid]; ok {
		return slot
	}
	slot := h.next
	h.slots[tid] = slot
	h.next++
	return slot
}

// RandomU64 returns a uniformly distributed pseudo-random value.
func (h *Hooks) RandomU64() uint64 { return rand.Uint64() }

// WriteStdOut writes a diagnostic line before an unimplemented external
// entry point aborts the process, matching the direct-write hook the
// original's abort_unimplemented used.
func (h *Hooks) WriteStdOut(msg string) {
	fmt.Fprintln(os.Stdout, msg)
}
