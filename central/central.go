// Package central implements the per-size-class central free list that
// sits between thread caches and the system arena, and its banked
// variant for reducing lock contention.
package central

import (
	"github.com/tcache/talloc/deque"
	"github.com/tcache/talloc/sizeclass"
	"github.com/tcache/talloc/ticket"
)

// sysAllocator is the narrow slice of region.Region a central list needs,
// kept as an interface so tests can supply a stub arena.
type sysAllocator interface {
	SysAlloc(chunkSize int, cl uint8) (start, end uintptr, err error)
}

// FreeList is one size class's central free list: a bump window handed
// out by the system arena, a free-deque of returned chunks, and the
// class's chunk size and bulk-transfer width, all under one mutex.
type FreeList struct {
	mu ticket.Mutex

	arena sysAllocator
	class uint8

	chunkSize     int
	elemsPerFetch int

	free      deque.Deque[uintptr]
	bumpStart uintptr
	bumpEnd   uintptr
}

// New creates the central free list for size class cl, whose chunk size
// is sizeclass.ToSize(cl). elemsPerFetch is clamped to [2, deque.BlockSize].
func New(arena sysAllocator, cl uint8) *FreeList {
	chunkSize := sizeclass.ToSize(int(cl))
	elemsPerFetch := sizeclass.FetchTargetSize / chunkSize
	if elemsPerFetch < 2 {
		elemsPerFetch = 2
	}
	if elemsPerFetch > deque.BlockSize {
		elemsPerFetch = deque.BlockSize
	}
	return &FreeList{
		arena:         arena,
		class:         cl,
		chunkSize:     chunkSize,
		elemsPerFetch: elemsPerFetch,
	}
}

// ElemsPerFetch returns the configured bulk-transfer width.
func (f *FreeList) ElemsPerFetch() int { return f.elemsPerFetch }

// refillBumpLocked pulls a fresh range from the system arena into the
// bump window. Caller must hold f.mu.
func (f *FreeList) refillBumpLocked() error {
	start, end, err := f.arena.SysAlloc(f.chunkSize, f.class)
	if err != nil {
		return err
	}
	f.bumpStart, f.bumpEnd = start, end
	return nil
}

func (f *FreeList) bumpCountLocked() int {
	return int(uintptr(f.bumpEnd-f.bumpStart)) / f.chunkSize
}

func (f *FreeList) bumpOneLocked() uintptr {
	p := f.bumpStart
	f.bumpStart += uintptr(f.chunkSize)
	return p
}

// Alloc hands out a single chunk: a free-deque pop if available, else a
// bump-window slice, refilling the bump window from the arena first if
// it's empty.
func (f *FreeList) Alloc() (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.free.Empty() {
		return f.free.DequeueBack(), nil
	}
	if f.bumpCountLocked() == 0 {
		if err := f.refillBumpLocked(); err != nil {
			return 0, err
		}
	}
	return f.bumpOneLocked(), nil
}

// Dealloc returns a single chunk to the free-deque.
func (f *FreeList) Dealloc(p uintptr) {
	f.mu.Lock()
	f.free.PushBack(p)
	f.mu.Unlock()
}

// BulkAlloc transfers up to ElemsPerFetch chunks into dst, which must be
// empty. It takes the fast path (transfer from the free-deque, splicing
// a whole block when the fetch width equals the block size) when enough
// free chunks are on hand; otherwise it refills the bump window from the
// arena and carves the transfer out of raw bump space. A transfer
// smaller than ElemsPerFetch chunks is not an error: the fresh bump
// window may not have enough room, in which case dst simply receives
// whatever fits.
func (f *FreeList) BulkAlloc(dst *deque.Deque[uintptr]) error {
	f.mu.Lock()

	if int64(f.free.Len()) >= int64(f.elemsPerFetch) {
		if f.elemsPerFetch == deque.BlockSize {
			f.free.StealFront(dst)
			f.mu.Unlock()
			return nil
		}
		for i := 0; i < f.elemsPerFetch; i++ {
			dst.PushBack(f.free.DequeueBack())
		}
		f.mu.Unlock()
		return nil
	}

	if f.bumpCountLocked() < f.elemsPerFetch {
		if err := f.refillBumpLocked(); err != nil {
			f.mu.Unlock()
			return err
		}
	}

	n := f.elemsPerFetch
	if avail := f.bumpCountLocked(); avail < n {
		n = avail
	}
	chunks := make([]uintptr, n)
	for i := 0; i < n; i++ {
		chunks[i] = f.bumpOneLocked()
	}
	f.mu.Unlock()

	for _, p := range chunks {
		dst.PushBack(p)
	}
	return nil
}

// BulkDealloc returns n chunks from src to the central free-deque. Full
// blocks are spliced across outside the lock and merged in; any
// remaining single elements are moved one at a time under the lock.
func (f *FreeList) BulkDealloc(src *deque.Deque[uintptr], n int) {
	fullBlocks := n / deque.BlockSize
	remainder := n % deque.BlockSize

	var spliced *deque.Deque[uintptr]
	if fullBlocks > 0 && src.Len() > int64(fullBlocks)*deque.BlockSize {
		spliced = src.SpliceFront(int64(fullBlocks))
	} else if fullBlocks > 0 {
		// Splicing would empty src; fall back to single-element moves
		// for the block-sized portion too.
		remainder += fullBlocks * deque.BlockSize
		fullBlocks = 0
	}

	if spliced != nil {
		f.mu.Lock()
		f.free.MergeFront(spliced)
		f.mu.Unlock()
	}

	if remainder == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < remainder; i++ {
		f.free.PushBack(src.DequeueBack())
	}
}
