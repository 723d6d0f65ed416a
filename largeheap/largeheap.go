// Package largeheap implements a best-fit, eagerly-coalescing heap for
// allocation requests too large for any size class.
package largeheap

import (
	"github.com/google/btree"

	"github.com/tcache/talloc/ticket"
)

// Arena is the slice of region.Region a large heap needs to grow into.
type Arena interface {
	SysAlloc(chunkSize int, cl uint8) (start, end uintptr, err error)
}

// addrItem orders known chunk start addresses for neighbor lookups.
type addrItem uintptr

func (a addrItem) Less(than btree.Item) bool { return a < than.(addrItem) }

// sizeBucket groups every free chunk of exactly size bytes, ordered by
// size so best-fit can ask "smallest free size >= N" in O(log n).
type sizeBucket struct {
	size  int
	addrs map[uintptr]struct{}
}

func (s *sizeBucket) Less(than btree.Item) bool { return s.size < than.(*sizeBucket).size }

// Heap is a best-fit allocator over an address-ordered map of chunks
// with eager bidirectional coalescing of free neighbors.
type Heap struct {
	mu    ticket.Mutex
	arena Arena

	// chunkSizes maps every known chunk's start address (live or free)
	// to its length; O(1) size lookup by address.
	chunkSizes map[uintptr]int

	// addrs orders the same key set as chunkSizes, for O(log n)
	// address-adjacent neighbor lookups during coalescing.
	addrs *btree.BTree

	// freeBySize orders free chunks by size, for O(log n) best-fit.
	freeBySize *btree.BTree
}

// btreeDegree is an arbitrary branching factor; large heaps hold at
// most a few thousand live chunks so tree depth is never a concern.
const btreeDegree = 32

// New creates an empty large heap backed by arena.
func New(arena Arena) *Heap {
	return &Heap{
		arena:      arena,
		chunkSizes: make(map[uintptr]int),
		addrs:      btree.New(btreeDegree),
		freeBySize: btree.New(btreeDegree),
	}
}

func (h *Heap) setChunkLocked(addr uintptr, size int) {
	h.chunkSizes[addr] = size
	h.addrs.ReplaceOrInsert(addrItem(addr))
}

func (h *Heap) deleteChunkLocked(addr uintptr) {
	delete(h.chunkSizes, addr)
	h.addrs.Delete(addrItem(addr))
}

// bestFitLocked finds the smallest free chunk with size >= need, or 0
// if none exists.
func (h *Heap) bestFitLocked(need int) (start uintptr, size int, ok bool) {
	h.freeBySize.AscendGreaterOrEqual(&sizeBucket{size: need}, func(i btree.Item) bool {
		b := i.(*sizeBucket)
		for addr := range b.addrs {
			start, size, ok = addr, b.size, true
			break
		}
		return false
	})
	return
}

func (h *Heap) bucketLocked(size int) *sizeBucket {
	item := h.freeBySize.Get(&sizeBucket{size: size})
	if item == nil {
		return nil
	}
	return item.(*sizeBucket)
}

func (h *Heap) removeFromFreeSetLocked(addr uintptr, size int) {
	b := h.bucketLocked(size)
	if b == nil {
		return
	}
	delete(b.addrs, addr)
	if len(b.addrs) == 0 {
		h.freeBySize.Delete(b)
	}
}

func (h *Heap) addToFreeSetLocked(addr uintptr, size int) {
	b := h.bucketLocked(size)
	if b == nil {
		b = &sizeBucket{size: size, addrs: make(map[uintptr]struct{})}
		h.freeBySize.ReplaceOrInsert(b)
	}
	b.addrs[addr] = struct{}{}
}

// Alloc reserves a chunk of exactly size bytes, preferring the smallest
// free chunk able to satisfy the request (best fit). Any excess in the
// chosen chunk is recorded as a new, eagerly-coalesced free chunk.
func (h *Heap) Alloc(size int) (uintptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	addr, chosenSize, ok := h.bestFitLocked(size)
	if !ok {
		start, end, err := h.arena.SysAlloc(size, 0)
		if err != nil {
			return 0, err
		}
		addr, chosenSize = start, int(end-start)
		h.setChunkLocked(addr, chosenSize)
	} else {
		h.removeFromFreeSetLocked(addr, chosenSize)
	}

	h.setChunkLocked(addr, size)

	if remainder := chosenSize - size; remainder > 0 {
		remainderAddr := addr + uintptr(size)
		h.setChunkLocked(remainderAddr, remainder)
		h.coalesceAndFreeLocked(remainderAddr)
	}

	return addr, nil
}

// neighborsLocked finds the chunks immediately before and after addr in
// address order, provided addr itself is already a known chunk.
func (h *Heap) neighborsLocked(addr uintptr) (prev, next uintptr, havePrev, haveNext bool) {
	seen := 0
	h.addrs.AscendGreaterOrEqual(addrItem(addr), func(i btree.Item) bool {
		seen++
		if seen == 1 {
			return true // i == addr itself, keep going for its successor
		}
		next, haveNext = uintptr(i.(addrItem)), true
		return false
	})
	if seen == 0 {
		return 0, 0, false, false
	}

	seen = 0
	h.addrs.DescendLessOrEqual(addrItem(addr), func(i btree.Item) bool {
		seen++
		if seen == 1 {
			return true // i == addr itself, keep going for its predecessor
		}
		prev, havePrev = uintptr(i.(addrItem)), true
		return false
	})
	return
}

func (h *Heap) isFreeLocked(addr uintptr) bool {
	size, ok := h.chunkSizes[addr]
	if !ok {
		return false
	}
	b := h.bucketLocked(size)
	if b == nil {
		return false
	}
	_, ok = b.addrs[addr]
	return ok
}

// coalesceAndFreeLocked marks the chunk at addr (already present in
// chunkSizes) as free, absorbing an adjacent free predecessor and/or
// successor first.
func (h *Heap) coalesceAndFreeLocked(addr uintptr) {
	size := h.chunkSizes[addr]

	prev, next, havePrev, haveNext := h.neighborsLocked(addr)

	if havePrev {
		prevSize := h.chunkSizes[prev]
		if h.isFreeLocked(prev) && prev+uintptr(prevSize) == addr {
			h.removeFromFreeSetLocked(prev, prevSize)
			h.deleteChunkLocked(addr)
			addr = prev
			size += prevSize
			h.setChunkLocked(addr, size)
		}
	}

	if haveNext {
		nextSize := h.chunkSizes[next]
		if h.isFreeLocked(next) && addr+uintptr(size) == next {
			h.removeFromFreeSetLocked(next, nextSize)
			h.deleteChunkLocked(next)
			size += nextSize
			h.setChunkLocked(addr, size)
		}
	}

	h.addToFreeSetLocked(addr, size)
}

// Dealloc frees a previously allocated chunk, eagerly coalescing with
// any free address-adjacent neighbors. It is a fatal error (invalid
// free) to deallocate an address this heap never allocated.
func (h *Heap) Dealloc(addr uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.chunkSizes[addr]; !ok {
		return ErrInvalidFree
	}
	h.coalesceAndFreeLocked(addr)
	return nil
}

// ChunkToSizeNoAssert returns the recorded size of addr, or 0 if addr is
// not a chunk this heap knows about. This tolerance (rather than a
// fatal error) exists for stale pointers retained by deferred
// abort/commit handlers.
func (h *Heap) ChunkToSizeNoAssert(addr uintptr) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.chunkSizes[addr]
}
