// Package region implements the system arena: two parallel bump
// allocators — one over a tracked virtual address range visible to the
// host's speculative-execution substrate, one over an untracked range
// used for the allocator's own page-indexed size-classification map —
// both backed by fixed-address anonymous mappings rounded to 2 MiB
// superpages.
package region

import (
	"errors"
	"sync/atomic"

	"github.com/tcache/talloc/sizeclass"
	"github.com/tcache/talloc/ticket"
)

const (
	// TrackedBaseAddr is the fixed virtual address at which the tracked
	// region begins.
	TrackedBaseAddr = 0x0a8000000000

	// UntrackedBaseAddr is the fixed virtual address at which the
	// untracked (size-map) region begins.
	UntrackedBaseAddr = 0x0b8000000000

	// RegionSize is the reserved span of each region, 512 GiB.
	RegionSize = 512 << 30
)

// ErrRegionExhausted is returned when a region's bump pointer would
// advance past its reserved 512 GiB span. The original implementation
// has no such check and instead fails opaquely inside mmap; this is an
// explicit closing of that open question.
var ErrRegionExhausted = errors.New("region: exhausted 512GiB reservation")

// mapper abstracts the platform-specific fixed-address mapping calls so
// Region stays portable across the unix/fallback split.
type mapper interface {
	// mapFixed maps length bytes of zero-filled, read-write anonymous
	// memory at the fixed address addr.
	mapFixed(addr, length uintptr) error
}

// Region owns the tracked and untracked bump allocators and the
// page-indexed size-classification map that lives in the untracked
// region.
type Region struct {
	mu ticket.Mutex

	m mapper

	trackedBump atomic.Uintptr // published with release ordering; read unlocked by ValidChunk
	trackedEnd  uintptr

	sizemapBump uintptr
	sizemapEnd  uintptr
}

// New creates a Region and reserves nothing yet; the first SysAlloc call
// performs the initial mapping, matching the allocator's lazy-init
// discipline.
func New() *Region {
	r := &Region{m: platformMapper{}}
	r.trackedBump.Store(TrackedBaseAddr)
	r.trackedEnd = TrackedBaseAddr
	r.sizemapBump = UntrackedBaseAddr
	r.sizemapEnd = UntrackedBaseAddr
	return r
}

// TrackedBase returns the fixed base address of the tracked region.
func (r *Region) TrackedBase() uintptr { return TrackedBaseAddr }

// TrackedBump returns the current tracked bump pointer. It is safe to
// call without holding any lock: writers publish with a release store
// and this performs the matching acquire load.
func (r *Region) TrackedBump() uintptr { return r.trackedBump.Load() }

// ValidChunk reports whether p lies within the live tracked range.
func (r *Region) ValidChunk(p uintptr) bool {
	return p >= TrackedBaseAddr && p <= r.TrackedBump()
}

// ChunkToClass returns the size class recorded for the tracked page
// containing p. 0 means the page belongs to the large heap.
func (r *Region) ChunkToClass(p uintptr) uint8 {
	pageIdx := (p - TrackedBaseAddr) >> sizeclass.PageBits
	return loadByte(UntrackedBaseAddr + pageIdx)
}

func allocContiguous(m mapper, sz uintptr, bump, end *uintptr) (uintptr, error) {
	alloc := *bump
	*bump += sz
	if *bump > *end {
		mmapSz := (((*bump - *end) >> 21) + 1) << 21 // round up to 2MiB
		if err := m.mapFixed(*end, mmapSz); err != nil {
			return 0, err
		}
		*end += mmapSz
	}
	return alloc, nil
}

// SysAlloc reserves chunkSize bytes (rounded up to a whole number of
// pages, floored at 32 pages) in the tracked region and a matching
// number of bytes in the size-map, and — unless chunkSize is a large
// allocation — stamps the size-map entries for the new pages with the
// size class cl. It returns the reserved [start, end) tracked range.
func (r *Region) SysAlloc(chunkSize int, cl uint8) (start, end uintptr, err error) {
	minPages := sizeclass.PagesFor(chunkSize)
	pages := minPages
	if pages < sizeclass.MinArenaGrowthPages {
		pages = sizeclass.MinArenaGrowthPages
	}
	allocSize := uintptr(pages) << sizeclass.PageBits

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.trackedBump.Load()+allocSize > TrackedBaseAddr+RegionSize {
		return 0, 0, ErrRegionExhausted
	}
	if r.sizemapBump+uintptr(pages) > UntrackedBaseAddr+RegionSize {
		return 0, 0, ErrRegionExhausted
	}

	trackedBump := r.trackedBump.Load()
	alloc, err := allocContiguous(r.m, allocSize, &trackedBump, &r.trackedEnd)
	if err != nil {
		return 0, 0, err
	}
	r.trackedBump.Store(trackedBump) // release publish

	if _, err := allocContiguous(r.m, uintptr(pages), &r.sizemapBump, &r.sizemapEnd); err != nil {
		return 0, 0, err
	}

	if !sizeclass.IsLarge(chunkSize) {
		base := (alloc - TrackedBaseAddr) >> sizeclass.PageBits
		for page := uintptr(0); page < uintptr(pages); page++ {
			storeByte(UntrackedBaseAddr+base+page, cl)
		}
	}

	return alloc, alloc + allocSize, nil
}
