package talloc

import (
	"github.com/tcache/talloc/central"
	"github.com/tcache/talloc/largeheap"
	"github.com/tcache/talloc/region"
	"github.com/tcache/talloc/sizeclass"
	"github.com/tcache/talloc/threadcache"
)

// centralOps is the interface every size class's central list (banked
// or not) presents to State.
type centralOps interface {
	Alloc() (uintptr, error)
	Dealloc(p uintptr)
	threadcache.CentralList
}

// randAdapter lets a Hooks value satisfy central.RandSource without the
// central package depending on talloc.
type randAdapter struct{ h Hooks }

func (r randAdapter) RandomU64() uint64 { return r.h.RandomU64() }

// State is the allocator's process-singleton state: the central lists,
// the large heap, the per-thread caches, and the system arena they all
// draw from.
//
// Unlike the fixed-address, placement-constructed AllocState this
// allocator's design is modeled on, State is an ordinary heap-allocated
// Go value: Go has no equivalent to C++'s undefined global-constructor
// ordering problem, so the "lazy init on first allocation, guarded by a
// single word" discipline collapses into simply constructing State
// before any caller can reach it (NewState does this eagerly). The
// region package still performs its own lazy, on-demand mmap the first
// time any size class or the large heap actually needs memory.
type State struct {
	hooks  Hooks
	region *region.Region

	classLists   [sizeclass.NumClasses]centralOps // index 0 unused
	threadCaches *threadcache.Table
	largeHeap    *largeheap.Heap
}

// NewState constructs a ready-to-use allocator state.
func NewState(hooks Hooks, cfg Config) *State {
	st := &State{
		hooks:        hooks,
		region:       region.New(),
		threadCaches: threadcache.NewTable(),
	}
	st.largeHeap = largeheap.New(st.region)

	banks := cfg.Banks
	if banks < 1 {
		banks = 1
	}
	for cl := 1; cl < sizeclass.NumClasses; cl++ {
		if banks == 1 {
			st.classLists[cl] = central.New(st.region, uint8(cl))
		} else {
			st.classLists[cl] = central.NewBanked(st.region, uint8(cl), banks, randAdapter{hooks})
		}
	}
	return st
}

func (st *State) centralFor(cl uint8) centralOps { return st.classLists[cl] }

// Alloc implements do_alloc: classify sz, then route to the current
// thread's cache for small requests or the large heap for large ones.
func (st *State) Alloc(sz int) uintptr {
	if sz == 0 {
		return 0
	}
	if !sizeclass.IsLarge(sz) {
		cl := sizeclass.ToClass(sz)
		tid := st.hooks.ThreadID()
		p, err := st.threadCaches.For(tid).Alloc(uint8(cl), st.centralFor(uint8(cl)))
		if err != nil {
			fatal(errOversubscribed, err.Error())
		}
		return p
	}

	sz = sizeclass.RoundLarge(sz)
	p, err := st.largeHeap.Alloc(sz)
	if err != nil {
		fatal(errOversubscribed, err.Error())
	}
	return p
}

// Dealloc implements do_dealloc: a no-op on the null pointer, otherwise
// routed by the pointer's recorded size class.
func (st *State) Dealloc(p uintptr) {
	if p == 0 {
		return
	}
	cl := st.region.ChunkToClass(p)
	if cl != 0 {
		tid := st.hooks.ThreadID()
		st.threadCaches.For(tid).Dealloc(p, cl, func(cl uint8) threadcache.CentralList {
			return st.centralFor(cl)
		})
		return
	}
	if err := st.largeHeap.Dealloc(p); err != nil {
		fatal(errInvalidFree, err.Error())
	}
}

// ChunkSize implements chunk_size.
func (st *State) ChunkSize(p uintptr) int {
	cl := st.region.ChunkToClass(p)
	if cl != 0 {
		return sizeclass.ToSize(int(cl))
	}
	return st.largeHeap.ChunkToSizeNoAssert(p)
}

// ValidChunk implements valid_chunk: p must lie within the live tracked
// range. The underlying read is lock-free; see region.Region.ValidChunk.
func (st *State) ValidChunk(p uintptr) bool {
	return st.region.ValidChunk(p)
}
