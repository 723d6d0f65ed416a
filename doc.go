// Package talloc implements a thread-caching general-purpose allocator
// for a host that needs most allocations served without ever taking a
// lock: small requests are served from a per-thread cache, which
// refills in bulk from per-size-class central free lists, which in turn
// draw from a fixed-address system arena; requests too large for any
// size class go straight to a best-fit, eagerly-coalescing large heap.
//
// # Layering
//
//	thread cache -> central free list(s) -> system arena (region.Region)
//	large request -> large heap -> system arena (region.Region)
//
// # Host integration
//
// The allocator never touches the operating system or a scheduler
// directly except through region.Region's fixed-address mappings. Two
// things a host must still supply are modeled as the Hooks interface:
// a thread-id source (for thread-cache slot selection) and a random
// source (for banked central-list selection). A reference
// implementation of Hooks, plus the speculative deferred-dealloc queue
// that a host running speculative/transactional workloads would layer
// on top, lives in talloc/hostsim.
//
// # Usage
//
//	st := talloc.NewState(hostsim.New(), talloc.DefaultConfig)
//	p := st.Alloc(128)
//	defer st.Dealloc(p)
package talloc
