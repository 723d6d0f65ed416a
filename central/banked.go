package central

import "github.com/tcache/talloc/deque"

// RandSource supplies the uniform random draws used to pick a bank. It
// is satisfied by the host-runtime random hook.
type RandSource interface {
	RandomU64() uint64
}

// Banked wraps N sibling FreeLists for the same size class, dispatching
// every operation to a bank chosen by a fresh random draw. This trades
// peak reserved bump space (up to N times a single list's) for reduced
// lock contention under concurrent access.
type Banked struct {
	banks []*FreeList
	rnd   RandSource
}

// NewBanked constructs n sibling central free lists for class cl.
func NewBanked(arena sysAllocator, cl uint8, n int, rnd RandSource) *Banked {
	banks := make([]*FreeList, n)
	for i := range banks {
		banks[i] = New(arena, cl)
	}
	return &Banked{banks: banks, rnd: rnd}
}

func (b *Banked) pick() *FreeList {
	return b.banks[b.rnd.RandomU64()%uint64(len(b.banks))]
}

// Alloc dispatches to a randomly chosen bank.
func (b *Banked) Alloc() (uintptr, error) {
	return b.pick().Alloc()
}

// Dealloc dispatches to a randomly chosen bank, forwarding the pointer.
//
// The original banked implementation drops its argument here
// (banks[rb()].dealloc() instead of banks[rb()].dealloc(p)), silently
// discarding every deallocation. This is fixed by forwarding p.
func (b *Banked) Dealloc(p uintptr) {
	b.pick().Dealloc(p)
}

// BulkAlloc dispatches to a randomly chosen bank.
func (b *Banked) BulkAlloc(dst *deque.Deque[uintptr]) error {
	return b.pick().BulkAlloc(dst)
}

// BulkDealloc dispatches to a randomly chosen bank.
func (b *Banked) BulkDealloc(src *deque.Deque[uintptr], n int) {
	b.pick().BulkDealloc(src, n)
}
