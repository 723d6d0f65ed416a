package threadcache

import "github.com/tcache/talloc/sizeclass"

// Table holds one Cache per thread slot, mirroring the fixed
// threadCaches[kMaxThreads] array the allocator state constructs at
// initialization.
type Table struct {
	caches [sizeclass.MaxThreads]Cache
}

// NewTable constructs a ready-to-use table of thread caches.
func NewTable() *Table { return &Table{} }

// For returns the cache owned by thread slot tid.
func (t *Table) For(tid uint64) *Cache {
	return &t.caches[tid%sizeclass.MaxThreads]
}
