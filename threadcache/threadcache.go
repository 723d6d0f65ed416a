// Package threadcache implements the per-thread front end of the
// allocator: 256 per-class deques plus an aggregate byte counter,
// refilling and draining in bulk from the central tier so the hot path
// never takes a lock.
package threadcache

import (
	"github.com/tcache/talloc/deque"
	"github.com/tcache/talloc/sizeclass"
)

// CentralList is the slice of a central.FreeList (or central.Banked)
// that a thread cache needs.
type CentralList interface {
	BulkAlloc(dst *deque.Deque[uintptr]) error
	BulkDealloc(src *deque.Deque[uintptr], n int)
}

// Cache is one thread's front-end allocator state. It is only ever
// touched by its owning thread; nothing here is synchronized.
type Cache struct {
	cacheSize  int
	classLists [sizeclass.NumClasses]deque.Deque[uintptr]
}

// Size returns the number of chunks currently cached for class cl.
func (c *Cache) Size(cl uint8) int64 { return c.classLists[cl].Len() }

// CacheSize returns the aggregate byte count owned by this cache across
// all classes. It always equals the sum of classToSize(cl)*size(cl).
func (c *Cache) CacheSize() int { return c.cacheSize }

// Alloc returns one chunk of class cl, bulk-refilling from central if
// the local deque for cl is empty.
func (c *Cache) Alloc(cl uint8, central CentralList) (uintptr, error) {
	list := &c.classLists[cl]
	if list.Empty() {
		before := list.Len()
		if err := central.BulkAlloc(list); err != nil {
			return 0, err
		}
		c.cacheSize += int(list.Len()-before) * sizeclass.ToSize(int(cl))
	}
	p := list.DequeueBack()
	c.cacheSize -= sizeclass.ToSize(int(cl))
	return p, nil
}

// Dealloc returns one chunk of class cl to the cache, donating roughly
// half of each non-empty class back to the central tier if the cache has
// grown past sizeclass.DonationThreshold.
func (c *Cache) Dealloc(p uintptr, cl uint8, centralOf func(uint8) CentralList) {
	c.classLists[cl].PushBack(p)
	c.cacheSize += sizeclass.ToSize(int(cl))

	if c.cacheSize <= sizeclass.DonationThreshold {
		return
	}

	// NOTE: this walks all 255 classLists even though only a few are
	// typically populated; a bitset of "classes in use" was tried and
	// rejected because every BulkAlloc/Dealloc would have to maintain it.
	for classIdx := 1; classIdx < sizeclass.NumClasses; classIdx++ {
		list := &c.classLists[classIdx]
		elems := list.Len()
		if elems == 0 {
			continue
		}
		toDonate := (elems + 1) / 2
		central := centralOf(uint8(classIdx))
		before := list.Len()
		central.BulkDealloc(list, int(toDonate))
		moved := before - list.Len()
		c.cacheSize -= int(moved) * sizeclass.ToSize(classIdx)
	}
}
