// Package deque implements a double-ended queue built from fixed-size
// (32-slot) doubly linked blocks, supporting the bulk block-transfer
// operations a central free list needs (splice, merge, steal) in addition
// to the usual push/pop.
package deque

import "fmt"

// BlockSize is the fixed slot capacity of every block. It is a power of
// two so block index and intra-block slot are masks/shifts of phead/ptail.
const BlockSize = 32

const blockMask = BlockSize - 1

// block is a fixed-capacity ring of element slots with prev/next links.
// Ownership is strictly "the deque owns its blocks": blocks are never
// shared, reference-counted, or reachable from outside the owning deque.
type block[T any] struct {
	elems      [BlockSize]T
	prev, next *block[T]
}

// Deque is a blocked deque of elements of type T. The zero value is an
// empty deque ready to use.
type Deque[T any] struct {
	head, tail *block[T]
	phead      int64 // index of first live element
	ptail      int64 // index of first free slot
}

// Len returns the number of live elements.
func (d *Deque[T]) Len() int64 { return d.ptail - d.phead }

// Empty reports whether the deque holds no elements.
func (d *Deque[T]) Empty() bool { return d.phead == d.ptail }

func slot(i int64) int { return int(i & blockMask) }

func blockAligned(i int64) bool { return i&blockMask == 0 }

// PushFront prepends v to the deque.
func (d *Deque[T]) PushFront(v T) {
	if blockAligned(d.phead) {
		b := &block[T]{next: d.head}
		if d.head != nil {
			d.head.prev = b
		} else {
			d.tail = b
		}
		d.head = b
	}
	d.phead--
	d.head.elems[slot(d.phead)] = v
}

// PushBack appends v to the deque.
func (d *Deque[T]) PushBack(v T) {
	if blockAligned(d.ptail) {
		b := &block[T]{prev: d.tail}
		if d.tail != nil {
			d.tail.next = b
		} else {
			d.head = b
		}
		d.tail = b
	}
	d.tail.elems[slot(d.ptail)] = v
	d.ptail++
}

// Front returns the first element without removing it.
func (d *Deque[T]) Front() T {
	return d.head.elems[slot(d.phead)]
}

// Back returns the last element without removing it.
func (d *Deque[T]) Back() T {
	return d.tail.elems[slot(d.ptail-1)]
}

// PopFront removes and discards the first element.
func (d *Deque[T]) PopFront() {
	var zero T
	d.head.elems[slot(d.phead)] = zero
	d.phead++
	d.afterPopFront()
}

// PopBack removes and discards the last element.
func (d *Deque[T]) PopBack() {
	d.ptail--
	var zero T
	d.tail.elems[slot(d.ptail)] = zero
	d.afterPopBack()
}

// DequeueBack is the fused back-pop used on the allocator's hot path: it
// removes and returns the last element in a single call.
func (d *Deque[T]) DequeueBack() T {
	d.ptail--
	v := d.tail.elems[slot(d.ptail)]
	var zero T
	d.tail.elems[slot(d.ptail)] = zero
	d.afterPopBack()
	return v
}

func (d *Deque[T]) afterPopFront() {
	if d.phead == d.ptail {
		d.head, d.tail = nil, nil
		return
	}
	if blockAligned(d.phead) {
		d.head = d.head.next
		if d.head != nil {
			d.head.prev = nil
		}
	}
}

func (d *Deque[T]) afterPopBack() {
	if d.phead == d.ptail {
		d.head, d.tail = nil, nil
		return
	}
	if blockAligned(d.ptail) {
		d.tail = d.tail.prev
		if d.tail != nil {
			d.tail.next = nil
		}
	}
}

// StealFront moves exactly one full block (32 elements) from the head of
// d into dst, which must be empty. Precondition: d holds at least one
// full block.
func (d *Deque[T]) StealFront(dst *Deque[T]) {
	if !dst.Empty() {
		panic("deque: steal_front destination must be empty")
	}
	if d.Len() < BlockSize || !blockAligned(d.phead) {
		panic("deque: steal_front requires a full, block-aligned head block")
	}

	b := d.head
	dst.head, dst.tail = b, b
	dst.phead, dst.ptail = 0, BlockSize

	d.head = b.next
	if d.head != nil {
		d.head.prev = nil
	} else {
		d.tail = nil
	}
	d.phead += BlockSize
	b.next, b.prev = nil, nil

	if d.phead == d.ptail {
		d.head, d.tail = nil, nil
	}
}

// SpliceFront detaches the first n full blocks of d as a new deque.
// Precondition: phead is block-aligned and d holds more than n full
// blocks (d must not become empty).
func (d *Deque[T]) SpliceFront(n int64) *Deque[T] {
	if n <= 0 {
		panic("deque: splice_front requires n > 0")
	}
	if !blockAligned(d.phead) {
		panic("deque: splice_front requires a block-aligned phead")
	}
	if d.Len() <= n*BlockSize {
		panic("deque: splice_front must not leave the source empty")
	}

	out := &Deque[T]{head: d.head, phead: 0, ptail: n * BlockSize}

	b := d.head
	for i := int64(1); i < n; i++ {
		b = b.next
	}
	out.tail = b

	d.head = b.next
	d.head.prev = nil
	d.phead += n * BlockSize

	b.next = nil
	return out
}

// MergeFront absorbs other's elements onto the front of d, leaving other
// empty. Precondition: both deques are block-aligned at phead.
func (d *Deque[T]) MergeFront(other *Deque[T]) {
	if !blockAligned(d.phead) || !blockAligned(other.phead) {
		panic("deque: merge_front requires block-aligned deques")
	}
	if other.Empty() {
		return
	}
	if d.Empty() {
		d.head, d.tail = other.head, other.tail
		d.phead, d.ptail = other.phead, other.ptail
	} else {
		other.tail.next = d.head
		d.head.prev = other.tail
		d.head = other.head
		d.phead -= other.Len()
	}
	other.head, other.tail = nil, nil
	other.phead, other.ptail = 0, 0
}

// String renders a short diagnostic summary, useful for fatal-error
// reporting on invariant violations.
func (d *Deque[T]) String() string {
	return fmt.Sprintf("deque{phead=%d ptail=%d len=%d}", d.phead, d.ptail, d.Len())
}
