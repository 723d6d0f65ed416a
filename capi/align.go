package capi

import (
	"github.com/tcache/talloc/hostsim"
	"github.com/tcache/talloc/sizeclass"
)

// PosixMemalign allocates size bytes aligned to alignment, which must be
// a power of two and a multiple of the platform pointer size.
// Alignments coarser than the allocator's 64-byte size-class quantum
// can't be honored — every chunk this allocator hands out is quantum
// aligned at best — and return ErrAlignmentUnsupported rather than
// silently under-aligning the way the original did.
func (r *Runtime) PosixMemalign(task *hostsim.Task, alignment, size int) (uintptr, error) {
	if size == 0 {
		return 0, nil
	}
	const pointerSize = 8
	if alignment == 0 || alignment&(alignment-1) != 0 || alignment%pointerSize != 0 {
		return 0, ErrInvalidAlignment
	}
	if alignment > sizeclass.Quantum {
		return 0, ErrAlignmentUnsupported
	}
	return r.Malloc(task, size), nil
}

// AlignedAlloc is PosixMemalign with the allocation-failure case
// collapsed to a nil pointer, matching aligned_alloc's signature.
func (r *Runtime) AlignedAlloc(task *hostsim.Task, alignment, size int) uintptr {
	p, err := r.PosixMemalign(task, alignment, size)
	if err != nil {
		return 0
	}
	return p
}

// Memalign is an alias for AlignedAlloc kept for source compatibility.
func (r *Runtime) Memalign(task *hostsim.Task, alignment, size int) uintptr {
	return r.AlignedAlloc(task, alignment, size)
}
