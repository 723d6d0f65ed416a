package capi

import "errors"

var (
	// ErrInvalidAlignment matches posix_memalign's EINVAL case: the
	// requested alignment is zero, not a power of two, or not a
	// multiple of a pointer's size.
	ErrInvalidAlignment = errors.New("capi: invalid alignment")

	// ErrAlignmentUnsupported is returned for an otherwise-valid
	// alignment this allocator cannot honor: every chunk it hands out
	// is aligned to the 64-byte size-class quantum at best, so a
	// request for a coarser alignment can't be satisfied. The original
	// silently ignored this case (a FIXME notes it assumed cache-line
	// alignment); this module reports it instead.
	ErrAlignmentUnsupported = errors.New("capi: alignment exceeds size-class quantum")
)
