package talloc

import "errors"

// Per the allocator's error-handling design, invalid-free,
// oversubscription, and internal-invariant violations are all fatal:
// there is no recoverable error return for them. These sentinels exist
// only so fatal() can attach a stable, greppable cause to the
// diagnostic it prints before terminating.
var (
	// errInvalidFree indicates a pointer outside the tracked region, or
	// a large-heap pointer unknown to the large heap.
	errInvalidFree = errors.New("talloc: invalid free")

	// errOversubscribed indicates a fixed-address mapping failed to
	// extend a region.
	errOversubscribed = errors.New("talloc: region oversubscribed")
)
