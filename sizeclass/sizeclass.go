// Package sizeclass classifies allocation requests into fixed-quantum
// size classes: 256 classes of 64-byte granularity, with class 0
// reserved to mark large-heap allocations.
package sizeclass

const (
	// Quantum is the size granularity of one size class, in bytes.
	Quantum = 64

	// NumClasses is the total number of size classes, including the
	// reserved class 0.
	NumClasses = 256

	// MaxSmallSize is the largest request size still served by a small
	// size class.
	MaxSmallSize = (NumClasses - 1) * Quantum // 16320

	// PageBits / PageSize define the page granularity of the size map.
	PageBits = 15
	PageSize = 1 << PageBits // 32 KiB

	// MaxThreads bounds the thread-cache slot table.
	MaxThreads = 2048

	// DonationThreshold is the per-thread cache byte budget; crossing it
	// triggers a donation of roughly half of each non-empty class back
	// to the central free lists.
	DonationThreshold = 4 * 1024 * 1024

	// FetchTargetSize is the amount of data a thread cache tries to pull
	// from a central free list per refill.
	FetchTargetSize = 32 * 1024

	// MinArenaGrowthPages is the minimum number of pages sysAlloc hands
	// out per acquisition, to amortize mapping calls.
	MinArenaGrowthPages = 32

	// SuperpageSize is the OS mapping quantum used when extending a
	// region.
	SuperpageSize = 2 * 1024 * 1024
)

// ToClass returns the size class (1..255) that can satisfy a request of
// sz bytes. Callers must check IsLarge(sz) first; ToClass does not
// itself reject large sizes.
func ToClass(sz int) int {
	return (sz + Quantum - 1) / Quantum
}

// ToSize returns the usable byte size of size class cl.
func ToSize(cl int) int {
	return cl * Quantum
}

// IsLarge reports whether sz must be routed to the large heap rather
// than a size class.
func IsLarge(sz int) bool {
	return ToClass(sz) >= NumClasses
}

// RoundLarge rounds a large-allocation request up to the 64-byte
// quantum, matching the rounding small classes get implicitly.
func RoundLarge(sz int) int {
	return (sz + Quantum - 1) &^ (Quantum - 1)
}

// PagesFor returns the number of PageSize pages needed to cover sz bytes.
func PagesFor(sz int) int {
	return (sz + PageSize - 1) >> PageBits
}
