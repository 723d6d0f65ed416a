package talloc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeHooks struct{ tid uint64 }

func (f fakeHooks) ThreadID() uint64  { return f.tid }
func (f fakeHooks) RandomU64() uint64 { return rand.Uint64() }

func TestState_AllocZeroReturnsNull(t *testing.T) {
	st := NewState(fakeHooks{}, ConfigUnbanked)
	require.Equal(t, uintptr(0), st.Alloc(0))
}

func TestState_AllocDeallocSmallRoundTrips(t *testing.T) {
	st := NewState(fakeHooks{}, ConfigUnbanked)

	p := st.Alloc(100)
	require.NotZero(t, p)
	require.True(t, st.ValidChunk(p))
	require.Equal(t, 128, st.ChunkSize(p)) // rounds up to the 64-byte quantum

	st.Dealloc(p)

	q := st.Alloc(100)
	require.NotZero(t, q)
}

func TestState_AllocDeallocLargeRoundTrips(t *testing.T) {
	st := NewState(fakeHooks{}, ConfigUnbanked)

	p := st.Alloc(1 << 20)
	require.NotZero(t, p)
	require.True(t, st.ValidChunk(p))
	require.Equal(t, 1<<20, st.ChunkSize(p))

	st.Dealloc(p)
	// A freed chunk with no coalescing neighbor stays a known chunk; the
	// large heap only drops a chunkSizes entry once it's absorbed into a
	// neighboring free chunk. ChunkSize still reports its recorded size.
	require.Equal(t, 1<<20, st.ChunkSize(p))
	require.Zero(t, st.ChunkSize(p+10<<20), "an address this heap never handed out is unknown, not just freed")
}

func TestState_DeallocUnknownAddressIsFatal(t *testing.T) {
	st := NewState(fakeHooks{}, ConfigUnbanked)

	p := st.Alloc(1 << 20)
	require.NotZero(t, p)

	require.Panics(t, func() {
		st.Dealloc(p + 8) // not a chunk the large heap ever handed out
	})
}

func TestState_BankedConfigServesAllocations(t *testing.T) {
	st := NewState(fakeHooks{}, ConfigBanked4)

	p := st.Alloc(256)
	require.NotZero(t, p)
	require.Equal(t, 256, st.ChunkSize(p))
	st.Dealloc(p)
}

func TestState_ManySmallAllocationsStayDistinctWhileLive(t *testing.T) {
	st := NewState(fakeHooks{}, ConfigUnbanked)

	seen := make(map[uintptr]bool)
	for i := 0; i < 512; i++ {
		p := st.Alloc(64)
		require.False(t, seen[p], "address reused while live")
		seen[p] = true
	}
}
