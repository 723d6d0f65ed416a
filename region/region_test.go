package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeMapper exercises the bump/extension bookkeeping in allocContiguous
// without issuing real mmap syscalls.
type fakeMapper struct{ calls []uintptr }

func (f *fakeMapper) mapFixed(addr, length uintptr) error {
	f.calls = append(f.calls, addr)
	return nil
}

func TestAllocContiguous_ExtendsOnlyWhenBumpPassesEnd(t *testing.T) {
	fm := &fakeMapper{}
	bump, end := uintptr(0x1000), uintptr(0x1000)

	alloc, err := allocContiguous(fm, 16, &bump, &end)
	require.NoError(t, err)
	require.Equal(t, uintptr(0x1000), alloc)
	require.Len(t, fm.calls, 1)
	require.Equal(t, uintptr(0x1000), fm.calls[0])
	require.Greater(t, end, bump-16)

	// A second small request within the already-mapped window must not
	// trigger another mapping call.
	_, err = allocContiguous(fm, 16, &bump, &end)
	require.NoError(t, err)
	require.Len(t, fm.calls, 1)
}

// The remaining tests exercise SysAlloc against a real mapping: the
// fixed tracked/untracked addresses are chosen specifically so a real
// process can reserve them, and the sizemap reads/writes this package
// performs only make sense against real backing pages.

func TestRegion_SysAllocGrantsContiguousTrackedRange(t *testing.T) {
	r := New()

	start, end, err := r.SysAlloc(128, 2)
	require.NoError(t, err)
	require.Equal(t, uintptr(TrackedBaseAddr), start)
	require.Greater(t, end, start)
	require.Equal(t, end, r.TrackedBump())
}

func TestRegion_SysAllocFloorsAt32Pages(t *testing.T) {
	r := New()

	start, end, err := r.SysAlloc(1, 1)
	require.NoError(t, err)
	require.Equal(t, uintptr(32)<<15, end-start)
}

func TestRegion_SysAllocStampsSizemapForSmallClass(t *testing.T) {
	r := New()

	start, _, err := r.SysAlloc(64, 7)
	require.NoError(t, err)
	require.Equal(t, uint8(7), r.ChunkToClass(start))
}

func TestRegion_SysAllocLeavesSizemapZeroForLarge(t *testing.T) {
	r := New()

	start, _, err := r.SysAlloc(1<<20, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(0), r.ChunkToClass(start))
}

func TestRegion_ValidChunk(t *testing.T) {
	r := New()
	require.False(t, r.ValidChunk(TrackedBaseAddr-1))

	start, end, err := r.SysAlloc(64, 1)
	require.NoError(t, err)
	require.True(t, r.ValidChunk(start))
	require.True(t, r.ValidChunk(end))
	require.False(t, r.ValidChunk(end+1))
}

func TestRegion_SysAllocExtendsBumpAcrossMultipleCalls(t *testing.T) {
	r := New()

	_, end1, err := r.SysAlloc(64, 1)
	require.NoError(t, err)
	start2, _, err := r.SysAlloc(64, 1)
	require.NoError(t, err)
	require.Equal(t, end1, start2)
}
