package sizeclass

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToClass_Boundaries(t *testing.T) {
	require.Equal(t, 1, ToClass(1))
	require.Equal(t, 1, ToClass(64))
	require.Equal(t, 2, ToClass(65))
	require.Equal(t, 255, ToClass(MaxSmallSize))
}

func TestIsLarge(t *testing.T) {
	require.False(t, IsLarge(MaxSmallSize))
	require.True(t, IsLarge(MaxSmallSize+1))
}

func TestToSize_RoundTrip(t *testing.T) {
	for cl := 1; cl < NumClasses; cl++ {
		sz := ToSize(cl)
		require.Equal(t, cl, ToClass(sz))
	}
}

func TestRoundLarge(t *testing.T) {
	require.Equal(t, 64, RoundLarge(1))
	require.Equal(t, 128, RoundLarge(65))
	require.Equal(t, 1 << 20, RoundLarge(1<<20))
}

func TestPagesFor(t *testing.T) {
	require.Equal(t, 1, PagesFor(1))
	require.Equal(t, 1, PagesFor(PageSize))
	require.Equal(t, 2, PagesFor(PageSize+1))
}
