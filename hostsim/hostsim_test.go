package hostsim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHooks_ThreadIDStableForSameOSThread(t *testing.T) {
	h := New()
	first := h.ThreadID()
	second := h.ThreadID()
	require.Equal(t, first, second)
}

func TestHooks_RandomU64VariesAcrossDraws(t *testing.T) {
	h := New()
	a := h.RandomU64()
	distinct := false
	for i := 0; i < 16; i++ {
		if h.RandomU64() != a {
			distinct = true
			break
		}
	}
	require.True(t, distinct, "RandomU64 returned the same value every draw")
}
