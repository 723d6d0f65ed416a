package deque

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeque_PushPopFIFO(t *testing.T) {
	var d Deque[int]
	for i := 0; i < 100; i++ {
		d.PushBack(i)
	}
	require.Equal(t, int64(100), d.Len())
	for i := 0; i < 100; i++ {
		require.Equal(t, i, d.Front())
		d.PopFront()
	}
	require.True(t, d.Empty())
}

func TestDeque_PushFrontReversesOrder(t *testing.T) {
	var d Deque[int]
	for i := 0; i < 40; i++ {
		d.PushFront(i)
	}
	for i := 39; i >= 0; i-- {
		require.Equal(t, i, d.Front())
		d.PopFront()
	}
	require.True(t, d.Empty())
}

func TestDeque_DequeueBack(t *testing.T) {
	var d Deque[int]
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	for i := 9; i >= 0; i-- {
		require.Equal(t, i, d.DequeueBack())
	}
	require.True(t, d.Empty())
}

func TestDeque_EquivalenceToReference(t *testing.T) {
	var d Deque[int]
	var ref []int

	ops := []struct {
		front bool
		push  bool
		v     int
	}{
		{true, true, 1}, {false, true, 2}, {true, true, 3},
		{false, true, 4}, {false, false, 0}, {true, false, 0},
		{false, true, 5}, {false, true, 6}, {false, false, 0},
	}

	for _, op := range ops {
		if op.push {
			if op.front {
				d.PushFront(op.v)
				ref = append([]int{op.v}, ref...)
			} else {
				d.PushBack(op.v)
				ref = append(ref, op.v)
			}
			continue
		}
		if op.front {
			require.Equal(t, ref[0], d.Front())
			ref = ref[1:]
			d.PopFront()
		} else {
			require.Equal(t, ref[len(ref)-1], d.Back())
			ref = ref[:len(ref)-1]
			d.PopBack()
		}
	}

	require.Equal(t, int64(len(ref)), d.Len())
	for _, want := range ref {
		require.Equal(t, want, d.Front())
		d.PopFront()
	}
}

func TestDeque_StealFront(t *testing.T) {
	var d, dst Deque[int]
	for i := 0; i < BlockSize*2; i++ {
		d.PushBack(i)
	}
	d.StealFront(&dst)

	require.Equal(t, int64(BlockSize), dst.Len())
	require.Equal(t, int64(BlockSize), d.Len())
	for i := 0; i < BlockSize; i++ {
		require.Equal(t, i, dst.Front())
		dst.PopFront()
	}
	for i := BlockSize; i < BlockSize*2; i++ {
		require.Equal(t, i, d.Front())
		d.PopFront()
	}
}

func TestDeque_StealFrontRequiresFullBlock(t *testing.T) {
	var d, dst Deque[int]
	d.PushBack(1)
	require.Panics(t, func() { d.StealFront(&dst) })
}

func TestDeque_SpliceFrontAndMergeFront(t *testing.T) {
	var d Deque[int]
	for i := 0; i < BlockSize*3; i++ {
		d.PushBack(i)
	}

	spliced := d.SpliceFront(2)
	require.Equal(t, int64(BlockSize*2), spliced.Len())
	require.Equal(t, int64(BlockSize), d.Len())

	d.MergeFront(spliced)
	require.True(t, spliced.Empty())
	require.Equal(t, int64(BlockSize*3), d.Len())

	for i := 0; i < BlockSize*3; i++ {
		require.Equal(t, i, d.Front())
		d.PopFront()
	}
}

func TestDeque_SpliceFrontMustNotEmptySource(t *testing.T) {
	var d Deque[int]
	for i := 0; i < BlockSize*2; i++ {
		d.PushBack(i)
	}
	require.Panics(t, func() { d.SpliceFront(2) })
}

func TestDeque_MergeFrontIntoEmpty(t *testing.T) {
	var d, other Deque[int]
	for i := 0; i < BlockSize; i++ {
		other.PushBack(i)
	}
	d.MergeFront(&other)
	require.True(t, other.Empty())
	require.Equal(t, int64(BlockSize), d.Len())
}
