package hostsim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTask_DoomedFreesImmediatelyOnAlloc(t *testing.T) {
	task := NewTask(true, false)
	var freed []uintptr

	task.OnAlloc(0x1000, func(p uintptr) { freed = append(freed, p) })

	require.Equal(t, []uintptr{0x1000}, freed)
	require.Empty(t, task.abortQueue)
}

func TestTask_NonDoomedQueuesUntilAbort(t *testing.T) {
	task := NewTask(false, false)
	var freed []uintptr
	free := func(p uintptr) { freed = append(freed, p) }

	task.OnAlloc(0x1000, free)
	task.OnAlloc(0x2000, free)
	require.Empty(t, freed)

	task.Abort(free)
	require.ElementsMatch(t, []uintptr{0x1000, 0x2000}, freed)
}

func TestTask_CommitDiscardsAbortQueue(t *testing.T) {
	task := NewTask(false, false)
	var freed []uintptr
	free := func(p uintptr) { freed = append(freed, p) }

	task.OnAlloc(0x1000, free)
	task.OnFree(0x2000, free)
	task.Commit(free)

	require.Equal(t, []uintptr{0x2000}, freed)
}

func TestTask_IrrevocableFreesImmediatelyOnFree(t *testing.T) {
	task := NewTask(false, true)
	var freed []uintptr

	task.OnFree(0x3000, func(p uintptr) { freed = append(freed, p) })

	require.Equal(t, []uintptr{0x3000}, freed)
	require.Empty(t, task.commitQueue)
}

func TestTask_FlushDedupsDoublyQueuedPointer(t *testing.T) {
	task := NewTask(false, false)
	var freed []uintptr
	free := func(p uintptr) { freed = append(freed, p) }

	task.OnFree(0x4000, free)
	task.OnFree(0x4000, free)
	task.Commit(free)

	require.Equal(t, []uintptr{0x4000}, freed)
}

func TestTask_AbortThenCommitQueuesAreBothCleared(t *testing.T) {
	task := NewTask(false, false)
	var freed []uintptr
	free := func(p uintptr) { freed = append(freed, p) }

	task.OnAlloc(0x1000, free)
	task.OnFree(0x2000, free)
	task.Abort(free)

	require.Equal(t, []uintptr{0x1000}, freed)
	require.Empty(t, task.abortQueue)
	require.Empty(t, task.commitQueue)
}
