package hostsim

import "sort"

// Task models one speculative task's view of the allocator: every
// allocation it makes must be unwound if the task aborts, and every
// free it issues must not take effect until the task is guaranteed to
// survive (committed, or running irrevocably).
//
// A Task is not safe for concurrent use; a speculative task runs on one
// thread at a time by construction.
type Task struct {
	doomed      bool
	irrevocable bool
	abortQueue  []uintptr
	commitQueue []uintptr
}

// NewTask starts tracking a speculative task. doomed means the task is
// already known to abort (so allocations can be freed immediately
// rather than queued); irrevocable means the task is running without
// rollback (so frees can take effect immediately).
func NewTask(doomed, irrevocable bool) *Task {
	return &Task{doomed: doomed, irrevocable: irrevocable}
}

// dealloc is whatever callers use to actually release memory; it is
// threaded through rather than imported so this package never needs a
// hard dependency on a concrete allocator state type.
type dealloc func(p uintptr)

// OnAlloc registers p for cleanup if this task aborts, matching
// on_abort_dealloc: a doomed task frees immediately since it is certain
// to roll back, anything else is queued for Abort.
func (t *Task) OnAlloc(p uintptr, free dealloc) {
	if t.doomed {
		free(p)
		return
	}
	t.abortQueue = append(t.abortQueue, p)
}

// OnFree registers p for release once this task is guaranteed not to
// roll back, matching on_commit_dealloc: an irrevocable task frees
// immediately, anything else is queued for Commit.
func (t *Task) OnFree(p uintptr, free dealloc) {
	if t.irrevocable {
		free(p)
		return
	}
	t.commitQueue = append(t.commitQueue, p)
}

// Abort runs every queued abort-dealloc and discards the commit queue:
// a task that never commits never gets to run its frees.
func (t *Task) Abort(free dealloc) {
	flush(t.abortQueue, free)
	t.abortQueue = nil
	t.commitQueue = nil
}

// Commit runs every queued commit-dealloc. The abort queue is
// discarded: allocations made by a committed task are retained.
func (t *Task) Commit(free dealloc) {
	flush(t.commitQueue, free)
	t.abortQueue = nil
	t.commitQueue = nil
}

// flush sorts and dedups the queued pointers before releasing them, the
// same coalesce-before-flush shape as batching dirty byte ranges: a
// task that frees the same pointer twice (e.g. a realloc's old pointer
// queued alongside an explicit free some other path also queued)
// must not double-release it.
func flush(ptrs []uintptr, free dealloc) {
	if len(ptrs) == 0 {
		return
	}
	sorted := append([]uintptr(nil), ptrs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var prev uintptr
	for i, p := range sorted {
		if i > 0 && p == prev {
			continue
		}
		free(p)
		prev = p
	}
}
