// Package capi is a thin, malloc-compatible adapter over talloc.State:
// the same entry points a C allocator library exports (malloc, calloc,
// realloc, free, posix_memalign, strdup, ...), reimplemented as Go
// methods taking the speculative task that on_abort_dealloc/
// on_commit_dealloc would otherwise thread through thread-local state.
//
// Every allocation and free here is attributed to an explicit
// *hostsim.Task rather than an implicit "current task" the runtime
// tracks behind the scenes, since Go has no cheap equivalent of the
// thread-local globals the original relied on.
package capi

import (
	"fmt"

	"github.com/tcache/talloc"
	"github.com/tcache/talloc/hostsim"
)

// Runtime pairs an allocator state with the diagnostic hook the
// unimplemented-surface stubs need.
type Runtime struct {
	state *talloc.State
	hooks *hostsim.Hooks
}

// New wraps state and hooks in a malloc-compatible adapter.
func New(state *talloc.State, hooks *hostsim.Hooks) *Runtime {
	return &Runtime{state: state, hooks: hooks}
}

// Malloc allocates size bytes, registering the result with task for
// cleanup if task aborts.
func (r *Runtime) Malloc(task *hostsim.Task, size int) uintptr {
	if size == 0 {
		return 0
	}
	p := r.state.Alloc(size)
	task.OnAlloc(p, r.state.Dealloc)
	return p
}

// Calloc allocates nmemb*size zero-filled bytes.
func (r *Runtime) Calloc(task *hostsim.Task, nmemb, size int) uintptr {
	sz := nmemb * size
	if sz == 0 {
		return 0
	}
	p := r.Malloc(task, sz)
	zero(p, sz)
	return p
}

// Realloc resizes the chunk at ptr to size bytes, reusing it in place
// when the current chunk is already within [size, 2*size), and
// otherwise allocating fresh, copying, and deferring release of the old
// chunk exactly like free would. A nil ptr behaves like Malloc; a zero
// size behaves like Free and returns 0.
func (r *Runtime) Realloc(task *hostsim.Task, ptr uintptr, size int) uintptr {
	if ptr == 0 {
		return r.Malloc(task, size)
	}
	if !r.state.ValidChunk(ptr) {
		r.abort(fmt.Sprintf("realloc: invalid chunk %#x", ptr))
	}
	if size == 0 {
		r.Free(task, ptr)
		return 0
	}

	chunkSize := r.state.ChunkSize(ptr)
	if chunkSize >= size && chunkSize/2 <= size {
		return ptr
	}

	newPtr := r.Malloc(task, size)
	copyN := size
	if chunkSize < copyN {
		copyN = chunkSize
	}
	copyBytes(newPtr, ptr, copyN)
	r.Free(task, ptr)
	return newPtr
}

// Free releases ptr once task is guaranteed not to roll back. A nil
// ptr is a no-op.
func (r *Runtime) Free(task *hostsim.Task, ptr uintptr) {
	if ptr == 0 {
		return
	}
	task.OnFree(ptr, r.state.Dealloc)
}

// Cfree is an alias for Free kept for source compatibility.
func (r *Runtime) Cfree(task *hostsim.Task, ptr uintptr) { r.Free(task, ptr) }

// MallocUsableSize returns the usable size of the chunk at ptr. ptr
// must be a live chunk; an invalid pointer aborts.
func (r *Runtime) MallocUsableSize(ptr uintptr) int {
	if !r.state.ValidChunk(ptr) {
		r.abort(fmt.Sprintf("malloc_usable_size: invalid chunk %#x", ptr))
	}
	return r.state.ChunkSize(ptr)
}

func (r *Runtime) abort(detail string) {
	r.hooks.WriteStdOut("Aborting: " + detail)
	panic(detail)
}
