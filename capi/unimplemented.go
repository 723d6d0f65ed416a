package capi

import "fmt"

// The functions below exist because some programs reference them, but
// nothing in this adapter's workload ever needs them implemented. Each
// writes a diagnostic through the same hook the original used
// (abort_unimplemented) and aborts.

func (r *Runtime) abortUnimplemented(fn string) {
	r.hooks.WriteStdOut(fmt.Sprintf("Aborting: sim-alloc function unimplemented: %s", fn))
	panic("capi: unimplemented: " + fn)
}

func (r *Runtime) Valloc(int) uintptr           { r.abortUnimplemented("valloc"); return 0 }
func (r *Runtime) Pvalloc(int) uintptr          { r.abortUnimplemented("pvalloc"); return 0 }
func (r *Runtime) MallocGetState() uintptr      { r.abortUnimplemented("malloc_get_state"); return 0 }
func (r *Runtime) MallocSetState(uintptr) error { r.abortUnimplemented("malloc_set_state"); return nil }
func (r *Runtime) MallocInfo() error            { r.abortUnimplemented("malloc_info"); return nil }
func (r *Runtime) MallocStats()                 { r.abortUnimplemented("malloc_stats") }
func (r *Runtime) MallocTrim(int) bool          { r.abortUnimplemented("malloc_trim"); return false }
