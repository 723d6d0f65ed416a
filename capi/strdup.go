package capi

import "github.com/tcache/talloc/hostsim"

// Strdup allocates a copy of the NUL-terminated byte string at src,
// including its terminator, and registers it with task like Malloc.
// A nil src returns 0.
//
// The original allocates exactly strlen(src) bytes and never writes a
// terminator, corrupting every caller that treats the result as a
// C string. This allocates len+1 and writes the terminator.
func (r *Runtime) Strdup(task *hostsim.Task, src uintptr) uintptr {
	if src == 0 {
		return 0
	}
	n := cStrLen(src)
	dst := r.Malloc(task, n+1)
	copyBytes(dst, src, n)
	storeByte(dst+uintptr(n), 0)
	return dst
}
