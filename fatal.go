package talloc

import (
	"fmt"
	"os"
)

// fatal prints a one-line diagnostic and terminates the process. The
// allocator's error-handling design treats invalid-free,
// oversubscription, and internal-invariant violations as unrecoverable:
// none of do_alloc/do_dealloc/chunk_size/valid_chunk has a failure
// return.
func fatal(cause error, detail string) {
	fmt.Fprintf(os.Stderr, "talloc: fatal: %v: %s\n", cause, detail)
	panic(cause)
}
