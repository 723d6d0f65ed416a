package largeheap

import "errors"

// ErrInvalidFree indicates an attempt to free an address the large heap
// never allocated. Per the allocator's error-handling policy this is a
// fatal condition; callers that want to terminate the process on it
// should do so themselves, since this package has no access to the
// host's diagnostic-output hook.
var ErrInvalidFree = errors.New("largeheap: invalid free")
