//go:build linux

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// platformMapper maps zero-filled anonymous memory at an exact fixed
// address using a raw mmap syscall, since golang.org/x/sys/unix.Mmap
// does not expose the address argument needed for MAP_FIXED placement.
type platformMapper struct{}

func (platformMapper) mapFixed(addr, length uintptr) error {
	ptr, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		length,
		uintptr(unix.PROT_READ|unix.PROT_WRITE),
		uintptr(unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_FIXED),
		^uintptr(0), // fd -1
		0,
	)
	if errno != 0 {
		return fmt.Errorf("region: mmap at %#x len %d: %w", addr, length, errno)
	}
	if ptr != addr {
		return fmt.Errorf("region: mmap at %#x returned unexpected address %#x", addr, ptr)
	}
	return nil
}
