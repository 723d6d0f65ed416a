//go:build !linux

package region

import "syscall"

// platformMapper on non-Linux platforms falls back to the portable
// syscall.Mmap wrapper, which cannot request an exact fixed address on
// every OS it supports. It is kept only so this package builds and its
// unit tests run on darwin/CI; production deployments of this allocator
// target linux, where mapper_linux.go gives the real MAP_FIXED behavior
// the fixed-base-address design requires.
type platformMapper struct{}

func (platformMapper) mapFixed(addr, length uintptr) error {
	_, err := syscall.Mmap(-1, int64(addr), int(length),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANON)
	return err
}
