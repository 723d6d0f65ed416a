package region

import "unsafe"

// loadByte and storeByte access a single byte of mapped memory by raw
// address. Callers must only pass addresses that have already been
// mapped via SysAlloc's allocContiguous calls.
func loadByte(addr uintptr) uint8 {
	return *(*uint8)(unsafe.Pointer(addr))
}

func storeByte(addr uintptr, v uint8) {
	*(*uint8)(unsafe.Pointer(addr)) = v
}
