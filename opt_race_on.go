//go:build race

package sendable

import (
	"sync/atomic"
	"unsafe"
)

// The race detector cannot see the ordering plain TSO accesses rely
// on, so every access is atomic here.

//go:nosplit
func loadTable(addr *unsafe.Pointer) *linkedTable {
	return (*linkedTable)(atomic.LoadPointer(addr))
}

//go:nosplit
func storeTable(addr *unsafe.Pointer, t *linkedTable) {
	atomic.StorePointer(addr, unsafe.Pointer(t))
}

//go:nosplit
func loadBuffer(addr *unsafe.Pointer) *taggedBuffer {
	return (*taggedBuffer)(atomic.LoadPointer(addr))
}

//go:nosplit
func storeBuffer(addr *unsafe.Pointer, b *taggedBuffer) {
	atomic.StorePointer(addr, unsafe.Pointer(b))
}

//go:nosplit
func loadLength(addr *uintptr) uintptr {
	return atomic.LoadUintptr(addr)
}

//go:nosplit
func storeLength(addr *uintptr, n uintptr) {
	atomic.StoreUintptr(addr, n)
}
