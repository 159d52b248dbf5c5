//go:build !race

package sendable

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// On TSO architectures plain word loads and stores already have the
// ordering the guard CAS relies on.
const isTSO = runtime.GOARCH == "amd64" ||
	runtime.GOARCH == "386" ||
	runtime.GOARCH == "s390x"

//go:nosplit
func loadTable(addr *unsafe.Pointer) *linkedTable {
	if isTSO {
		return (*linkedTable)(*addr)
	}
	return (*linkedTable)(atomic.LoadPointer(addr))
}

// storeTable publishes a rehashed or cleared table; write guard only.
//
//go:nosplit
func storeTable(addr *unsafe.Pointer, t *linkedTable) {
	if isTSO {
		*addr = unsafe.Pointer(t)
		return
	}
	atomic.StorePointer(addr, unsafe.Pointer(t))
}

//go:nosplit
func loadBuffer(addr *unsafe.Pointer) *taggedBuffer {
	if isTSO {
		return (*taggedBuffer)(*addr)
	}
	return (*taggedBuffer)(atomic.LoadPointer(addr))
}

// storeBuffer publishes a grown buffer; write guard only.
//
//go:nosplit
func storeBuffer(addr *unsafe.Pointer, b *taggedBuffer) {
	if isTSO {
		*addr = unsafe.Pointer(b)
		return
	}
	atomic.StorePointer(addr, unsafe.Pointer(b))
}

//go:nosplit
func loadLength(addr *uintptr) uintptr {
	if isTSO {
		return *addr
	}
	return atomic.LoadUintptr(addr)
}

//go:nosplit
func storeLength(addr *uintptr, n uintptr) {
	if isTSO {
		*addr = n
		return
	}
	atomic.StoreUintptr(addr, n)
}
