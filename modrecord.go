package sendable

import (
	"context"
	"log/slog"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used in structure padding to prevent false sharing.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// ModMode selects the kind of access a guard registers.
type ModMode uint8

const (
	// ModRead registers one of possibly many concurrent readers.
	ModRead ModMode = iota
	// ModWrite registers the single writer.
	ModWrite
	// ModSkip registers nothing. It is used where the caller already
	// owns the collection exclusively, e.g. during construction.
	ModSkip
)

func (m ModMode) String() string {
	switch m {
	case ModRead:
		return "read"
	case ModWrite:
		return "write"
	case ModSkip:
		return "skip"
	}
	return "unknown"
}

// ContainerKind names the collection a guard protects.
type ContainerKind uint8

const (
	KindArray ContainerKind = iota
	KindMap
	KindSet
	KindTypedArray
)

func (k ContainerKind) String() string {
	switch k {
	case KindArray:
		return "SendableArray"
	case KindMap:
		return "SendableMap"
	case KindSet:
		return "SendableSet"
	case KindTypedArray:
		return "SendableTypedArray"
	}
	return "unknown"
}

const (
	modIdle     uint32 = 0
	modWriteBit uint32 = 0x80000000
	modReadMax  uint32 = modWriteBit - 1
)

// modRecord is the modification record of a shared collection. The
// word is 0 when idle, the number of active readers when in
// [1, modReadMax], and modWriteBit while a writer holds it. It only
// ever changes by compare-and-swap and never blocks.
type modRecord struct {
	state atomic.Uint32
	//lint:ignore U1000 prevents false sharing
	pad [CacheLineSize - 4]byte
}

// load returns the raw record word.
func (r *modRecord) load() uint32 {
	return r.state.Load()
}

func (r *modRecord) acquireWrite() bool {
	return r.state.CompareAndSwap(modIdle, modWriteBit)
}

func (r *modRecord) releaseWrite() bool {
	return r.state.CompareAndSwap(modWriteBit, modIdle)
}

// acquireRead registers a reader. On success it returns the value
// the record held before the increment.
func (r *modRecord) acquireRead() (uint32, bool) {
	for {
		v := r.state.Load()
		if v&modWriteBit != 0 || v == modReadMax {
			return v, false
		}
		if r.state.CompareAndSwap(v, v+1) {
			return v, true
		}
	}
}

// releaseRead unregisters a reader that saw acquired on entry. Other
// readers may have come and gone meanwhile, so on a failed CAS the
// expectation is rebased on the observed count. A writer bit or a zero
// count means the record was corrupted under us.
func (r *modRecord) releaseRead(acquired uint32) (uint32, bool) {
	expected, desired := acquired+1, acquired
	for {
		if r.state.CompareAndSwap(expected, desired) {
			return desired, true
		}
		v := r.state.Load()
		if v&modWriteBit != 0 || v == modIdle {
			return v, false
		}
		expected, desired = v, v-1
	}
}

// modGuard is one registered access on a modRecord. The zero value is
// a no-op guard.
type modGuard struct {
	rec      *modRecord
	logger   *slog.Logger
	kind     ContainerKind
	mode     ModMode
	acquired uint32
}

// acquire registers an access of the given mode. Callers release it
// with a deferred release bound to their named error result:
//
//	g, err := rec.acquire(KindMap, ModRead, logger)
//	if err != nil {
//		return
//	}
//	defer g.release(&err)
func (r *modRecord) acquire(kind ContainerKind, mode ModMode, logger *slog.Logger) (modGuard, error) {
	g := modGuard{rec: r, logger: logger, kind: kind, mode: mode}
	switch mode {
	case ModWrite:
		if !r.acquireWrite() {
			return modGuard{}, g.conflict("acquire", r.load())
		}
	case ModRead:
		v, ok := r.acquireRead()
		if !ok {
			return modGuard{}, g.conflict("acquire", v)
		}
		g.acquired = v
	default:
		g.rec = nil
	}
	return g, nil
}

// release unregisters the access. A failed release is stored in *errp
// only when the guarded operation itself succeeded.
func (g *modGuard) release(errp *error) {
	if g.rec == nil {
		return
	}
	rec := g.rec
	g.rec = nil
	var err error
	switch g.mode {
	case ModWrite:
		if !rec.releaseWrite() {
			err = g.conflict("release", rec.load())
		}
	case ModRead:
		if v, ok := rec.releaseRead(g.acquired); !ok {
			err = g.conflict("release", v)
		}
	}
	if err != nil && errp != nil && *errp == nil {
		*errp = err
	}
}

func (g *modGuard) conflict(op string, observed uint32) error {
	if g.logger != nil {
		g.logger.LogAttrs(context.Background(), slog.LevelDebug, "concurrent modification",
			slog.String("op", op),
			slog.String("container", g.kind.String()),
			slog.String("mode", g.mode.String()),
			slog.Uint64("record", uint64(observed)),
		)
	}
	return newConcurrentModificationError()
}
