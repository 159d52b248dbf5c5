package sendable

import (
	"log/slog"
	"unsafe"
)

// hashed is the state shared by Map and Set: a modification record
// and the linkedTable it guards.
type hashed struct {
	_      noCopy
	rec    modRecord
	table  unsafe.Pointer // *linkedTable
	logger *slog.Logger
	kind   ContainerKind
}

func (h *hashed) init(kind ContainerKind, cfg Config) {
	h.kind = kind
	h.logger = cfg.logger
	h.table = unsafe.Pointer(newLinkedTable(cfg.sizeHint))
}

func (h *hashed) load() *linkedTable {
	return loadTable(&h.table)
}

func (h *hashed) store(t *linkedTable) {
	storeTable(&h.table, t)
}

func (h *hashed) guard(mode ModMode) (modGuard, error) {
	return h.rec.acquire(h.kind, mode, h.logger)
}

// put runs under a write (or skip) guard.
func (h *hashed) put(key, value Value) error {
	t := h.load()
	nt, err := t.Set(key, value)
	if err != nil {
		return err
	}
	if nt != t {
		h.store(nt)
	}
	return nil
}

func (h *hashed) remove(key Value) bool {
	t := h.load()
	slot := t.FindElement(key)
	if slot < 0 {
		return false
	}
	t.RemoveEntry(slot)
	return true
}

func (h *hashed) clear() {
	h.store(h.load().Clear())
}

func (h *hashed) get(key Value) (v Value, err error) {
	g, err := h.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	v, _ = h.load().Get(key)
	return v, nil
}

func (h *hashed) has(key Value) (ok bool, err error) {
	g, err := h.guard(ModRead)
	if err != nil {
		return false, err
	}
	defer g.release(&err)
	return h.load().Has(key), nil
}

func (h *hashed) delete(key Value) (ok bool, err error) {
	g, err := h.guard(ModWrite)
	if err != nil {
		return false, err
	}
	defer g.release(&err)
	return h.remove(key), nil
}

func (h *hashed) reset() (err error) {
	g, err := h.guard(ModWrite)
	if err != nil {
		return err
	}
	defer g.release(&err)
	h.clear()
	return nil
}

func (h *hashed) size() (n int, err error) {
	g, err := h.guard(ModRead)
	if err != nil {
		return 0, err
	}
	defer g.release(&err)
	return h.load().NumberOfElements(), nil
}

// each calls fn for every live entry under one read guard.
func (h *hashed) each(fn func(key, value Value) error) (err error) {
	g, err := h.guard(ModRead)
	if err != nil {
		return err
	}
	defer g.release(&err)
	t := h.load()
	for i := 0; i < t.NumberOfElements()+t.NumberOfDeletedElements(); i++ {
		if !t.isLive(i) {
			continue
		}
		if err := fn(t.GetKey(i), t.GetValue(i)); err != nil {
			return err
		}
	}
	return nil
}

func (h *hashed) iter(kind IterKind) hashedIterator {
	return hashedIterator{owner: h, kind: kind}
}

// Map is an insertion-ordered key/value collection that may be shared
// between goroutines. Every operation registers a read or write access
// on the map's modification record; an access that overlaps a
// conflicting one fails with ErrConcurrentModification instead of
// waiting.
//
// Keys are compared with SameValueZero. Keys and values must be
// sendable.
//
// A Map must not be copied after first use.
type Map struct {
	hashed
}

// NewMap creates a map filled from iterable, whose elements must be
// [key, value] array-likes. A nil or Null iterable yields an empty map.
func NewMap(iterable Value, options ...func(*Config)) (_ *Map, err error) {
	m := &Map{}
	m.init(KindMap, newConfig(options))
	if iterable == nil || iterable == Null {
		return m, nil
	}
	it, err := getIterator(iterable)
	if err != nil {
		return nil, err
	}
	g, err := m.guard(ModSkip)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	err = fillFrom(it, func(v Value) error {
		pair, ok, err := arrayLike(v)
		if err != nil {
			return err
		}
		if !ok {
			return newTypeError("Iterator value " + typeName(v) + " is not an entry object")
		}
		key, value := elementAt(pair, 0), elementAt(pair, 1)
		if !IsSendable(key) || !IsSendable(value) {
			return newParamError(msgNotSendable)
		}
		return m.put(key, value)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// fillFrom passes every value of it to add. The source is closed when
// add rejects a value.
func fillFrom(it Iterator, add func(v Value) error) error {
	for {
		r, err := it.Next()
		if err != nil {
			return err
		}
		if r.Done {
			return nil
		}
		if err := add(r.Value); err != nil {
			closeIterator(it)
			return err
		}
	}
}

func (*Map) isSendable() {}

func (m *Map) String() string { return "[object SendableMap]" }

// Set associates value with key and returns m.
func (m *Map) Set(key, value Value) (_ *Map, err error) {
	if m == nil {
		return nil, newBindError("set")
	}
	if !IsSendable(key) || !IsSendable(value) {
		return nil, newParamError(msgNotSendable)
	}
	if _, ok := keyOf(key); !ok {
		return nil, unhashableKeyError(key)
	}
	g, err := m.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	if err := m.put(key, value); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the value stored for key, or nil.
func (m *Map) Get(key Value) (Value, error) {
	if m == nil {
		return nil, newBindError("get")
	}
	return m.get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key Value) (bool, error) {
	if m == nil {
		return false, newBindError("has")
	}
	return m.has(key)
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key Value) (bool, error) {
	if m == nil {
		return false, newBindError("delete")
	}
	return m.delete(key)
}

// Clear removes all entries.
func (m *Map) Clear() error {
	if m == nil {
		return newBindError("clear")
	}
	return m.reset()
}

// Size returns the number of entries.
func (m *Map) Size() (int, error) {
	if m == nil {
		return 0, newBindError("size")
	}
	return m.size()
}

// ForEach calls fn for every entry in insertion order. The whole
// traversal holds one read access, so fn must not modify m. The first
// error returned by fn stops the traversal and is returned.
func (m *Map) ForEach(fn func(value, key Value, m *Map) error) error {
	if m == nil {
		return newBindError("forEach")
	}
	if fn == nil {
		return notCallable("callbackfn")
	}
	return m.each(func(key, value Value) error {
		return fn(value, key, m)
	})
}

// Entries returns an iterator over [key, value] pairs.
func (m *Map) Entries() (*MapIterator, error) {
	if m == nil {
		return nil, newBindError("entries")
	}
	return &MapIterator{m.iter(IterKeyAndValue)}, nil
}

// Keys returns an iterator over keys.
func (m *Map) Keys() (*MapIterator, error) {
	if m == nil {
		return nil, newBindError("keys")
	}
	return &MapIterator{m.iter(IterKey)}, nil
}

// Values returns an iterator over values.
func (m *Map) Values() (*MapIterator, error) {
	if m == nil {
		return nil, newBindError("values")
	}
	return &MapIterator{m.iter(IterValue)}, nil
}

// Iterator returns the entries iterator.
func (m *Map) Iterator() (Iterator, error) {
	if m == nil {
		return nil, newBindError("Symbol.iterator")
	}
	return m.Entries()
}

// noCopy may be embedded into structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
//nolint:unused
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
