// Package sendable provides Array, Map, Set and TypedArray collections
// that can be shared between goroutines without locks.
//
// Every collection carries a modification record: a single 32-bit word
// that counts active readers or marks the one active writer. Each
// operation registers itself on the record for its whole duration
// using compare-and-swap only. Registration never waits. A write that
// overlaps any other access, or a read that overlaps a write, fails
// with ErrConcurrentModification and leaves the collection unchanged:
//
//	m, _ := sendable.NewMap(nil)
//	if _, err := m.Set("k", 1); errors.Is(err, sendable.ErrConcurrentModification) {
//		// another goroutine was using m; retry or give up
//	}
//
// Only sendable values can be stored: undefined (nil), Null, booleans,
// numbers, strings, *big.Int and values implementing Sendable, which
// includes the collections themselves. Keys compare with SameValueZero,
// so NaN matches NaN and numbers of different Go types with the same
// value are the same key.
//
// Callbacks passed to ForEach, Map, Filter and friends run while the
// collection is registered for reading. They may read the collection
// but fail with ErrConcurrentModification if they try to modify it.
//
// Invoke, Builtin, Construct and InvokeStatic expose the same operations
// with dynamic, script-style calling conventions, including receiver
// checks that fail with ErrBind.
package sendable
