package sendable

import (
	"fmt"
	"log/slog"
	"slices"
	"unsafe"
)

const (
	minArrayCapacity = 4
	maxArrayLength   = 1<<32 - 1
)

// holeType marks buffer slots beyond the array length.
type holeType struct{}

var hole Value = holeType{}

// taggedBuffer is the element storage of an Array. Slots at or beyond
// the array length hold hole.
type taggedBuffer struct {
	elems []Value
}

func newTaggedBuffer(capacity int) *taggedBuffer {
	b := &taggedBuffer{elems: make([]Value, capacity)}
	for i := range b.elems {
		b.elems[i] = hole
	}
	return b
}

// Callback signatures of Array methods. Callbacks run while the array
// is registered for reading, so a callback that modifies the array it
// was handed fails with ErrConcurrentModification.
type (
	ElementFunc func(value Value, index int, arr *Array) error
	Predicate   func(value Value, index int, arr *Array) (bool, error)
	Mapper      func(value Value, index int, arr *Array) (Value, error)
	Reducer     func(acc, value Value, index int, arr *Array) (Value, error)
	// Comparator returns a negative number when a sorts before b, a
	// positive number when after, and zero when they are equal.
	Comparator func(a, b Value) (int, error)
	// MapFunc maps source elements in ArrayFrom.
	MapFunc func(value Value, index int) (Value, error)
)

// Array is a fixed-shape, dense array of sendable values that may be
// shared between goroutines. Read-only methods register a read access
// for their whole duration; methods that change the array register the
// single write access. Accesses never wait: a conflicting one fails
// with ErrConcurrentModification.
//
// An Array must not be copied after first use.
type Array struct {
	_      noCopy
	rec    modRecord
	buf    unsafe.Pointer // *taggedBuffer
	length uintptr
	logger *slog.Logger
}

func newArray(cfg Config, elems []Value) *Array {
	b := newTaggedBuffer(max(len(elems), cfg.sizeHint, minArrayCapacity))
	copy(b.elems, elems)
	return &Array{buf: unsafe.Pointer(b), length: uintptr(len(elems)), logger: cfg.logger}
}

// NewArray creates an array holding a copy of items.
func NewArray(items []Value, options ...func(*Config)) (*Array, error) {
	if !allSendable(items) {
		return nil, newParamError(msgNotSendable)
	}
	return newArray(newConfig(options), items), nil
}

// ArrayOf creates an array holding its arguments.
func ArrayOf(items ...Value) (*Array, error) {
	return NewArray(items)
}

// ArrayCreate creates an array of the given length with every element
// set to initial.
func ArrayCreate(length int, initial Value, options ...func(*Config)) (*Array, error) {
	if length < 0 {
		return nil, newParamError(msgInvalidLength)
	}
	if int64(length) > maxArrayLength {
		return nil, lengthRangeError(length)
	}
	if !IsSendable(initial) {
		return nil, newParamError(msgNotSendable)
	}
	elems := make([]Value, length)
	for i := range elems {
		elems[i] = initial
	}
	return newArray(newConfig(options), elems), nil
}

// ArrayFrom creates an array from a shared array, a typed array, a
// []Value, a string (one element per rune) or any Iterable. If mapFn
// is not nil, every element is replaced by mapFn(element, index).
func ArrayFrom(items Value, mapFn MapFunc, options ...func(*Config)) (*Array, error) {
	elems, err := collectItems(items)
	if err != nil {
		return nil, err
	}
	for i, v := range elems {
		if mapFn != nil {
			mv, err := mapFn(v, i)
			if err != nil {
				return nil, err
			}
			v = mv
			elems[i] = v
		}
		if !IsSendable(v) {
			return nil, newParamError(msgNotSendable)
		}
	}
	return newArray(newConfig(options), elems), nil
}

// collectItems returns a fresh slice holding the elements of items.
func collectItems(items Value) ([]Value, error) {
	switch x := items.(type) {
	case nil, NullType:
		return nil, newTypeError("The items is null.")
	case *Array:
		if x == nil {
			return nil, newTypeError("The items is null.")
		}
		return x.snapshot()
	case *TypedArray:
		if x == nil {
			return nil, newTypeError("The items is null.")
		}
		return x.snapshot()
	case []Value:
		return slices.Clone(x), nil
	case string:
		var elems []Value
		for _, r := range x {
			elems = append(elems, string(r))
		}
		return elems, nil
	}
	it, err := getIterator(items)
	if err != nil {
		return nil, err
	}
	var elems []Value
	for {
		r, err := it.Next()
		if err != nil {
			return nil, err
		}
		if r.Done {
			return elems, nil
		}
		elems = append(elems, r.Value)
	}
}

// IsArray reports whether v is a shared array.
func IsArray(v Value) bool {
	a, ok := v.(*Array)
	return ok && a != nil
}

func (*Array) isSendable() {}

func (a *Array) String() string {
	s, err := a.ToString()
	if err != nil {
		return "[object SendableArray]"
	}
	return s
}

func (a *Array) guard(mode ModMode) (modGuard, error) {
	return a.rec.acquire(KindArray, mode, a.logger)
}

func (a *Array) buffer() *taggedBuffer {
	return loadBuffer(&a.buf)
}

// view returns the live elements. It must run under a guard.
func (a *Array) view() []Value {
	return a.buffer().elems[:loadLength(&a.length)]
}

// mutableView is view under a write guard, where the length word is
// owned by the caller.
func (a *Array) mutableView() []Value {
	return a.buffer().elems[:a.length]
}

func (a *Array) setLength(n int) {
	storeLength(&a.length, uintptr(n))
}

// ensure grows the buffer to hold at least n elements.
func (a *Array) ensure(n int) *taggedBuffer {
	b := a.buffer()
	if n <= len(b.elems) {
		return b
	}
	nb := newTaggedBuffer(max(n, 2*len(b.elems), minArrayCapacity))
	copy(nb.elems, b.elems[:a.length])
	storeBuffer(&a.buf, nb)
	return nb
}

// truncate shrinks the live region to n, resetting dropped slots.
func (a *Array) truncate(n int) {
	elems := a.mutableView()
	for i := n; i < len(elems); i++ {
		elems[i] = hole
	}
	a.setLength(n)
}

// snapshot copies the elements under a read guard.
func (a *Array) snapshot() (s []Value, err error) {
	g, err := a.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	return slices.Clone(a.view()), nil
}

func lengthRangeError(n int) error {
	return newRangeError(fmt.Sprintf(
		"The value of \"length\" is out of range. It must be >= 0 && <= %d. Received value is: %d",
		int64(maxArrayLength), n))
}

// relativeIndex resolves a possibly negative index against length,
// clamping the result to [0, length].
func relativeIndex(n, length int) int {
	if n < 0 {
		return max(length+n, 0)
	}
	return min(n, length)
}

// relativeRange resolves optional [start, end) bounds.
func relativeRange(bounds []int, length int) (start, end int) {
	start, end = 0, length
	if len(bounds) > 0 {
		start = relativeIndex(bounds[0], length)
	}
	if len(bounds) > 1 {
		end = relativeIndex(bounds[1], length)
	}
	return start, end
}

// Length returns the number of elements.
func (a *Array) Length() (n int, err error) {
	if a == nil {
		return 0, newBindError("length")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return 0, err
	}
	defer g.release(&err)
	return len(a.view()), nil
}

// Get returns the element at index, or nil when index is out of range.
func (a *Array) Get(index int) (v Value, err error) {
	if a == nil {
		return nil, newBindError("get")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.view()
	if index < 0 || index >= len(elems) {
		return nil, nil
	}
	return elems[index], nil
}

// SetAt replaces the element at index, which must be within the
// current length.
func (a *Array) SetAt(index int, v Value) (err error) {
	if a == nil {
		return newBindError("set")
	}
	if !IsSendable(v) {
		return newParamError(msgNotSendable)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return err
	}
	defer g.release(&err)
	elems := a.mutableView()
	if index < 0 || index >= len(elems) {
		return newParamError("Set element's index is exceeds the array length.")
	}
	elems[index] = v
	return nil
}

// At returns the element at a relative index; negative indices count
// from the end.
func (a *Array) At(index int) (v Value, err error) {
	if a == nil {
		return nil, newBindError("at")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.view()
	if index < 0 {
		index += len(elems)
	}
	if index < 0 || index >= len(elems) {
		return nil, nil
	}
	return elems[index], nil
}

// Concat returns a new array with the elements of a followed by items.
// Shared arrays among items are spread.
func (a *Array) Concat(items ...Value) (res *Array, err error) {
	if a == nil {
		return nil, newBindError("concat")
	}
	if !allSendable(items) {
		return nil, newParamError(msgNotSendable)
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := slices.Clone(a.view())
	for _, item := range items {
		if other, ok := item.(*Array); ok && other != nil {
			s, err := other.snapshot()
			if err != nil {
				return nil, err
			}
			elems = append(elems, s...)
			continue
		}
		elems = append(elems, item)
	}
	if int64(len(elems)) > maxArrayLength {
		return nil, lengthRangeError(len(elems))
	}
	return newArray(Config{logger: a.logger}, elems), nil
}

// Entries returns an iterator over [index, value] pairs.
func (a *Array) Entries() (*ArrayIterator, error) {
	if a == nil {
		return nil, newBindError("entries")
	}
	return &ArrayIterator{arr: a, kind: IterKeyAndValue}, nil
}

// Keys returns an iterator over indices.
func (a *Array) Keys() (*ArrayIterator, error) {
	if a == nil {
		return nil, newBindError("keys")
	}
	return &ArrayIterator{arr: a, kind: IterKey}, nil
}

// Values returns an iterator over elements.
func (a *Array) Values() (*ArrayIterator, error) {
	if a == nil {
		return nil, newBindError("values")
	}
	return &ArrayIterator{arr: a, kind: IterValue}, nil
}

// Iterator returns the values iterator.
func (a *Array) Iterator() (Iterator, error) {
	if a == nil {
		return nil, newBindError("Symbol.iterator")
	}
	return a.Values()
}

// scan calls fn for each element under one read guard until fn
// reports stop.
func (a *Array) scan(reverse bool, fn func(v Value, i int) (stop bool, err error)) (err error) {
	g, err := a.guard(ModRead)
	if err != nil {
		return err
	}
	defer g.release(&err)
	elems := a.view()
	for k := range elems {
		i := k
		if reverse {
			i = len(elems) - 1 - k
		}
		stop, err := fn(elems[i], i)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// Every reports whether fn holds for every element.
func (a *Array) Every(fn Predicate) (bool, error) {
	if a == nil {
		return false, newBindError("every")
	}
	if fn == nil {
		return false, notCallable("callbackfun")
	}
	all := true
	err := a.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, a)
		all = ok
		return !ok, err
	})
	return all && err == nil, err
}

// Some reports whether fn holds for any element.
func (a *Array) Some(fn Predicate) (bool, error) {
	if a == nil {
		return false, newBindError("some")
	}
	if fn == nil {
		return false, notCallable("callbackfun")
	}
	found := false
	err := a.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, a)
		found = ok
		return ok, err
	})
	return found && err == nil, err
}

// Filter returns a new array of the elements fn holds for.
func (a *Array) Filter(fn Predicate) (*Array, error) {
	if a == nil {
		return nil, newBindError("filter")
	}
	if fn == nil {
		return nil, notCallable("callbackfun")
	}
	var kept []Value
	err := a.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, a)
		if ok {
			kept = append(kept, v)
		}
		return false, err
	})
	if err != nil {
		return nil, err
	}
	return newArray(Config{logger: a.logger}, kept), nil
}

func (a *Array) find(method string, reverse bool, fn Predicate) (Value, int, error) {
	if a == nil {
		return nil, -1, newBindError(method)
	}
	if fn == nil {
		return nil, -1, notCallable("predicate")
	}
	var found Value
	index := -1
	err := a.scan(reverse, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, a)
		if ok && err == nil {
			found, index = v, i
		}
		return ok, err
	})
	if err != nil {
		return nil, -1, err
	}
	return found, index, nil
}

// Find returns the first element fn holds for, or nil.
func (a *Array) Find(fn Predicate) (Value, error) {
	v, _, err := a.find("find", false, fn)
	return v, err
}

// FindIndex returns the index of the first element fn holds for, or -1.
func (a *Array) FindIndex(fn Predicate) (int, error) {
	_, i, err := a.find("findIndex", false, fn)
	return i, err
}

// FindLast returns the last element fn holds for, or nil.
func (a *Array) FindLast(fn Predicate) (Value, error) {
	v, _, err := a.find("findLast", true, fn)
	return v, err
}

// FindLastIndex returns the index of the last element fn holds for,
// or -1.
func (a *Array) FindLastIndex(fn Predicate) (int, error) {
	_, i, err := a.find("findLastIndex", true, fn)
	return i, err
}

// ForEach calls fn for every element.
func (a *Array) ForEach(fn ElementFunc) error {
	if a == nil {
		return newBindError("forEach")
	}
	if fn == nil {
		return notCallable("callbackfun")
	}
	return a.scan(false, func(v Value, i int) (bool, error) {
		return false, fn(v, i, a)
	})
}

// Includes reports whether v is an element under SameValueZero,
// searching from the optional relative fromIndex.
func (a *Array) Includes(v Value, fromIndex ...int) (ok bool, err error) {
	if a == nil {
		return false, newBindError("includes")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return false, err
	}
	defer g.release(&err)
	elems := a.view()
	start, _ := relativeRange(fromIndex, len(elems))
	for _, e := range elems[start:] {
		if sameValueZero(e, v) {
			return true, nil
		}
	}
	return false, nil
}

// IndexOf returns the first index of v under strict equality, or -1.
func (a *Array) IndexOf(v Value, fromIndex ...int) (index int, err error) {
	if a == nil {
		return -1, newBindError("indexOf")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return -1, err
	}
	defer g.release(&err)
	elems := a.view()
	start, _ := relativeRange(fromIndex, len(elems))
	for i := start; i < len(elems); i++ {
		if strictEquals(elems[i], v) {
			return i, nil
		}
	}
	return -1, nil
}

// LastIndexOf returns the last index of v under strict equality at or
// before the optional relative fromIndex, or -1.
func (a *Array) LastIndexOf(v Value, fromIndex ...int) (index int, err error) {
	if a == nil {
		return -1, newBindError("lastIndexOf")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return -1, err
	}
	defer g.release(&err)
	elems := a.view()
	from := len(elems) - 1
	if len(fromIndex) > 0 {
		if n := fromIndex[0]; n >= 0 {
			from = min(n, len(elems)-1)
		} else {
			from = len(elems) + n
		}
	}
	for i := from; i >= 0; i-- {
		if strictEquals(elems[i], v) {
			return i, nil
		}
	}
	return -1, nil
}

// Map returns a new array of fn applied to every element. Results must
// be sendable.
func (a *Array) Map(fn Mapper) (*Array, error) {
	if a == nil {
		return nil, newBindError("map")
	}
	if fn == nil {
		return nil, notCallable("callbackfun")
	}
	var mapped []Value
	err := a.scan(false, func(v Value, i int) (bool, error) {
		mv, err := fn(v, i, a)
		if err != nil {
			return true, err
		}
		if !IsSendable(mv) {
			return true, newParamError(msgNotSendable)
		}
		mapped = append(mapped, mv)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return newArray(Config{logger: a.logger}, mapped), nil
}

func (a *Array) reduce(method string, reverse bool, fn Reducer, initial []Value) (Value, error) {
	if a == nil {
		return nil, newBindError(method)
	}
	if fn == nil {
		return nil, notCallable("callbackfun")
	}
	var acc Value
	seeded := len(initial) > 0
	if seeded {
		acc = initial[0]
	}
	err := a.scan(reverse, func(v Value, i int) (bool, error) {
		if !seeded {
			acc, seeded = v, true
			return false, nil
		}
		next, err := fn(acc, v, i, a)
		acc = next
		return false, err
	})
	if err != nil {
		return nil, err
	}
	if !seeded {
		return nil, newTypeError("out of range.")
	}
	return acc, nil
}

// Reduce folds the elements from left to right. Without an initial
// value the first element seeds the accumulator and an empty array is
// an error.
func (a *Array) Reduce(fn Reducer, initial ...Value) (Value, error) {
	return a.reduce("reduce", false, fn, initial)
}

// ReduceRight is Reduce from right to left.
func (a *Array) ReduceRight(fn Reducer, initial ...Value) (Value, error) {
	return a.reduce("reduceRight", true, fn, initial)
}

// Slice returns a new array of the elements in the optional relative
// [start, end) bounds.
func (a *Array) Slice(bounds ...int) (res *Array, err error) {
	if a == nil {
		return nil, newBindError("slice")
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.view()
	start, end := relativeRange(bounds, len(elems))
	if start >= end {
		return newArray(Config{logger: a.logger}, nil), nil
	}
	return newArray(Config{logger: a.logger}, elems[start:end]), nil
}

// Pop removes and returns the last element, or nil if a is empty.
func (a *Array) Pop() (v Value, err error) {
	if a == nil {
		return nil, newBindError("pop")
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.mutableView()
	if len(elems) == 0 {
		return nil, nil
	}
	v = elems[len(elems)-1]
	a.truncate(len(elems) - 1)
	return v, nil
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...Value) (n int, err error) {
	if a == nil {
		return 0, newBindError("push")
	}
	if !allSendable(items) {
		return 0, newParamError(msgNotSendable)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return 0, err
	}
	defer g.release(&err)
	length := int(a.length)
	n = length + len(items)
	if int64(n) > maxArrayLength {
		return 0, lengthRangeError(n)
	}
	b := a.ensure(n)
	copy(b.elems[length:n], items)
	a.setLength(n)
	return n, nil
}

// Shift removes and returns the first element, or nil if a is empty.
func (a *Array) Shift() (v Value, err error) {
	if a == nil {
		return nil, newBindError("shift")
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.mutableView()
	if len(elems) == 0 {
		return nil, nil
	}
	v = elems[0]
	copy(elems, elems[1:])
	a.truncate(len(elems) - 1)
	return v, nil
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(items ...Value) (n int, err error) {
	if a == nil {
		return 0, newBindError("unshift")
	}
	if !allSendable(items) {
		return 0, newParamError(msgNotSendable)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return 0, err
	}
	defer g.release(&err)
	length := int(a.length)
	n = length + len(items)
	if int64(n) > maxArrayLength {
		return 0, lengthRangeError(n)
	}
	b := a.ensure(n)
	copy(b.elems[len(items):n], b.elems[:length])
	copy(b.elems, items)
	a.setLength(n)
	return n, nil
}

// Splice removes deleteCount elements at the relative index start,
// inserts items in their place and returns the removed elements.
// deleteCount is clamped to the elements available after start; pass
// math.MaxInt to remove everything from start.
func (a *Array) Splice(start, deleteCount int, items ...Value) (removed *Array, err error) {
	if a == nil {
		return nil, newBindError("splice")
	}
	if !allSendable(items) {
		return nil, newParamError(msgNotSendable)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	length := int(a.length)
	start = relativeIndex(start, length)
	deleteCount = min(max(deleteCount, 0), length-start)
	n := length - deleteCount + len(items)
	if int64(n) > maxArrayLength {
		return nil, lengthRangeError(n)
	}
	removed = newArray(Config{logger: a.logger}, a.mutableView()[start:start+deleteCount])

	tail := start + deleteCount
	if len(items) > deleteCount {
		b := a.ensure(n)
		copy(b.elems[start+len(items):n], b.elems[tail:length])
		copy(b.elems[start:], items)
		a.setLength(n)
		return removed, nil
	}
	elems := a.mutableView()
	copy(elems[start+len(items):], elems[tail:length])
	copy(elems[start:], items)
	a.truncate(n)
	return removed, nil
}

// Fill sets the elements in the optional relative [start, end) bounds
// to v and returns a.
func (a *Array) Fill(v Value, bounds ...int) (_ *Array, err error) {
	if a == nil {
		return nil, newBindError("fill")
	}
	if !IsSendable(v) {
		return nil, newParamError(msgNotSendable)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.mutableView()
	start, end := relativeRange(bounds, len(elems))
	for i := start; i < end; i++ {
		elems[i] = v
	}
	return a, nil
}

// Sort sorts a stably in place and returns it. A nil cmp orders
// elements by their string form with undefined last. If cmp fails the
// array is left unchanged.
func (a *Array) Sort(cmp Comparator) (_ *Array, err error) {
	if a == nil {
		return nil, newBindError("sort")
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.mutableView()
	sorted := slices.Clone(elems)
	var cmpErr error
	slices.SortStableFunc(sorted, func(x, y Value) int {
		if cmpErr != nil {
			return 0
		}
		switch {
		case x == nil && y == nil:
			return 0
		case x == nil:
			return 1
		case y == nil:
			return -1
		}
		if cmp == nil {
			return compareStrings(toString(x), toString(y))
		}
		r, err := cmp(x, y)
		if err != nil {
			cmpErr = err
			return 0
		}
		return r
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	copy(elems, sorted)
	return a, nil
}

// compareStrings orders by UTF-16 code units.
func compareStrings(x, y string) int {
	return slices.Compare(utf16Units(x), utf16Units(y))
}

func utf16Units(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}

// Reverse reverses a in place and returns it.
func (a *Array) Reverse() (_ *Array, err error) {
	if a == nil {
		return nil, newBindError("reverse")
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	slices.Reverse(a.mutableView())
	return a, nil
}

// CopyWithin copies the elements in the optional relative
// [start, end) bounds to the relative index target and returns a.
// Overlapping ranges are copied as if through a temporary buffer.
func (a *Array) CopyWithin(target int, bounds ...int) (_ *Array, err error) {
	if a == nil {
		return nil, newBindError("copyWithin")
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	elems := a.mutableView()
	to := relativeIndex(target, len(elems))
	from, end := relativeRange(bounds, len(elems))
	count := min(end-from, len(elems)-to)
	if count > 0 {
		copy(elems[to:to+count], elems[from:from+count])
	}
	return a, nil
}

// ShrinkTo truncates a to n elements. It does nothing if n is not
// less than the current length.
func (a *Array) ShrinkTo(n int) (err error) {
	if a == nil {
		return newBindError("shrinkTo")
	}
	if n < 0 {
		return newParamError(msgInvalidLength)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return err
	}
	defer g.release(&err)
	if n >= int(a.length) {
		return nil
	}
	a.truncate(n)
	return nil
}

// ExtendTo grows a to n elements, setting the new ones to initial. It
// does nothing if n is not greater than the current length.
func (a *Array) ExtendTo(n int, initial Value) (err error) {
	if a == nil {
		return newBindError("extendTo")
	}
	if n < 0 {
		return newParamError(msgInvalidLength)
	}
	if int64(n) > maxArrayLength {
		return lengthRangeError(n)
	}
	if !IsSendable(initial) {
		return newParamError(msgNotSendable)
	}
	g, err := a.guard(ModWrite)
	if err != nil {
		return err
	}
	defer g.release(&err)
	length := int(a.length)
	if n <= length {
		return nil
	}
	b := a.ensure(n)
	for i := length; i < n; i++ {
		b.elems[i] = initial
	}
	a.setLength(n)
	return nil
}
