package sendable

// IterResult is one step of an iteration.
type IterResult struct {
	Value Value
	Done  bool
}

// Iterator produces a sequence of values. Once Next reports Done,
// every later call reports Done too.
type Iterator interface {
	Next() (IterResult, error)
}

// Iterable is implemented by values that can produce an Iterator.
type Iterable interface {
	Iterator() (Iterator, error)
}

// IterKind selects the payload an iterator yields.
type IterKind uint8

const (
	IterKey IterKind = iota
	IterValue
	IterKeyAndValue
)

var doneResult = IterResult{Done: true}

// hashedIterator walks the linkedTable of a Map or Set. Each step runs
// under a read guard of the owner; if the owner swapped its table
// since the previous step the cursor is carried over to the new one.
type hashedIterator struct {
	owner  *hashed // nil once exhausted
	table  *linkedTable
	cursor int
	kind   IterKind
}

func (it *hashedIterator) next() (res IterResult, err error) {
	h := it.owner
	if h == nil {
		return doneResult, nil
	}
	g, err := h.rec.acquire(h.kind, ModRead, h.logger)
	if err != nil {
		return IterResult{}, err
	}
	defer g.release(&err)

	t, cursor := it.table, it.cursor
	if t == nil {
		t = h.load()
	} else {
		t, cursor = t.transition(cursor)
	}
	total := t.NumberOfElements() + t.NumberOfDeletedElements()
	for cursor < total && !t.isLive(cursor) {
		cursor++
	}
	if cursor >= total {
		it.owner, it.table = nil, nil
		return doneResult, nil
	}
	it.table, it.cursor = t, cursor+1

	key := t.GetKey(cursor)
	value := key
	if h.kind == KindMap {
		value = t.GetValue(cursor)
	}
	switch it.kind {
	case IterKey:
		return IterResult{Value: key}, nil
	case IterValue:
		return IterResult{Value: value}, nil
	}
	return IterResult{Value: []Value{key, value}}, nil
}

// MapIterator iterates a Map in insertion order.
type MapIterator struct {
	hashedIterator
}

// Next advances the iterator. Key-and-value steps yield a []Value
// pair.
func (it *MapIterator) Next() (IterResult, error) {
	return it.next()
}

// Iterator returns it itself.
func (it *MapIterator) Iterator() (Iterator, error) {
	return it, nil
}

// SetIterator iterates a Set in insertion order.
type SetIterator struct {
	hashedIterator
}

// Next advances the iterator. Key-and-value steps yield the pair
// []Value{v, v}.
func (it *SetIterator) Next() (IterResult, error) {
	return it.next()
}

// Iterator returns it itself.
func (it *SetIterator) Iterator() (Iterator, error) {
	return it, nil
}

// ArrayIterator iterates an Array by index.
type ArrayIterator struct {
	arr    *Array // nil once exhausted
	cursor int
	kind   IterKind
}

// Next advances the iterator. Keys are int indices; key-and-value
// steps yield []Value{index, value}.
func (it *ArrayIterator) Next() (res IterResult, err error) {
	a := it.arr
	if a == nil {
		return doneResult, nil
	}
	g, err := a.rec.acquire(KindArray, ModRead, a.logger)
	if err != nil {
		return IterResult{}, err
	}
	defer g.release(&err)

	elems := a.view()
	i := it.cursor
	if i >= len(elems) {
		it.arr = nil
		return doneResult, nil
	}
	it.cursor++
	switch it.kind {
	case IterKey:
		return IterResult{Value: i}, nil
	case IterValue:
		return IterResult{Value: elems[i]}, nil
	}
	return IterResult{Value: []Value{i, elems[i]}}, nil
}

// Iterator returns it itself.
func (it *ArrayIterator) Iterator() (Iterator, error) {
	return it, nil
}

// TypedArrayIterator iterates a TypedArray by index.
type TypedArrayIterator struct {
	arr    *TypedArray // nil once exhausted
	cursor int
	kind   IterKind
}

// Next advances the iterator. Keys are int indices; key-and-value
// steps yield []Value{index, value}.
func (it *TypedArrayIterator) Next() (res IterResult, err error) {
	ta := it.arr
	if ta == nil {
		return doneResult, nil
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return IterResult{}, err
	}
	defer g.release(&err)

	i := it.cursor
	if i >= ta.length() {
		it.arr = nil
		return doneResult, nil
	}
	it.cursor++
	switch it.kind {
	case IterKey:
		return IterResult{Value: i}, nil
	case IterValue:
		return IterResult{Value: ta.at(i)}, nil
	}
	return IterResult{Value: []Value{i, ta.at(i)}}, nil
}

// Iterator returns it itself.
func (it *TypedArrayIterator) Iterator() (Iterator, error) {
	return it, nil
}

// sliceIterator iterates a plain []Value.
type sliceIterator struct {
	items []Value
	i     int
	done  bool
}

func (it *sliceIterator) Next() (IterResult, error) {
	if it.done || it.i >= len(it.items) {
		it.done = true
		return doneResult, nil
	}
	v := it.items[it.i]
	it.i++
	return IterResult{Value: v}, nil
}

// getIterator returns an iterator over v.
func getIterator(v Value) (Iterator, error) {
	switch x := v.(type) {
	case Iterable:
		return x.Iterator()
	case []Value:
		return &sliceIterator{items: x}, nil
	}
	return nil, newTypeErrorf("%s is not iterable", typeName(v))
}

// closeIterator closes it after an abrupt completion. Errors from
// closing are dropped in favor of the error that caused the close.
func closeIterator(it Iterator) {
	if c, ok := it.(interface{ Return() error }); ok {
		_ = c.Return()
	}
}

// arrayLike returns the elements of v if v is array-like. Shared
// arrays are snapshotted under a read guard.
func arrayLike(v Value) ([]Value, bool, error) {
	switch x := v.(type) {
	case []Value:
		return x, true, nil
	case *Array:
		if x == nil {
			return nil, false, nil
		}
		s, err := x.snapshot()
		return s, err == nil, err
	case *TypedArray:
		if x == nil {
			return nil, false, nil
		}
		s, err := x.snapshot()
		return s, err == nil, err
	}
	return nil, false, nil
}

func elementAt(items []Value, i int) Value {
	if i < len(items) {
		return items[i]
	}
	return nil
}

func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case NullType:
		return "null"
	}
	return toString(v)
}
