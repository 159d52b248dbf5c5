package sendable

import "sort"

const minTableCapacity = 8

type tableEntry struct {
	key   Value
	value Value
	live  bool
}

// linkedTable is an insertion-ordered hash table. Deleted slots stay
// in place as holes until the next rehash, so slot positions are
// stable for the lifetime of a table.
//
// A table that has been rehashed or cleared is frozen: it records its
// successor and which of its slots were dropped, letting iterators
// that captured it move their cursor forward to the live table.
type linkedTable struct {
	entries []tableEntry
	index   map[hashKey]int
	live    int
	deleted int

	next    *linkedTable
	removed []int // ascending slots dropped by the rehash into next
	cleared bool
}

func newLinkedTable(sizeHint int) *linkedTable {
	capacity := max(sizeHint, minTableCapacity)
	return &linkedTable{
		entries: make([]tableEntry, 0, capacity),
		index:   make(map[hashKey]int, capacity),
	}
}

func unhashableKeyError(key Value) error {
	return newTypeErrorf("key of type %T is not hashable", key)
}

// NumberOfElements returns the number of live entries.
func (t *linkedTable) NumberOfElements() int {
	return t.live
}

// NumberOfDeletedElements returns the number of holes.
func (t *linkedTable) NumberOfDeletedElements() int {
	return t.deleted
}

// FindElement returns the slot holding key, or -1.
func (t *linkedTable) FindElement(key Value) int {
	hk, ok := keyOf(key)
	if !ok {
		return -1
	}
	if i, ok := t.index[hk]; ok {
		return i
	}
	return -1
}

func (t *linkedTable) Has(key Value) bool {
	return t.FindElement(key) >= 0
}

func (t *linkedTable) Get(key Value) (Value, bool) {
	i := t.FindElement(key)
	if i < 0 {
		return nil, false
	}
	return t.entries[i].value, true
}

func (t *linkedTable) GetKey(slot int) Value {
	return t.entries[slot].key
}

func (t *linkedTable) GetValue(slot int) Value {
	return t.entries[slot].value
}

func (t *linkedTable) isLive(slot int) bool {
	return t.entries[slot].live
}

// Set inserts or updates key. It returns t itself, or the table that
// replaced it when the insertion required a rehash.
func (t *linkedTable) Set(key, value Value) (*linkedTable, error) {
	hk, ok := keyOf(key)
	if !ok {
		return t, unhashableKeyError(key)
	}
	if i, ok := t.index[hk]; ok {
		t.entries[i].value = value
		return t, nil
	}
	nt := t
	if len(t.entries) == cap(t.entries) {
		capacity := cap(t.entries)
		if t.live >= capacity/2 {
			capacity *= 2
		}
		nt = t.rehash(capacity)
	}
	nt.index[hk] = len(nt.entries)
	nt.entries = append(nt.entries, tableEntry{key: key, value: value, live: true})
	nt.live++
	return nt, nil
}

// RemoveEntry turns slot into a hole.
func (t *linkedTable) RemoveEntry(slot int) {
	e := &t.entries[slot]
	if !e.live {
		return
	}
	hk, _ := keyOf(e.key)
	delete(t.index, hk)
	*e = tableEntry{}
	t.live--
	t.deleted++
}

// Clear returns an empty successor and freezes t.
func (t *linkedTable) Clear() *linkedTable {
	nt := newLinkedTable(minTableCapacity)
	t.freeze(nt, nil)
	t.cleared = true
	return nt
}

// rehash moves the live entries of t into a new table with the given
// capacity and freezes t.
func (t *linkedTable) rehash(capacity int) *linkedTable {
	nt := newLinkedTable(max(capacity, t.live))
	var removed []int
	for i, e := range t.entries {
		if !e.live {
			removed = append(removed, i)
			continue
		}
		hk, _ := keyOf(e.key)
		nt.index[hk] = len(nt.entries)
		nt.entries = append(nt.entries, e)
	}
	nt.live = t.live
	t.freeze(nt, removed)
	return nt
}

func (t *linkedTable) freeze(next *linkedTable, removed []int) {
	t.next = next
	t.removed = removed
	t.entries = nil
	t.index = nil
}

// transition follows the successor chain from t and rebases cursor
// onto the live table.
func (t *linkedTable) transition(cursor int) (*linkedTable, int) {
	for t.next != nil {
		if t.cleared {
			cursor = 0
		} else {
			cursor -= sort.SearchInts(t.removed, cursor)
		}
		t = t.next
	}
	return t, cursor
}
