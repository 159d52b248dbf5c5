package sendable

// Set is an insertion-ordered collection of unique sendable values that
// may be shared between goroutines. It follows the same access rules
// as Map.
//
// A Set must not be copied after first use.
type Set struct {
	hashed
}

// NewSet creates a set filled from iterable. Elements that are
// array-likes contribute their second element, others are added as
// they are. A nil or Null iterable yields an empty set.
func NewSet(iterable Value, options ...func(*Config)) (_ *Set, err error) {
	s := &Set{}
	s.init(KindSet, newConfig(options))
	if iterable == nil || iterable == Null {
		return s, nil
	}
	it, err := getIterator(iterable)
	if err != nil {
		return nil, err
	}
	g, err := s.guard(ModSkip)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	err = fillFrom(it, func(v Value) error {
		items, ok, err := arrayLike(v)
		if err != nil {
			return err
		}
		if ok {
			v = elementAt(items, 1)
		}
		if !IsSendable(v) {
			return newParamError(msgNotSendable)
		}
		return s.put(v, nil)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (*Set) isSendable() {}

func (s *Set) String() string { return "[object SendableSet]" }

// Add inserts value and returns s.
func (s *Set) Add(value Value) (_ *Set, err error) {
	if s == nil {
		return nil, newBindError("add")
	}
	if !IsSendable(value) {
		return nil, newParamError(msgNotSendable)
	}
	if _, ok := keyOf(value); !ok {
		return nil, unhashableKeyError(value)
	}
	g, err := s.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	if err := s.put(value, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Has reports whether value is present.
func (s *Set) Has(value Value) (bool, error) {
	if s == nil {
		return false, newBindError("has")
	}
	return s.has(value)
}

// Delete removes value and reports whether it was present.
func (s *Set) Delete(value Value) (bool, error) {
	if s == nil {
		return false, newBindError("delete")
	}
	return s.delete(value)
}

// Clear removes all values.
func (s *Set) Clear() error {
	if s == nil {
		return newBindError("clear")
	}
	return s.reset()
}

// Size returns the number of values.
func (s *Set) Size() (int, error) {
	if s == nil {
		return 0, newBindError("size")
	}
	return s.size()
}

// ForEach calls fn(value, value, s) for every value in insertion
// order under one read access.
func (s *Set) ForEach(fn func(value, value2 Value, s *Set) error) error {
	if s == nil {
		return newBindError("forEach")
	}
	if fn == nil {
		return notCallable("callbackfn")
	}
	return s.each(func(key, _ Value) error {
		return fn(key, key, s)
	})
}

// Entries returns an iterator over [value, value] pairs.
func (s *Set) Entries() (*SetIterator, error) {
	if s == nil {
		return nil, newBindError("entries")
	}
	return &SetIterator{s.iter(IterKeyAndValue)}, nil
}

// Values returns an iterator over values.
func (s *Set) Values() (*SetIterator, error) {
	if s == nil {
		return nil, newBindError("values")
	}
	return &SetIterator{s.iter(IterValue)}, nil
}

// Keys is Values.
func (s *Set) Keys() (*SetIterator, error) {
	if s == nil {
		return nil, newBindError("keys")
	}
	return s.Values()
}

// Iterator returns the values iterator.
func (s *Set) Iterator() (Iterator, error) {
	if s == nil {
		return nil, newBindError("Symbol.iterator")
	}
	return s.Values()
}
