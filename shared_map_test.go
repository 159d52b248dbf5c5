package sendable

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

func drain(t *testing.T, it Iterator) []Value {
	t.Helper()
	var out []Value
	for {
		r, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if r.Done {
			return out
		}
		out = append(out, r.Value)
	}
}

func mustMap(t *testing.T, iterable Value) *Map {
	t.Helper()
	m, err := NewMap(iterable)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func mapSize(t *testing.T, m *Map) int {
	t.Helper()
	n, err := m.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	return n
}

func TestMap_BasicOperations(t *testing.T) {
	m := mustMap(t, nil)
	if got, err := m.Set("a", 1); err != nil || got != m {
		t.Fatalf("Set = %v, %v", got, err)
	}
	if _, err := m.Set("b", "two"); err != nil {
		t.Fatal(err)
	}
	if v, err := m.Get("a"); err != nil || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, err)
	}
	if v, err := m.Get("missing"); err != nil || v != nil {
		t.Fatalf("Get(missing) = %v, %v", v, err)
	}
	if ok, _ := m.Has("b"); !ok {
		t.Fatal("Has(b) = false")
	}
	if n := mapSize(t, m); n != 2 {
		t.Fatalf("Size = %d, want 2", n)
	}
	if ok, err := m.Delete("a"); err != nil || !ok {
		t.Fatalf("Delete(a) = %v, %v", ok, err)
	}
	if ok, _ := m.Has("a"); ok {
		t.Fatal("Has(a) after delete")
	}
	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := mapSize(t, m); n != 0 {
		t.Fatalf("Size after Clear = %d", n)
	}
	if m.rec.load() != modIdle {
		t.Fatalf("record = %#x after operations", m.rec.load())
	}
}

func TestMap_InsertionOrderWithReinsert(t *testing.T) {
	m := mustMap(t, nil)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Delete("a")
	m.Set("a", 3)

	it, _ := m.Entries()
	want := []Value{[]Value{"b", 2}, []Value{"a", 3}}
	if diff := cmp.Diff(want, drain(t, it)); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_UpdateKeepsPosition(t *testing.T) {
	m := mustMap(t, []Value{[]Value{"x", 1}, []Value{"y", 2}})
	m.Set("x", 10)
	keys, _ := m.Keys()
	values, _ := m.Values()
	if diff := cmp.Diff([]Value{"x", "y"}, drain(t, keys)); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Value{10, 2}, drain(t, values)); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
}

func TestMap_RejectsNonSendable(t *testing.T) {
	m := mustMap(t, nil)
	m.Set("k", 1)
	for _, v := range []Value{[]int{1}, map[string]int{}, struct{}{}, func() {}} {
		if _, err := m.Set("x", v); !errors.Is(err, ErrParam) {
			t.Fatalf("Set(x, %T) error = %v, want ErrParam", v, err)
		}
		if _, err := m.Set(v, 1); !errors.Is(err, ErrParam) {
			t.Fatalf("Set(%T, 1) error = %v, want ErrParam", v, err)
		}
	}
	if n := mapSize(t, m); n != 1 {
		t.Fatalf("Size = %d, want 1", n)
	}
}

func TestMap_DeleteMissing(t *testing.T) {
	m := mustMap(t, []Value{[]Value{1, 1}})
	ok, err := m.Delete(2)
	if err != nil || ok {
		t.Fatalf("Delete(2) = %v, %v", ok, err)
	}
	if n := mapSize(t, m); n != 1 {
		t.Fatalf("Size = %d, want 1", n)
	}
}

func TestMap_SameValueZeroKeys(t *testing.T) {
	m := mustMap(t, nil)
	m.Set(math.NaN(), "nan")
	m.Set(math.Copysign(0, -1), "zero")
	m.Set(int64(7), "seven")

	if v, _ := m.Get(math.NaN()); v != "nan" {
		t.Fatalf("Get(NaN) = %v", v)
	}
	if v, _ := m.Get(0); v != "zero" {
		t.Fatalf("Get(0) = %v", v)
	}
	if v, _ := m.Get(7.0); v != "seven" {
		t.Fatalf("Get(7.0) = %v", v)
	}
	if v, _ := m.Get("7"); v != nil {
		t.Fatalf("Get(\"7\") = %v", v)
	}
	if n := mapSize(t, m); n != 3 {
		t.Fatalf("Size = %d, want 3", n)
	}
}

type sharedRecord struct {
	SendableBase
	tags []string
}

func TestMap_ObjectKeys(t *testing.T) {
	m := mustMap(t, nil)
	inner := mustMap(t, nil)
	rec := &sharedRecord{}
	m.Set(inner, 1)
	m.Set(rec, 2)
	if v, _ := m.Get(inner); v != 1 {
		t.Fatalf("Get(inner) = %v", v)
	}
	if v, _ := m.Get(&sharedRecord{}); v != nil {
		t.Fatalf("distinct object matched: %v", v)
	}
	if _, err := m.Set(sharedRecord{}, 3); !errors.Is(err, ErrType) {
		t.Fatalf("Set(unhashable) error = %v, want ErrType", err)
	}
}

func TestMap_HeldWriteFailsRead(t *testing.T) {
	m := mustMap(t, []Value{[]Value{"k", "v"}})
	if !m.rec.acquireWrite() {
		t.Fatal("acquireWrite failed on idle map")
	}
	if _, err := m.Get("k"); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("Get under writer = %v, want ErrConcurrentModification", err)
	}
	if _, err := m.Set("k", 1); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("Set under writer = %v", err)
	}
	m.rec.releaseWrite()
	if v, err := m.Get("k"); err != nil || v != "v" {
		t.Fatalf("Get after release = %v, %v", v, err)
	}
}

func TestMap_HeldReadFailsWrite(t *testing.T) {
	m := mustMap(t, nil)
	acquired, _ := m.rec.acquireRead()
	if _, err := m.Set("k", 1); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("Set under reader = %v", err)
	}
	if _, err := m.Has("k"); err != nil {
		t.Fatalf("Has under reader = %v", err)
	}
	m.rec.releaseRead(acquired)
	if _, err := m.Set("k", 1); err != nil {
		t.Fatal(err)
	}
}

func TestMap_ForEach(t *testing.T) {
	m := mustMap(t, []Value{[]Value{"a", 1}, []Value{"b", 2}})
	var got []Value
	err := m.ForEach(func(value, key Value, mm *Map) error {
		if mm != m {
			t.Fatal("callback got another map")
		}
		got = append(got, key, value)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Value{"a", 1, "b", 2}, got); diff != "" {
		t.Fatalf("ForEach (-want +got):\n%s", diff)
	}
	if err := m.ForEach(nil); !errors.Is(err, ErrType) {
		t.Fatalf("ForEach(nil) = %v, want ErrType", err)
	}

	stop := errors.New("stop")
	calls := 0
	err = m.ForEach(func(_, _ Value, _ *Map) error {
		calls++
		return stop
	})
	if err != stop || calls != 1 {
		t.Fatalf("ForEach error = %v after %d calls", err, calls)
	}
}

func TestMap_ForEachMutationConflicts(t *testing.T) {
	m := mustMap(t, []Value{[]Value{"a", 1}})
	err := m.ForEach(func(_, key Value, mm *Map) error {
		_, err := mm.Set(key, 2)
		return err
	})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("mutation inside ForEach = %v", err)
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Fatalf("value changed to %v", v)
	}
	if m.rec.load() != modIdle {
		t.Fatalf("record = %#x", m.rec.load())
	}
}

func TestMap_IteratorExhaustionIsTerminal(t *testing.T) {
	m := mustMap(t, []Value{[]Value{1, 1}})
	it, _ := m.Keys()
	drain(t, it)
	m.Set(2, 2)
	r, err := it.Next()
	if err != nil || !r.Done {
		t.Fatalf("Next after exhaustion = %+v, %v", r, err)
	}
	if it.owner != nil {
		t.Fatal("exhausted iterator still references the map")
	}
}

func TestMap_IteratorSurvivesRehash(t *testing.T) {
	m := mustMap(t, nil)
	for i := 0; i < 8; i++ {
		m.Set(i, i)
	}
	it, _ := m.Keys()
	if r, _ := it.Next(); r.Value != 0 {
		t.Fatalf("first key = %v", r.Value)
	}
	m.Delete(1)
	m.Delete(2)
	for i := 8; i < 40; i++ {
		m.Set(i, i)
	}
	var want []Value
	for i := 3; i < 40; i++ {
		want = append(want, i)
	}
	if diff := cmp.Diff(want, drain(t, it)); diff != "" {
		t.Fatalf("keys after rehash (-want +got):\n%s", diff)
	}
}

func TestMap_IteratorAfterClear(t *testing.T) {
	m := mustMap(t, []Value{[]Value{"a", 1}, []Value{"b", 2}})
	it, _ := m.Keys()
	it.Next()
	m.Clear()
	m.Set("c", 3)
	if diff := cmp.Diff([]Value{"c"}, drain(t, it)); diff != "" {
		t.Fatalf("keys after clear (-want +got):\n%s", diff)
	}
}

func TestMap_IteratorStepConflicts(t *testing.T) {
	m := mustMap(t, []Value{[]Value{"a", 1}})
	it, _ := m.Entries()
	m.rec.acquireWrite()
	if _, err := it.Next(); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("Next under writer = %v", err)
	}
	m.rec.releaseWrite()
	if r, err := it.Next(); err != nil || r.Done {
		t.Fatalf("Next after release = %+v, %v", r, err)
	}
}

type closingIterator struct {
	items  []Value
	closed bool
}

func (it *closingIterator) Next() (IterResult, error) {
	if len(it.items) == 0 {
		return doneResult, nil
	}
	v := it.items[0]
	it.items = it.items[1:]
	return IterResult{Value: v}, nil
}

func (it *closingIterator) Return() error {
	it.closed = true
	return nil
}

func (it *closingIterator) Iterator() (Iterator, error) { return it, nil }

func TestNewMap_FromIterables(t *testing.T) {
	src := mustMap(t, []Value{[]Value{"a", 1}, []Value{"b", 2}})
	cp := mustMap(t, src)
	it, _ := cp.Entries()
	if diff := cmp.Diff([]Value{[]Value{"a", 1}, []Value{"b", 2}}, drain(t, it)); diff != "" {
		t.Fatalf("copied entries (-want +got):\n%s", diff)
	}

	pair, _ := NewArray([]Value{"k", "v"})
	m := mustMap(t, []Value{pair})
	if v, _ := m.Get("k"); v != "v" {
		t.Fatalf("Get(k) = %v", v)
	}

	if _, err := NewMap(Null); err != nil {
		t.Fatalf("NewMap(Null) = %v", err)
	}
	if _, err := NewMap(42); !errors.Is(err, ErrType) {
		t.Fatalf("NewMap(42) = %v, want ErrType", err)
	}
}

func TestNewMap_ClosesSourceOnError(t *testing.T) {
	bad := &closingIterator{items: []Value{[]Value{"a", 1}, "not-an-entry"}}
	if _, err := NewMap(bad); !errors.Is(err, ErrType) {
		t.Fatalf("NewMap = %v, want ErrType", err)
	}
	if !bad.closed {
		t.Fatal("source iterator was not closed")
	}

	unsendable := &closingIterator{items: []Value{[]Value{"a", []int{1}}}}
	if _, err := NewMap(unsendable); !errors.Is(err, ErrParam) {
		t.Fatalf("NewMap = %v, want ErrParam", err)
	}
	if !unsendable.closed {
		t.Fatal("source iterator was not closed")
	}
}

func TestMap_NilReceiver(t *testing.T) {
	var m *Map
	if _, err := m.Get("a"); !errors.Is(err, ErrBind) {
		t.Fatalf("nil Get = %v", err)
	}
	if _, err := m.Set("a", 1); !errors.Is(err, ErrBind) {
		t.Fatalf("nil Set = %v", err)
	}
}

func TestMap_ConcurrentAccess(t *testing.T) {
	m := mustMap(t, nil)
	var g errgroup.Group
	for p := 0; p < 8; p++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				var err error
				if i%2 == 0 {
					_, err = m.Set(p*1000+i, i)
				} else {
					_, err = m.Get(p*1000 + i - 1)
				}
				if err != nil && !errors.Is(err, ErrConcurrentModification) {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if m.rec.load() != modIdle {
		t.Fatalf("record = %#x after concurrent access", m.rec.load())
	}
}

func TestMap_UnhashableKeyCheckedBeforeAccess(t *testing.T) {
	m := mustMap(t, nil)
	acquired, _ := m.rec.acquireRead()
	if _, err := m.Set(sharedRecord{}, 1); !errors.Is(err, ErrType) {
		t.Fatalf("Set(unhashable) under reader = %v, want ErrType", err)
	}
	if _, ok := m.rec.releaseRead(acquired); !ok {
		t.Fatal("reader registration was disturbed")
	}
	if n := mapSize(t, m); n != 0 {
		t.Fatalf("Size = %d, want 0", n)
	}
}
