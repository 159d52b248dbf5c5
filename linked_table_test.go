package sendable

import "testing"

func TestLinkedTable_SetGetRemove(t *testing.T) {
	tbl := newLinkedTable(0)
	for i := 0; i < 5; i++ {
		nt, err := tbl.Set(i, i*10)
		if err != nil || nt != tbl {
			t.Fatalf("Set(%d) = %p, %v", i, nt, err)
		}
	}
	if v, ok := tbl.Get(3); !ok || v != 30 {
		t.Fatalf("Get(3) = %v, %v", v, ok)
	}
	slot := tbl.FindElement(2)
	if slot != 2 {
		t.Fatalf("FindElement(2) = %d", slot)
	}
	tbl.RemoveEntry(slot)
	tbl.RemoveEntry(slot)
	if tbl.NumberOfElements() != 4 || tbl.NumberOfDeletedElements() != 1 {
		t.Fatalf("live=%d deleted=%d", tbl.NumberOfElements(), tbl.NumberOfDeletedElements())
	}
	if tbl.Has(2) || tbl.FindElement(2) != -1 {
		t.Fatal("removed key still present")
	}
	if tbl.GetKey(4) != 4 || tbl.GetValue(4) != 40 {
		t.Fatalf("slot 4 = %v:%v", tbl.GetKey(4), tbl.GetValue(4))
	}
}

func TestLinkedTable_RehashCompactsHoles(t *testing.T) {
	tbl := newLinkedTable(0)
	for i := 0; i < minTableCapacity; i++ {
		tbl, _ = tbl.Set(i, i)
	}
	for i := 0; i < 6; i++ {
		tbl.RemoveEntry(tbl.FindElement(i))
	}
	old := tbl
	tbl, _ = tbl.Set("new", 1)
	if tbl == old {
		t.Fatal("full table was not replaced")
	}
	if cap(tbl.entries) != minTableCapacity {
		t.Fatalf("capacity = %d, want %d after compaction", cap(tbl.entries), minTableCapacity)
	}
	if tbl.NumberOfDeletedElements() != 0 || tbl.NumberOfElements() != 3 {
		t.Fatalf("live=%d deleted=%d", tbl.NumberOfElements(), tbl.NumberOfDeletedElements())
	}
	if old.next != tbl || len(old.removed) != 6 {
		t.Fatalf("old table not frozen: next=%p removed=%v", old.next, old.removed)
	}

	// a cursor past slot 6 in the old table lands on slot 0 ("6") now
	nt, cursor := old.transition(6)
	if nt != tbl || cursor != 0 || tbl.GetKey(cursor) != 6 {
		t.Fatalf("transition = %p, %d", nt, cursor)
	}
}

func TestLinkedTable_ClearResetsCursor(t *testing.T) {
	tbl := newLinkedTable(0)
	tbl.Set("a", 1)
	tbl.Set("b", 2)
	nt := tbl.Clear()
	if nt.NumberOfElements() != 0 {
		t.Fatal("cleared table not empty")
	}
	if got, cursor := tbl.transition(2); got != nt || cursor != 0 {
		t.Fatalf("transition after clear = %p, %d", got, cursor)
	}
}
