package pipeline

import (
	"testing"
)

type testRow struct {
	ID    string
	Value int
}

func TestTablePutAndGet(t *testing.T) {
	table := NewTable(func(r testRow) string { return r.ID })

	table.Put(testRow{ID: "a", Value: 1})
	table.Put(testRow{ID: "b", Value: 2})

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	row, ok := table.Get("a")
	if !ok || row.Value != 1 {
		t.Errorf("expected a=1, got %+v ok=%v", row, ok)
	}

	if _, ok := table.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestTablePutReplacesByKey(t *testing.T) {
	table := NewTable(func(r testRow) string { return r.ID })

	table.Put(testRow{ID: "a", Value: 1})
	table.Put(testRow{ID: "a", Value: 9})

	if table.Len() != 1 {
		t.Fatalf("expected replacement, got %d rows", table.Len())
	}
	row, _ := table.Get("a")
	if row.Value != 9 {
		t.Errorf("expected replaced value 9, got %d", row.Value)
	}
}

func TestTablePreservesInsertionOrder(t *testing.T) {
	table := NewTable(func(r testRow) string { return r.ID })

	for _, id := range []string{"c", "a", "b"} {
		table.Put(testRow{ID: id})
	}

	keys := table.Keys()
	want := []string{"c", "a", "b"}
	for i, k := range keys {
		if k != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, k, want[i])
		}
	}
}
