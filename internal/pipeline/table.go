package pipeline

// Table is a generic insertion-ordered collection with a unique-key index.
// The key is derived from each row by the extractor supplied at construction,
// so entity types stay plain structs.
type Table[K comparable, R any] struct {
	key  func(R) K
	rows []R
	idx  map[K]int
}

// NewTable creates an empty table indexed by the given key extractor.
func NewTable[K comparable, R any](key func(R) K) *Table[K, R] {
	return &Table[K, R]{
		key: key,
		idx: make(map[K]int),
	}
}

// Put inserts a row, replacing any existing row with the same key.
func (t *Table[K, R]) Put(row R) {
	k := t.key(row)
	if i, ok := t.idx[k]; ok {
		t.rows[i] = row
		return
	}
	t.idx[k] = len(t.rows)
	t.rows = append(t.rows, row)
}

// Get returns the row stored under k.
func (t *Table[K, R]) Get(k K) (R, bool) {
	if i, ok := t.idx[k]; ok {
		return t.rows[i], true
	}
	var zero R
	return zero, false
}

// Len returns the number of rows.
func (t *Table[K, R]) Len() int {
	return len(t.rows)
}

// Rows returns all rows in insertion order. The returned slice is the table's
// backing storage; callers must not mutate it.
func (t *Table[K, R]) Rows() []R {
	return t.rows
}

// Keys returns all keys in insertion order.
func (t *Table[K, R]) Keys() []K {
	keys := make([]K, 0, len(t.rows))
	for _, row := range t.rows {
		keys = append(keys, t.key(row))
	}
	return keys
}
