// Package numbering assigns stable citation numbers within one render pass.
package numbering

// Table maps record ids to the ordinal they were first cited with. The zero
// value is ready to use. A Table is owned by a single render pass and is not
// safe for concurrent use.
type Table struct {
	ordinals map[string]int
	order    []string
}

// New returns an empty table.
func New() *Table { return &Table{} }

// Assign returns the ordinal for id, allocating the next one (starting at 1)
// the first time id is seen.
func (t *Table) Assign(id string) int {
	if n, ok := t.ordinals[id]; ok {
		return n
	}
	if t.ordinals == nil {
		t.ordinals = make(map[string]int)
	}
	t.order = append(t.order, id)
	n := len(t.order)
	t.ordinals[id] = n
	return n
}

// Lookup returns the ordinal already assigned to id, without allocating.
func (t *Table) Lookup(id string) (int, bool) {
	n, ok := t.ordinals[id]
	return n, ok
}

// Len is the number of distinct ids assigned so far.
func (t *Table) Len() int { return len(t.order) }

// Order returns the ids in ordinal order (index 0 holds ordinal 1).
func (t *Table) Order() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Reset clears every assignment so the table can serve another document.
func (t *Table) Reset() {
	t.ordinals = nil
	t.order = nil
}
