package dedup

import "sort"

// Entry locates the best copy seen so far of a read (pair): the offsets of
// the read in the R1 and R2 files (Off2 is unused for single-end input) and
// its quality score.
type Entry struct {
	Off1, Off2 int64
	Qual       int64
}

// Outcome describes what Table.Update did.
type Outcome int

const (
	// Inserted means the fingerprint was new.
	Inserted Outcome = iota
	// Replaced means the candidate beat the previous survivor.
	Replaced
	// Retained means the previous survivor was kept.
	Retained
)

// Table maps each fingerprint to its surviving entry. Table is not
// threadsafe.
type Table struct {
	m map[Fingerprint]Entry
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{m: make(map[Fingerprint]Entry)}
}

// Update offers cand as the survivor for fp. A new fingerprint is inserted.
// An existing survivor is replaced only if cand's quality is strictly
// greater, so among equal scores the first one seen wins.
func (t *Table) Update(fp Fingerprint, cand Entry) Outcome {
	cur, ok := t.m[fp]
	switch {
	case !ok:
		t.m[fp] = cand
		return Inserted
	case cand.Qual > cur.Qual:
		t.m[fp] = cand
		return Replaced
	}
	return Retained
}

// Get returns the survivor for fp.
func (t *Table) Get(fp Fingerprint) (Entry, bool) {
	e, ok := t.m[fp]
	return e, ok
}

// Len returns the number of distinct fingerprints.
func (t *Table) Len() int { return len(t.m) }

// Drain removes and returns all the survivors, ordered by R1 offset. The
// table is empty afterwards.
func (t *Table) Drain() []Entry {
	entries := make([]Entry, 0, len(t.m))
	for _, e := range t.m {
		entries = append(entries, e)
	}
	t.m = make(map[Fingerprint]Entry)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Off1 < entries[j].Off1 })
	return entries
}
