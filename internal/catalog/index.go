package catalog

// Index maps case-folded relative paths to positions in a record slice.
// When several records fold to the same key the first one wins.
type Index struct {
	records []FileRecord
	byKey   map[string]int
}

// NewIndex indexes records. The slice is not copied.
func NewIndex(records []FileRecord) *Index {
	ix := &Index{
		records: records,
		byKey:   make(map[string]int, len(records)),
	}
	for i, r := range records {
		k := Key(r.RelativePath)
		if _, dup := ix.byKey[k]; !dup {
			ix.byKey[k] = i
		}
	}
	return ix
}

// Lookup returns the position of the record at relPath, compared
// case-insensitively.
func (ix *Index) Lookup(relPath string) (int, bool) {
	i, ok := ix.byKey[Key(relPath)]
	return i, ok
}

// Record returns the record at position i.
func (ix *Index) Record(i int) FileRecord {
	return ix.records[i]
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}
