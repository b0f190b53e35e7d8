package synapse

// A RowTable is a RowResolver backed by an in-memory map, the equivalent of
// the population table a core loads at configuration time.
type RowTable struct {
	rows map[Key]RowLocation
}

// NewRowTable creates an empty RowTable.
func NewRowTable() *RowTable {
	return &RowTable{
		rows: make(map[Key]RowLocation),
	}
}

// Add registers the row location for a key, replacing any earlier entry.
func (t *RowTable) Add(key Key, loc RowLocation) {
	t.rows[key] = loc
}

// Resolve returns the row location for a key. The second return value is
// false when the table holds no row for the key.
func (t *RowTable) Resolve(key Key) (RowLocation, bool) {
	loc, found := t.rows[key]
	return loc, found
}
