package domain

// SearchResult is the outcome of a longest-match dictionary lookup.
type SearchResult struct {
	Entries []*Entry
	// Selected indexes Entries.
	Selected int
	// Length is the number of runes of the query that matched.
	Length int
	// FullMatch is set when the whole matched span is a dictionary key
	// rather than a partial prefix of one.
	FullMatch bool
	// DerivedWord is set when the selected entry is on the learning list.
	DerivedWord bool
}

// Entry returns the selected entry, or nil.
func (r *SearchResult) Entry() *Entry {
	if r == nil || r.Selected < 0 || r.Selected >= len(r.Entries) {
		return nil
	}
	return r.Entries[r.Selected]
}
