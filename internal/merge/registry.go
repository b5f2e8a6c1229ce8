package merge

// Entry is the registry record of one unique variant.
type Entry struct {
	Key   Key
	ID    string // ID column of the first record seen
	Genes string // gene annotation of the first record seen
	Index int    // first-seen order, starting at 0
}

// Registry assigns each variant key a single entry. The first record seen
// for a key defines its display fields and its row position.
type Registry struct {
	index   map[Key]*Entry
	entries []*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Key]*Entry)}
}

// LookupOrCreate returns the entry for key, creating it with id and genes
// if it does not exist yet. Existing entries are never modified.
// The second return value reports whether the entry was created.
func (r *Registry) LookupOrCreate(key Key, id, genes string) (*Entry, bool) {
	if e, ok := r.index[key]; ok {
		return e, false
	}
	e := &Entry{Key: key, ID: id, Genes: genes, Index: len(r.entries)}
	r.index[key] = e
	r.entries = append(r.entries, e)
	return e, true
}

// Entries returns all entries in first-seen order.
// The returned slice must not be modified.
func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Len returns the number of unique variants.
func (r *Registry) Len() int {
	return len(r.entries)
}
