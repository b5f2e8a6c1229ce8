package merge

// Stats summarizes a compile run.
type Stats struct {
	Total  int // unique variants
	Shared int // variants present in every file
	Files  []FileStats
}

// Stats computes the summary of r.
func (r *Result) Stats() Stats {
	st := Stats{
		Total: r.Registry.Len(),
		Files: r.Files,
	}

	n := len(r.Matrix.Labels())
	if n == 0 {
		return st
	}
	for _, e := range r.Registry.Entries() {
		if r.Matrix.FilesFor(e.Key) == n {
			st.Shared++
		}
	}
	return st
}
