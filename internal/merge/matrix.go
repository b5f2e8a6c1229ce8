package merge

import "github.com/inodb/vcfcompile/internal/annotate"

// Cell is the value a file reported for a variant. A cell with Valid=false
// means the file contained the variant without a usable quality value.
type Cell struct {
	Quality float64
	Valid   bool
}

// Format returns the quality with two decimals, or placeholder if the
// cell has no value.
func (c Cell) Format(placeholder string) string {
	if !c.Valid {
		return placeholder
	}
	return annotate.FormatQuality(c.Quality)
}

// Matrix is a sparse variant x file table of quality values.
type Matrix struct {
	labels []string
	cells  map[Key]map[string]Cell
	counts map[string]int
}

// NewMatrix creates a matrix whose columns are labels, in order.
func NewMatrix(labels []string) *Matrix {
	return &Matrix{
		labels: append([]string(nil), labels...),
		cells:  make(map[Key]map[string]Cell),
		counts: make(map[string]int),
	}
}

// Record stores the cell for (key, label), replacing any earlier value.
// It reports whether a value was replaced.
func (m *Matrix) Record(key Key, label string, c Cell) bool {
	row, ok := m.cells[key]
	if !ok {
		row = make(map[string]Cell, len(m.labels))
		m.cells[key] = row
	}
	_, exists := row[label]
	row[label] = c
	if !exists {
		m.counts[label]++
	}
	return exists
}

// Value returns the cell for (key, label). ok is false if the file did not
// contain the variant.
func (m *Matrix) Value(key Key, label string) (Cell, bool) {
	c, ok := m.cells[key][label]
	return c, ok
}

// Labels returns the column labels in input order.
func (m *Matrix) Labels() []string {
	return m.labels
}

// Count returns the number of distinct variants recorded for label.
func (m *Matrix) Count(label string) int {
	return m.counts[label]
}

// FilesFor returns the number of files that contain key.
func (m *Matrix) FilesFor(key Key) int {
	return len(m.cells[key])
}
