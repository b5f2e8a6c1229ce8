// Package output provides table and report formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vcfcompile/internal/merge"
)

// DefaultPlaceholder marks a file without a value for a variant.
const DefaultPlaceholder = "NA"

// fixedColumns precede one column per input file.
var fixedColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "GENES"}

// TableWriter writes the compiled variant table in tab-delimited format.
type TableWriter struct {
	w           *bufio.Writer
	labels      []string
	placeholder string
	row         []string
}

// NewTableWriter creates a writer with one quality column per label.
// An empty placeholder selects DefaultPlaceholder.
func NewTableWriter(w io.Writer, labels []string, placeholder string) *TableWriter {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &TableWriter{
		w:           bufio.NewWriter(w),
		labels:      labels,
		placeholder: placeholder,
		row:         make([]string, 0, len(fixedColumns)+len(labels)),
	}
}

// WriteHeader writes the header line.
func (tw *TableWriter) WriteHeader() error {
	cols := append(append(tw.row[:0], fixedColumns...), tw.labels...)
	_, err := tw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Write writes the row of one registry entry.
func (tw *TableWriter) Write(e *merge.Entry, m *merge.Matrix) error {
	k := e.Key
	row := append(tw.row[:0],
		k.Chrom,
		strconv.FormatInt(k.Pos, 10),
		e.ID,
		k.Ref,
		k.Alt,
		e.Genes,
	)
	for _, label := range tw.labels {
		c, _ := m.Value(k, label)
		row = append(row, c.Format(tw.placeholder))
	}

	_, err := tw.w.WriteString(strings.Join(row, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}

// WriteTable renders a complete compile result: header, then one row per
// variant in first-seen order.
func WriteTable(w io.Writer, res *merge.Result, placeholder string) error {
	tw := NewTableWriter(w, res.Matrix.Labels(), placeholder)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, e := range res.Registry.Entries() {
		if err := tw.Write(e, res.Matrix); err != nil {
			return err
		}
	}
	return tw.Flush()
}
