package output

import (
	"bufio"
	"io"

	"github.com/inodb/vcfcompile/internal/vcf"
)

// VCFWriter echoes VCF header lines and records verbatim.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // original VCF header lines (## and #CHROM)
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// WriteHeader writes the header lines.
func (vw *VCFWriter) WriteHeader() error {
	for _, line := range vw.headerLines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes the original line of v.
func (vw *VCFWriter) Write(v *vcf.Variant) error {
	_, err := vw.w.WriteString(v.Raw + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
