// Package merge builds the cross-file variant table: a registry of unique
// variants and a sparse matrix of per-file quality values.
package merge

import (
	"fmt"

	"github.com/inodb/vcfcompile/internal/vcf"
)

// Key identifies a variant across files.
type Key struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
}

// KeyOf returns the key of a parsed record.
func KeyOf(v *vcf.Variant) Key {
	return Key{Chrom: v.Chrom, Pos: v.Pos, Ref: v.Ref, Alt: v.Alt}
}

// String formats the key as chrom_pos_ref/alt.
func (k Key) String() string {
	return fmt.Sprintf("%s_%d_%s/%s", k.Chrom, k.Pos, k.Ref, k.Alt)
}
