package vcf

import (
	"math"
	"strconv"
)

// Variant represents a single data line of a VCF file.
type Variant struct {
	Chrom   string                 // Chromosome name (e.g., "12", "chr12")
	Pos     int64                  // 1-based genomic position
	ID      string                 // Variant identifier (e.g., rs ID), "." if absent
	Ref     string                 // Reference allele
	Alt     string                 // Alternate allele(s), kept as one token
	Qual    float64                // Quality score, valid only if HasQual
	HasQual bool                   // QUAL column was numeric
	Filter  string                 // Filter status (PASS or filter name)
	Info    map[string]interface{} // INFO field key-value pairs
	Raw     string                 // Original line without the line terminator
}

// InfoString returns the string value of an INFO key.
// Flag-type entries are reported as not found.
func (v *Variant) InfoString(key string) (string, bool) {
	val, ok := v.Info[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// InfoFloat returns the numeric value of an INFO key.
// The second return value is false if the key is missing or not a finite
// number.
func (v *Variant) InfoFloat(key string) (float64, bool) {
	s, ok := v.InfoString(key)
	if !ok {
		return 0, false
	}
	return parseNumber(s)
}

// parseNumber parses a finite decimal value. NaN and Inf spellings, which
// callers such as GATK write for undefined statistics, do not count.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
