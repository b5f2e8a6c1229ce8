// Package annotate extracts gene/impact annotations and quality values
// from VCF records.
package annotate

import (
	"strconv"
	"strings"
)

// Impact levels for variant consequences.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// IsImpact returns true if s is one of the SnpEff impact classes.
func IsImpact(s string) bool {
	switch s {
	case ImpactHigh, ImpactModerate, ImpactLow, ImpactModifier:
		return true
	}
	return false
}

// GeneImpact is a (gene, impact) pair from a SnpEff annotation.
type GeneImpact struct {
	Gene   string
	Impact string
}

func (g GeneImpact) String() string {
	return g.Gene + ":" + g.Impact
}

// Summary holds what the compiler keeps from one record.
type Summary struct {
	Genes      []GeneImpact // distinct pairs, first-seen order
	Quality    float64      // valid only if HasQuality
	HasQuality bool
}

// GenesString joins the gene pairs as GENE:IMPACT tokens separated by ';'.
// Returns "" if there are no genes.
func (s Summary) GenesString() string {
	if len(s.Genes) == 0 {
		return ""
	}
	parts := make([]string, len(s.Genes))
	for i, g := range s.Genes {
		parts[i] = g.String()
	}
	return strings.Join(parts, ";")
}

// HasImpact returns true if any gene pair carries the given impact.
func (s Summary) HasImpact(impact string) bool {
	for _, g := range s.Genes {
		if g.Impact == impact {
			return true
		}
	}
	return false
}

// FormatQuality formats a quality value with two decimals.
func FormatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', 2, 64)
}
