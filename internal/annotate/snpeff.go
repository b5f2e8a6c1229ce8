package annotate

import "strings"

// SnpEff INFO keys, current and legacy.
const (
	InfoANN = "ANN"
	InfoEFF = "EFF"
)

// ANN sub-record positions: Allele|Annotation|Impact|Gene_Name|...
const (
	annImpactIdx = 2
	annGeneIdx   = 3
)

// EFF sub-record positions inside the parentheses:
// Effect(Impact|Functional_Class|Codon_Change|Amino_Acid_Change|Amino_Acid_Length|Gene_Name|...)
const (
	effImpactIdx = 0
	effGeneIdx   = 5
)

// geneSet collects distinct gene pairs in insertion order.
type geneSet struct {
	seen  map[GeneImpact]struct{}
	pairs []GeneImpact
}

func (s *geneSet) add(g GeneImpact) {
	if s.seen == nil {
		s.seen = make(map[GeneImpact]struct{})
	}
	if _, ok := s.seen[g]; ok {
		return
	}
	s.seen[g] = struct{}{}
	s.pairs = append(s.pairs, g)
}

// ParseANN extracts gene pairs from an ANN value. It returns the pairs and
// the number of sub-records skipped as malformed.
func ParseANN(value string) ([]GeneImpact, int) {
	var set geneSet
	skipped := 0
	for _, sub := range strings.Split(value, ",") {
		g, ok := pairAt(sub, annImpactIdx, annGeneIdx)
		if !ok {
			skipped++
			continue
		}
		set.add(g)
	}
	return set.pairs, skipped
}

// ParseEFF extracts gene pairs from a legacy EFF value. Sub-records without
// the Effect(...) wrapper are read with the ANN layout.
func ParseEFF(value string) ([]GeneImpact, int) {
	var set geneSet
	skipped := 0
	for _, sub := range strings.Split(value, ",") {
		var (
			g  GeneImpact
			ok bool
		)
		open := strings.IndexByte(sub, '(')
		if open >= 0 && strings.HasSuffix(sub, ")") {
			g, ok = pairAt(sub[open+1:len(sub)-1], effImpactIdx, effGeneIdx)
		} else {
			g, ok = pairAt(sub, annImpactIdx, annGeneIdx)
		}
		if !ok {
			skipped++
			continue
		}
		set.add(g)
	}
	return set.pairs, skipped
}

func pairAt(sub string, impactIdx, geneIdx int) (GeneImpact, bool) {
	fields := strings.Split(sub, "|")
	if len(fields) <= impactIdx || len(fields) <= geneIdx {
		return GeneImpact{}, false
	}
	g := GeneImpact{Gene: fields[geneIdx], Impact: fields[impactIdx]}
	if g.Gene == "" || g.Impact == "" {
		return GeneImpact{}, false
	}
	return g, true
}
