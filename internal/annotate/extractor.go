package annotate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vcfcompile/internal/vcf"
)

// QualitySource selects where the per-file quality value comes from.
type QualitySource string

const (
	// QualityAuto uses QD from INFO, falling back to the QUAL column.
	QualityAuto QualitySource = "auto"
	// QualityQD uses only QD from INFO.
	QualityQD QualitySource = "qd"
	// QualityQUAL uses only the QUAL column.
	QualityQUAL QualitySource = "qual"
)

// ParseQualitySource parses a quality source name (case-insensitive).
func ParseQualitySource(s string) (QualitySource, error) {
	switch q := QualitySource(strings.ToLower(s)); q {
	case QualityAuto, QualityQD, QualityQUAL:
		return q, nil
	case "":
		return QualityAuto, nil
	}
	return "", fmt.Errorf("unknown quality source %q (want auto, qd or qual)", s)
}

// Extractor derives a Summary from VCF records.
type Extractor struct {
	quality QualitySource
	genes   bool
	logger  *zap.Logger
}

// NewExtractor creates an extractor. When genes is false, SnpEff fields
// are ignored and Summary.Genes is always empty.
func NewExtractor(quality QualitySource, genes bool) *Extractor {
	if quality == "" {
		quality = QualityAuto
	}
	return &Extractor{
		quality: quality,
		genes:   genes,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Extract returns the gene pairs and quality value of v.
func (e *Extractor) Extract(v *vcf.Variant) Summary {
	var s Summary

	switch e.quality {
	case QualityQD:
		s.Quality, s.HasQuality = v.InfoFloat("QD")
	case QualityQUAL:
		s.Quality, s.HasQuality = v.Qual, v.HasQual
	default:
		s.Quality, s.HasQuality = v.InfoFloat("QD")
		if !s.HasQuality && v.HasQual {
			s.Quality, s.HasQuality = v.Qual, true
		}
	}

	if e.genes {
		genes, skipped := ExtractGenes(v)
		if skipped > 0 {
			e.logger.Debug("skipped malformed annotation sub-records",
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.Int("skipped", skipped))
		}
		s.Genes = genes
	}

	return s
}

// ExtractGenes reads gene pairs from the ANN field, or from EFF when ANN
// is absent. The second value counts skipped malformed sub-records.
func ExtractGenes(v *vcf.Variant) ([]GeneImpact, int) {
	if ann, ok := v.InfoString(InfoANN); ok {
		return ParseANN(ann)
	}
	if eff, ok := v.InfoString(InfoEFF); ok {
		return ParseEFF(eff)
	}
	return nil, 0
}
