package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vcfcompile/internal/vcf"
)

func variant(qual float64, hasQual bool, info map[string]interface{}) *vcf.Variant {
	return &vcf.Variant{
		Chrom:   "chr1",
		Pos:     100,
		ID:      ".",
		Ref:     "A",
		Alt:     "T",
		Qual:    qual,
		HasQual: hasQual,
		Info:    info,
	}
}

func TestExtractor_Quality(t *testing.T) {
	tests := []struct {
		name    string
		source  QualitySource
		v       *vcf.Variant
		want    float64
		wantHas bool
	}{
		{"auto prefers QD", QualityAuto, variant(50, true, map[string]interface{}{"QD": "3.00"}), 3, true},
		{"auto falls back to QUAL", QualityAuto, variant(9.1, true, map[string]interface{}{}), 9.1, true},
		{"auto bad QD falls back", QualityAuto, variant(7, true, map[string]interface{}{"QD": "x"}), 7, true},
		{"auto absent", QualityAuto, variant(0, false, map[string]interface{}{}), 0, false},
		{"qd only", QualityQD, variant(50, true, map[string]interface{}{}), 0, false},
		{"qual only", QualityQUAL, variant(50, true, map[string]interface{}{"QD": "3"}), 50, true},
		{"qual missing", QualityQUAL, variant(0, false, map[string]interface{}{"QD": "3"}), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewExtractor(tt.source, false).Extract(tt.v)
			assert.Equal(t, tt.wantHas, s.HasQuality)
			assert.InDelta(t, tt.want, s.Quality, 1e-9)
		})
	}
}

func TestExtractor_Genes(t *testing.T) {
	v := variant(10, true, map[string]interface{}{
		"ANN": "T|missense_variant|MODERATE|UBB|x,T|synonymous_variant|LOW|UBB|x",
	})

	s := NewExtractor(QualityAuto, true).Extract(v)
	assert.Equal(t, "UBB:MODERATE;UBB:LOW", s.GenesString())

	s = NewExtractor(QualityAuto, false).Extract(v)
	assert.Empty(t, s.Genes, "gene extraction disabled")

	s = NewExtractor(QualityAuto, true).Extract(variant(10, true, map[string]interface{}{}))
	assert.Equal(t, "", s.GenesString())
}

func TestExtractor_LogsSkippedSubrecords(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewExtractor(QualityAuto, true)
	e.SetLogger(zap.New(core))

	v := variant(10, true, map[string]interface{}{
		"ANN": "T|missense_variant,T|stop_gained|HIGH|KRAS",
	})
	s := e.Extract(v)
	assert.Equal(t, "KRAS:HIGH", s.GenesString())

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["skipped"])
}

func TestExtractGenes_PrefersANN(t *testing.T) {
	v := variant(0, false, map[string]interface{}{
		"ANN": "T|missense_variant|MODERATE|UBB",
		"EFF": "DOWNSTREAM(MODIFIER|||||TP53)",
	})
	genes, _ := ExtractGenes(v)
	assert.Equal(t, []GeneImpact{{Gene: "UBB", Impact: ImpactModerate}}, genes)
}

func TestParseQualitySource(t *testing.T) {
	q, err := ParseQualitySource("QD")
	require.NoError(t, err)
	assert.Equal(t, QualityQD, q)

	q, err = ParseQualitySource("")
	require.NoError(t, err)
	assert.Equal(t, QualityAuto, q)

	_, err = ParseQualitySource("depth")
	assert.Error(t, err)
}
