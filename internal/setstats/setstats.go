// Package setstats tabulates the caller sets recorded by GATK
// CombineVariants in the set= INFO tag.
package setstats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vcfcompile/internal/annotate"
	"github.com/inodb/vcfcompile/internal/vcf"
)

// InfoSet is the INFO key written by CombineVariants.
const InfoSet = "set"

// Options selects which records are tabulated.
type Options struct {
	// MinQual drops records with QUAL below it. Records without QUAL are
	// dropped only when MinQual > 0.
	MinQual float64
	// Impact, if set, keeps only records with a SnpEff annotation of
	// this impact class.
	Impact string
}

// CallerSet is one row of the tabulation.
type CallerSet struct {
	Name    string // callers joined by '|', sorted
	Callers int
	Count   int
}

// Result holds the tabulation and its counters.
type Result struct {
	Records       int
	Skipped       int // malformed lines
	DroppedQual   int
	DroppedImpact int
	MissingSet    int
	Considered    int
	Sets          []CallerSet // by Count descending, then Name
}

// Percent returns the share of considered records in s.
func (r *Result) Percent(s CallerSet) float64 {
	if r.Considered == 0 {
		return 0
	}
	return float64(s.Count) * 100 / float64(r.Considered)
}

// Tabulator counts caller sets.
type Tabulator struct {
	opts   Options
	logger *zap.Logger
}

// New creates a tabulator.
func New(opts Options) (*Tabulator, error) {
	if opts.Impact != "" && !annotate.IsImpact(opts.Impact) {
		return nil, fmt.Errorf("unknown impact %q (want HIGH, MODERATE, LOW or MODIFIER)", opts.Impact)
	}
	return &Tabulator{opts: opts, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for warning messages.
func (t *Tabulator) SetLogger(l *zap.Logger) {
	t.logger = l
}

// Tabulate reads all records of p.
func (t *Tabulator) Tabulate(p vcf.VariantParser) (*Result, error) {
	res := &Result{}
	counts := make(map[string]int)

	for {
		v, err := p.Next()
		if err != nil {
			var pe *vcf.ParseError
			if !errors.As(err, &pe) {
				return nil, err
			}
			res.Skipped++
			t.logger.Warn("skipping malformed record",
				zap.Int("line", pe.Line),
				zap.String("reason", pe.Message))
			continue
		}
		if v == nil {
			break
		}
		res.Records++

		if !t.passQual(v) {
			res.DroppedQual++
			continue
		}

		if t.opts.Impact != "" {
			genes, _ := annotate.ExtractGenes(v)
			if !(annotate.Summary{Genes: genes}).HasImpact(t.opts.Impact) {
				res.DroppedImpact++
				continue
			}
		}

		set, ok := v.InfoString(InfoSet)
		if !ok || set == "" {
			res.MissingSet++
			t.logger.Warn("record without set tag",
				zap.Int("line", p.LineNumber()),
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos))
			continue
		}

		res.Considered++
		counts[normalizeSet(set)]++
	}

	for name, n := range counts {
		res.Sets = append(res.Sets, CallerSet{
			Name:    name,
			Callers: strings.Count(name, "|") + 1,
			Count:   n,
		})
	}
	sort.Slice(res.Sets, func(i, j int) bool {
		a, b := res.Sets[i], res.Sets[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	return res, nil
}

func (t *Tabulator) passQual(v *vcf.Variant) bool {
	if !v.HasQual {
		return t.opts.MinQual <= 0
	}
	return v.Qual >= t.opts.MinQual
}

// normalizeSet sorts the '-'-separated callers of a set value.
func normalizeSet(set string) string {
	callers := strings.Split(set, "-")
	sort.Strings(callers)
	return strings.Join(callers, "|")
}
