// Package filter applies GATK-style hard filters to VCF records.
package filter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vcfcompile/internal/vcf"
)

// Op is the comparison a value must satisfy to pass.
type Op int

const (
	Greater Op = iota // value > threshold
	Less              // value < threshold
)

// Threshold is a single INFO annotation check.
type Threshold struct {
	Key   string
	Op    Op
	Value float64
}

// Pass reports whether x satisfies the threshold.
func (th Threshold) Pass(x float64) bool {
	if th.Op == Less {
		return x < th.Value
	}
	return x > th.Value
}

func (th Threshold) String() string {
	if th.Op == Less {
		return fmt.Sprintf("%s < %g", th.Key, th.Value)
	}
	return fmt.Sprintf("%s > %g", th.Key, th.Value)
}

// Options holds the filter thresholds.
type Options struct {
	QD             float64
	FS             float64
	DP             float64
	MQ             float64
	MQRankSum      float64
	ReadPosRankSum float64

	// Warn fails records with a missing value instead of aborting.
	Warn bool
}

// DefaultOptions returns the GATK hard-filter recommendations for SNPs.
func DefaultOptions() Options {
	return Options{
		QD:             2.0,
		FS:             30.0,
		DP:             10.0,
		MQ:             40.0,
		MQRankSum:      -12.5,
		ReadPosRankSum: -8.0,
	}
}

// Verdict is the outcome of filtering one record.
type Verdict int

const (
	Pass     Verdict = iota
	Fail             // a value failed its threshold
	NotFound         // a value was missing or not numeric
)

// MissingValueError reports a record without a value the filter needs.
type MissingValueError struct {
	Key  string
	Line int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("line %d: could not find %q value", e.Line, e.Key)
}

// Result holds filter counters.
type Result struct {
	Records  int
	Passed   int
	Failed   int
	NotFound int // failed records that lacked a value
	Skipped  int // malformed lines
}

// Sink receives records.
type Sink interface {
	Write(v *vcf.Variant) error
}

// Filter checks records against thresholds in a fixed order.
type Filter struct {
	checks []Threshold
	warn   bool
	logger *zap.Logger
}

// New creates a filter from opts.
func New(opts Options) *Filter {
	return &Filter{
		checks: []Threshold{
			{Key: "QD", Op: Greater, Value: opts.QD},
			{Key: "DP", Op: Greater, Value: opts.DP},
			{Key: "FS", Op: Less, Value: opts.FS},
			{Key: "MQ", Op: Greater, Value: opts.MQ},
			{Key: "ReadPosRankSum", Op: Greater, Value: opts.ReadPosRankSum},
			{Key: "MQRankSum", Op: Greater, Value: opts.MQRankSum},
		},
		warn:   opts.Warn,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning messages.
func (f *Filter) SetLogger(l *zap.Logger) {
	f.logger = l
}

// Thresholds returns the checks in evaluation order.
func (f *Filter) Thresholds() []Threshold {
	return f.checks
}

// Check evaluates v. Checking stops at the first failing or missing
// value; key names it.
func (f *Filter) Check(v *vcf.Variant) (verdict Verdict, key string) {
	for _, th := range f.checks {
		x, ok := v.InfoFloat(th.Key)
		if !ok {
			return NotFound, th.Key
		}
		if !th.Pass(x) {
			return Fail, th.Key
		}
	}
	return Pass, ""
}

// Run filters every record of p, writing passing records to pass and
// failing ones to fail (which may be nil). A missing value aborts the run
// unless the filter is in warn mode.
func (f *Filter) Run(p vcf.VariantParser, pass, fail Sink) (*Result, error) {
	res := &Result{}

	for {
		v, err := p.Next()
		if err != nil {
			var pe *vcf.ParseError
			if !errors.As(err, &pe) {
				return nil, err
			}
			res.Skipped++
			f.logger.Warn("skipping malformed record",
				zap.Int("line", pe.Line),
				zap.String("reason", pe.Message))
			continue
		}
		if v == nil {
			return res, nil
		}
		res.Records++

		verdict, key := f.Check(v)
		if verdict == NotFound {
			if !f.warn {
				return nil, &MissingValueError{Key: key, Line: p.LineNumber()}
			}
			res.NotFound++
			f.logger.Warn("could not find value, removed variant",
				zap.String("key", key),
				zap.Int("line", p.LineNumber()),
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos))
		}

		if verdict == Pass {
			res.Passed++
			if err := pass.Write(v); err != nil {
				return nil, fmt.Errorf("write record: %w", err)
			}
			continue
		}

		res.Failed++
		if fail != nil {
			if err := fail.Write(v); err != nil {
				return nil, fmt.Errorf("write failed record: %w", err)
			}
		}
	}
}
