package merge

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vcfcompile/internal/annotate"
	"github.com/inodb/vcfcompile/internal/vcf"
)

// itemBuffer bounds the records a file can parse ahead of the merge.
const itemBuffer = 1024

// OpenFunc opens a VCF file for parsing.
type OpenFunc func(path string) (vcf.VariantParser, error)

func openVCF(path string) (vcf.VariantParser, error) {
	return vcf.NewParser(path)
}

// Result is the outcome of a compile run.
type Result struct {
	Registry *Registry
	Matrix   *Matrix
	Files    []FileStats
}

// FileStats holds per-file counters.
type FileStats struct {
	Label      string
	Path       string
	Records    int // data lines parsed
	Variants   int // distinct variants
	Skipped    int // malformed lines
	Duplicates int // lines repeating a variant already seen in the same file
}

// Compiler merges VCF files into a Registry and a Matrix.
type Compiler struct {
	extractor *annotate.Extractor
	workers   int
	open      OpenFunc
	logger    *zap.Logger
}

// NewCompiler creates a compiler using e to summarize records.
func NewCompiler(e *annotate.Extractor) *Compiler {
	return &Compiler{
		extractor: e,
		open:      openVCF,
		logger:    zap.NewNop(),
	}
}

// SetWorkers sets how many files may be parsed concurrently.
// If n is 0, runtime.NumCPU() is used.
func (c *Compiler) SetWorkers(n int) {
	c.workers = n
}

// SetLogger sets the logger for warning and info messages.
func (c *Compiler) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetOpener replaces the function used to open input files.
func (c *Compiler) SetOpener(open OpenFunc) {
	c.open = open
}

// observation is one parsed and summarized record, or a malformed line.
type observation struct {
	key   Key
	id    string
	genes string
	cell  Cell
	line  int
	bad   *vcf.ParseError
}

// Compile parses all inputs and merges them in input order. Parsing of up
// to the configured number of files overlaps; merging is sequential, so
// the result does not depend on the worker count. Any error other than a
// malformed line aborts the run.
func (c *Compiler) Compile(ctx context.Context, inputs []Input) (*Result, error) {
	workers := c.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)

	streams := make([]chan observation, len(inputs))
	done := make([]chan struct{}, len(inputs))
	for i := range inputs {
		streams[i] = make(chan observation, itemBuffer)
		done[i] = make(chan struct{})
	}

	// File i starts once file i-workers has been fully consumed, so the
	// lowest unmerged file is always being parsed.
	for i, in := range inputs {
		g.Go(func() error {
			defer close(done[i])
			defer close(streams[i])
			if i >= workers {
				select {
				case <-done[i-workers]:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return c.parseFile(ctx, in, streams[i])
		})
	}

	res := &Result{
		Registry: NewRegistry(),
		Matrix:   NewMatrix(labelsOf(inputs)),
	}

	for i, in := range inputs {
		fs := c.mergeFile(res, in, streams[i])
		if ctx.Err() != nil {
			break
		}
		res.Files = append(res.Files, fs)
		c.logger.Info("processed file",
			zap.String("file", in.Path),
			zap.Int("variants", fs.Variants),
			zap.Int("skipped", fs.Skipped))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// parseFile sends the observations of one file to out.
func (c *Compiler) parseFile(ctx context.Context, in Input, out chan<- observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parser, err := c.open(in.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", in.Path, err)
	}
	defer parser.Close()

	for {
		v, err := parser.Next()

		var obs observation
		switch {
		case err != nil:
			var pe *vcf.ParseError
			if !errors.As(err, &pe) {
				return fmt.Errorf("%s: %w", in.Path, err)
			}
			obs.bad = pe
		case v == nil:
			return nil
		default:
			s := c.extractor.Extract(v)
			obs = observation{
				key:   KeyOf(v),
				id:    v.ID,
				genes: s.GenesString(),
				cell:  Cell{Quality: s.Quality, Valid: s.HasQuality},
				line:  parser.LineNumber(),
			}
		}

		select {
		case out <- obs:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// mergeFile drains one file's observations into the registry and matrix.
func (c *Compiler) mergeFile(res *Result, in Input, stream <-chan observation) FileStats {
	fs := FileStats{Label: in.Label, Path: in.Path}

	for obs := range stream {
		if obs.bad != nil {
			fs.Skipped++
			c.logger.Warn("skipping malformed record",
				zap.String("file", in.Path),
				zap.Int("line", obs.bad.Line),
				zap.String("reason", obs.bad.Message))
			continue
		}

		fs.Records++
		res.Registry.LookupOrCreate(obs.key, obs.id, obs.genes)
		if res.Matrix.Record(obs.key, in.Label, obs.cell) {
			fs.Duplicates++
			c.logger.Debug("duplicate variant in file, keeping last value",
				zap.String("file", in.Path),
				zap.Int("line", obs.line),
				zap.Stringer("variant", obs.key))
		}
	}

	fs.Variants = res.Matrix.Count(in.Label)
	return fs
}
