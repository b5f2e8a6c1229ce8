package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompile/internal/annotate"
	"github.com/inodb/vcfcompile/internal/duckdb"
	"github.com/inodb/vcfcompile/internal/merge"
	"github.com/inodb/vcfcompile/internal/output"
)

func newCompileCmd(a *app) *cobra.Command {
	var outPath, dbPath string

	cmd := &cobra.Command{
		Use:   "compile [flags] <vcf-file>...",
		Short: "Merge VCF files into one table of per-file quality values",
		Long: `Merge the variants of one or more VCF files (plain, gzip or bzip2) into a
tab-separated table. Each unique CHROM/POS/REF/ALT gets one row, in the
order it is first seen; each input file gets one column holding its QD
value (or QUAL), or a placeholder if the file lacks the variant.`,
		Example: `  vcfcompile compile a.vcf b.vcf.gz
  vcfcompile compile --snpeff --quality qual -o table.tsv.gz *.vcf
  vcfcompile compile --duckdb compiled.duckdb a.vcf b.vcf > table.tsv`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompile(cmd.Context(), args, outPath, dbPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Bool("snpeff", false, "add a GENES column from SnpEff ANN/EFF annotations")
	f.String("quality", string(annotate.QualityAuto), "quality value: auto (QD, else QUAL), qd or qual")
	f.String("placeholder", output.DefaultPlaceholder, "value for files that lack a variant")
	f.Int("workers", 0, "files parsed concurrently (default: number of CPUs)")
	f.StringVarP(&outPath, "output", "o", "", "output file, .gz for gzip (default: stdout)")
	f.StringVar(&dbPath, "duckdb", "", "also write the table to this DuckDB database")

	for _, name := range []string{"snpeff", "quality", "placeholder", "workers"} {
		_ = a.v.BindPFlag("compile."+name, f.Lookup(name))
	}

	return cmd
}

func (a *app) runCompile(ctx context.Context, paths []string, outPath, dbPath string, stdout, stderr io.Writer) error {
	quality, err := annotate.ParseQualitySource(a.v.GetString("compile.quality"))
	if err != nil {
		return usageError{err}
	}
	workers := a.v.GetInt("compile.workers")
	if workers < 0 {
		return usageError{fmt.Errorf("--workers must not be negative, got %d", workers)}
	}

	ex := annotate.NewExtractor(quality, a.v.GetBool("compile.snpeff"))
	ex.SetLogger(a.logger)

	c := merge.NewCompiler(ex)
	c.SetWorkers(workers)
	c.SetLogger(a.logger)

	res, err := c.Compile(ctx, merge.NewInputs(paths))
	if err != nil {
		return err
	}

	// A failed export must leave no table behind.
	if dbPath != "" {
		if err := exportDuckDB(dbPath, res); err != nil {
			return err
		}
		a.logger.Info("wrote duckdb export",
			zap.String("path", dbPath),
			zap.Int("variants", res.Registry.Len()))
	}

	out, err := output.Create(outPath, stdout)
	if err != nil {
		return err
	}
	if err := output.WriteTable(out, res, a.v.GetString("compile.placeholder")); err != nil {
		out.Close()
		return fmt.Errorf("write table: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	output.WriteSummary(stderr, res.Stats())
	return nil
}

func exportDuckDB(path string, res *merge.Result) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteCompilation(res); err != nil {
		return fmt.Errorf("duckdb export: %w", err)
	}
	return nil
}
