package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompile/internal/output"
	"github.com/inodb/vcfcompile/internal/setstats"
	"github.com/inodb/vcfcompile/internal/vcf"
)

func newSetStatsCmd(a *app) *cobra.Command {
	var opts setstats.Options

	cmd := &cobra.Command{
		Use:   "setstats [flags] <vcf-file>",
		Short: "Tabulate caller sets of a combined VCF",
		Long: `Count how many variants each combination of callers reported, using the
set= INFO tag written by GATK CombineVariants.`,
		Example: `  vcfcompile setstats combined.vcf
  vcfcompile setstats --qual 30 --snpeff-type HIGH combined.vcf.gz`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Impact = strings.ToUpper(opts.Impact)
			return a.runSetStats(args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.MinQual, "qual", 0, "drop variants with QUAL below this value")
	f.StringVar(&opts.Impact, "snpeff-type", "", "keep only variants with this SnpEff impact: HIGH, MODERATE, LOW or MODIFIER")

	return cmd
}

func (a *app) runSetStats(path string, opts setstats.Options, stdout, stderr io.Writer) error {
	t, err := setstats.New(opts)
	if err != nil {
		return usageError{err}
	}
	t.SetLogger(a.logger)

	p, err := vcf.NewParser(path)
	if err != nil {
		return err
	}
	defer p.Close()
	a.logger.Debug("opened vcf",
		zap.String("file", path),
		zap.Strings("samples", p.SampleNames()))

	res, err := t.Tabulate(p)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := output.WriteSetStats(stdout, res); err != nil {
		return fmt.Errorf("write set stats: %w", err)
	}
	output.WriteSetStatsSummary(stderr, res)
	return nil
}
