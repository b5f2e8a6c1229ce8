package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompile/internal/filter"
	"github.com/inodb/vcfcompile/internal/output"
	"github.com/inodb/vcfcompile/internal/vcf"
)

func newFilterCmd(a *app) *cobra.Command {
	opts := filter.DefaultOptions()
	var failedPath string

	cmd := &cobra.Command{
		Use:   "filter [flags] <vcf-file>",
		Short: "Apply GATK hard filters to SNP calls",
		Long: `Write the header and every record passing all thresholds to stdout.
Records fail when QD, DP, MQ, ReadPosRankSum or MQRankSum is at or below
its threshold, or FS is at or above it. A record missing one of these
values aborts the run unless --warn is given.`,
		Example: `  vcfcompile filter calls.vcf > passed.vcf
  vcfcompile filter --QD 5 --warn --failed failed.vcf.gz calls.vcf.gz > passed.vcf`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFilter(args[0], opts, failedPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.QD, "QD", opts.QD, "minimum QD (exclusive)")
	f.Float64Var(&opts.FS, "FS", opts.FS, "maximum FS (exclusive)")
	f.Float64Var(&opts.DP, "DP", opts.DP, "minimum DP (exclusive)")
	f.Float64Var(&opts.MQ, "MQ", opts.MQ, "minimum MQ (exclusive)")
	f.Float64Var(&opts.MQRankSum, "MQRankSum", opts.MQRankSum, "minimum MQRankSum (exclusive)")
	f.Float64Var(&opts.ReadPosRankSum, "ReadPosRankSum", opts.ReadPosRankSum, "minimum ReadPosRankSum (exclusive)")
	f.BoolVar(&opts.Warn, "warn", false, "fail records with missing values instead of aborting")
	f.StringVar(&failedPath, "failed", "", "write failing records to this file, .gz for gzip")

	return cmd
}

func (a *app) runFilter(path string, opts filter.Options, failedPath string, stdout, stderr io.Writer) error {
	if strings.HasSuffix(strings.ToLower(failedPath), ".bz2") {
		return usageError{fmt.Errorf("--failed %s: bzip2 output is not supported, use .gz", failedPath)}
	}

	p, err := vcf.NewParser(path)
	if err != nil {
		return err
	}
	defer p.Close()
	a.logger.Debug("opened vcf",
		zap.String("file", path),
		zap.Strings("samples", p.SampleNames()))

	flt := filter.New(opts)
	flt.SetLogger(a.logger)

	pass := output.NewVCFWriter(stdout, p.Header())
	if err := pass.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var fail filter.Sink
	var failedOut io.WriteCloser
	var failedWriter *output.VCFWriter
	if failedPath != "" {
		failedOut, err = output.Create(failedPath, stdout)
		if err != nil {
			return err
		}
		defer func() {
			if failedOut != nil {
				failedOut.Close()
			}
		}()

		failedWriter = output.NewVCFWriter(failedOut, p.Header())
		if err := failedWriter.WriteHeader(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		fail = failedWriter
	}

	res, err := flt.Run(p, pass, fail)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := pass.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if failedWriter != nil {
		if err := failedWriter.Flush(); err != nil {
			return fmt.Errorf("flush failed records: %w", err)
		}
		err := failedOut.Close()
		failedOut = nil
		if err != nil {
			return fmt.Errorf("close failed records: %w", err)
		}
	}

	output.WriteFilterSummary(stderr, flt.Thresholds(), res)
	return nil
}
