package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vcfcompile/internal/setstats"
)

// WriteSetStats writes the caller-set table.
func WriteSetStats(w io.Writer, res *setstats.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Set\tNumCallers\tNumVars\tPctVars")
	for _, s := range res.Sets {
		fmt.Fprintf(bw, "%s\t%d\t%d\t%.2f\n", s.Name, s.Callers, s.Count, res.Percent(s))
	}
	return bw.Flush()
}

// WriteSetStatsSummary writes the set-stats counters.
func WriteSetStatsSummary(w io.Writer, res *setstats.Result) {
	successColor.Fprintf(w, "Variants in file: %d\n", res.Records)
	successColor.Fprintf(w, "Number of variants dropped due to QUAL: %d\n", res.DroppedQual)
	successColor.Fprintf(w, "Number of variants dropped due to EFF: %d\n", res.DroppedImpact)
	if res.MissingSet > 0 {
		warningColor.Fprintf(w, "Number of variants without set tag: %d\n", res.MissingSet)
	}
	if res.Skipped > 0 {
		warningColor.Fprintf(w, "Malformed lines skipped: %d\n", res.Skipped)
	}
}
