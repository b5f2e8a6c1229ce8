package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/inodb/vcfcompile/internal/filter"
	"github.com/inodb/vcfcompile/internal/merge"
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
)

// WriteSummary writes the compile statistics in human-readable form.
func WriteSummary(w io.Writer, st merge.Stats) {
	for _, f := range st.Files {
		successColor.Fprintf(w, "%s: %d variants found\n", f.Label, f.Variants)
		if f.Skipped > 0 {
			warningColor.Fprintf(w, "%s: %d malformed lines skipped\n", f.Label, f.Skipped)
		}
		if f.Duplicates > 0 {
			warningColor.Fprintf(w, "%s: %d duplicate lines, last value kept\n", f.Label, f.Duplicates)
		}
	}
	successColor.Fprintf(w, "Number of unique variants: %d\n", st.Total)
	successColor.Fprintf(w, "Number of variants in all %d files: %d\n", len(st.Files), st.Shared)
}

// WriteFilterSummary writes the thresholds applied and the hard-filter
// counters.
func WriteFilterSummary(w io.Writer, thresholds []filter.Threshold, res *filter.Result) {
	names := make([]string, len(thresholds))
	for i, th := range thresholds {
		names[i] = th.String()
	}
	fmt.Fprintf(w, "Filters: %s\n", strings.Join(names, ", "))
	successColor.Fprintf(w, "Variants in file: %d\n", res.Records)
	successColor.Fprintf(w, "Variants passed all filters: %d\n", res.Passed)
	successColor.Fprintf(w, "Variants failed at least one filter: %d\n", res.Failed)
	successColor.Fprintf(w, "  Of those at least one value could not be found for: %d\n", res.NotFound)
	if res.Skipped > 0 {
		warningColor.Fprintf(w, "Malformed lines skipped: %d\n", res.Skipped)
	}
}
