package merge

import (
	"fmt"
	"path/filepath"
)

// Input is one VCF file and the column label it is reported under.
type Input struct {
	Path  string
	Label string
}

// NewInputs labels paths with their base names. A path whose base name is
// already taken is labeled with the path as given, so every input keeps
// its own column.
func NewInputs(paths []string) []Input {
	inputs := make([]Input, 0, len(paths))
	seen := make(map[string]bool, len(paths))

	for _, p := range paths {
		label := filepath.Base(p)
		if p == "-" {
			label = "stdin"
		}
		if seen[label] {
			label = p
		}
		for n := 2; seen[label]; n++ {
			label = fmt.Sprintf("%s#%d", p, n)
		}
		seen[label] = true
		inputs = append(inputs, Input{Path: p, Label: label})
	}

	return inputs
}

// labelsOf returns the labels of inputs, in order.
func labelsOf(inputs []Input) []string {
	labels := make([]string, len(inputs))
	for i, in := range inputs {
		labels[i] = in.Label
	}
	return labels
}
