package bench

import "fmt"

// Comparison is the delta between two results for the same benchmark.
// Diffs are percentage changes; negative means faster or smaller.
type Comparison struct {
	Name            string
	NsPerOpDiff     float64
	BytesPerOpDiff  float64
	AllocsPerOpDiff float64
	Prev            Result
	Curr            Result
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%% ns/op", c.Name, c.NsPerOpDiff)
}

// Regressed reports whether the comparison slowed down past threshold
// (a percentage).
func (c Comparison) Regressed(threshold float64) bool {
	return c.NsPerOpDiff > threshold
}

// Compare pairs up benchmarks present in both runs and computes their
// deltas. Benchmarks appearing in only one run are omitted.
func Compare(prev, curr Run) []Comparison {
	prevByName := make(map[string]Result, len(prev.Results))
	for _, r := range prev.Results {
		prevByName[r.Name] = r
	}

	var comparisons []Comparison
	for _, c := range curr.Results {
		p, ok := prevByName[c.Name]
		if !ok {
			continue
		}
		comp := Comparison{Name: c.Name, Prev: p, Curr: c}
		if p.NsPerOp > 0 {
			comp.NsPerOpDiff = (c.NsPerOp - p.NsPerOp) / p.NsPerOp * 100
		}
		if p.BytesPerOp > 0 {
			comp.BytesPerOpDiff = float64(c.BytesPerOp-p.BytesPerOp) / float64(p.BytesPerOp) * 100
		}
		if p.AllocsPerOp > 0 {
			comp.AllocsPerOpDiff = float64(c.AllocsPerOp-p.AllocsPerOp) / float64(p.AllocsPerOp) * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}
