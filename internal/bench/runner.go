// Package bench runs the predicate micro-benchmarks through the Go
// test runner and tracks results across runs.
package bench

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Runner executes benchmarks for a package path.
type Runner interface {
	Run(ctx context.Context, packagePath string) ([]Result, error)
}

// GoRunner runs benchmarks via `go test -bench`.
type GoRunner struct{}

func NewGoRunner() *GoRunner {
	return &GoRunner{}
}

// benchLine matches a standard Go benchmark output line:
// BenchmarkName-8   1000000   1000 ns/op   12.5 MB/s   100 B/op   10 allocs/op
var benchLine = regexp.MustCompile(`^(Benchmark[\w/-]*?)(?:-\d+)?\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+MB/s)?(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`)

func (r *GoRunner) Run(ctx context.Context, packagePath string) ([]Result, error) {
	args := []string{"test", "-bench=.", "-benchmem", "-run=^$", packagePath}
	cmd := exec.CommandContext(ctx, "go", args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("benchmark execution failed: %w\noutput:\n%s", err, out.String())
	}
	return ParseOutput(out.String()), nil
}

// ParseOutput extracts benchmark results from go test output. Lines
// that are not benchmark results are ignored.
func ParseOutput(output string) []Result {
	var results []Result
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		m := benchLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		res := Result{Name: m[1]}
		if v, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			res.Iterations = v
		}
		if v, err := strconv.ParseFloat(m[3], 64); err == nil {
			res.NsPerOp = v
		}
		if m[4] != "" {
			if v, err := strconv.ParseFloat(m[4], 64); err == nil {
				res.MBPerSec = v
			}
		}
		if m[5] != "" {
			if v, err := strconv.ParseInt(m[5], 10, 64); err == nil {
				res.BytesPerOp = v
			}
		}
		if m[6] != "" {
			if v, err := strconv.ParseInt(m[6], 10, 64); err == nil {
				res.AllocsPerOp = v
			}
		}
		results = append(results, res)
	}
	return results
}
