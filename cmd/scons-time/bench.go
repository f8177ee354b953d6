package main

import (
	"fmt"
	"os/exec"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bdbaddog/scons-time/internal/bench"
	"github.com/bdbaddog/scons-time/internal/notify"
)

// newRunnerFunc allows mocking the benchmark runner in tests.
var newRunnerFunc = func() bench.Runner { return bench.NewGoRunner() }

// benchExecCommand allows mocking the git lookup in tests.
var benchExecCommand = exec.Command

var regressionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

type benchOptions struct {
	save      bool
	compare   bool
	threshold float64
}

func newBenchCmd() *cobra.Command {
	opts := benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench [package]",
		Short: "Run the type-predicate benchmarks and track them over time",
		Long: `Executes 'go test -bench' for the given package (defaulting to the
type-predicate benchmarks) and parses the output. Results can be saved
to the history store and compared against the previous saved run to
detect performance regressions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := "./internal/kind/..."
			if len(args) > 0 {
				pkg = args[0]
			}
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = viper.GetFloat64("bench.threshold")
			}
			return runBench(cmd, pkg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.save, "save", false, "save results to the history store")
	cmd.Flags().BoolVar(&opts.compare, "compare", true, "compare with the previous saved run")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 10.0, "ns/op regression threshold in percent")

	return cmd
}

func runBench(cmd *cobra.Command, pkg string, opts benchOptions) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Running benchmarks for %s\n", pkg)

	results, err := newRunnerFunc().Run(cmd.Context(), pkg)
	if err != nil {
		return fmt.Errorf("benchmark run failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No benchmarks found.")
		return nil
	}
	printBenchResults(cmd, results)

	curr := bench.Run{Timestamp: time.Now(), Results: results}
	if commit, err := gitCommit(); err == nil {
		curr.Commit = commit
	}

	if !opts.save && !opts.compare {
		return nil
	}
	store, err := openStoreFunc()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	regressed := 0
	if opts.compare {
		prev, err := store.LatestBench()
		if err != nil {
			return fmt.Errorf("load previous run: %w", err)
		}
		if prev != nil {
			regressed, err = printBenchComparison(cmd, *prev, curr, opts.threshold)
			if err != nil {
				return err
			}
		}
	}

	if opts.save {
		if err := store.SaveBench(curr); err != nil {
			return fmt.Errorf("save benchmark run: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nResults saved.")
	}

	// Non-zero exit so CI gating on status sees the regression.
	if regressed > 0 {
		return fmt.Errorf("%d benchmark regression(s) past %.1f%% threshold", regressed, opts.threshold)
	}
	return nil
}

func printBenchResults(cmd *cobra.Command, results []bench.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BENCHMARK\tITERATIONS\tNS/OP\tB/OP\tALLOCS/OP")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%d\n", r.Name, r.Iterations, r.NsPerOp, r.BytesPerOp, r.AllocsPerOp)
	}
	w.Flush()
}

// printBenchComparison renders the comparison table and returns how
// many benchmarks regressed past threshold.
func printBenchComparison(cmd *cobra.Command, prev, curr bench.Run, threshold float64) (int, error) {
	comparisons := bench.Compare(prev, curr)
	if len(comparisons) == 0 {
		return 0, nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nComparing against run from %s:\n", prev.Timestamp.Format("2006-01-02 15:04"))
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BENCHMARK\tPREV NS/OP\tCURR NS/OP\tDELTA")
	var regressed []bench.Comparison
	for _, c := range comparisons {
		delta := fmt.Sprintf("%+.2f%%", c.NsPerOpDiff)
		if c.Regressed(threshold) {
			delta = regressionStyle.Render(delta)
			regressed = append(regressed, c)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", c.Name, c.Prev.NsPerOp, c.Curr.NsPerOp, delta)
	}
	w.Flush()

	if len(regressed) == 0 {
		return 0, nil
	}
	var lines []string
	for _, c := range regressed {
		lines = append(lines, c.String())
	}
	msg := fmt.Sprintf("%d benchmark regression(s) past %.1f%%:\n%s",
		len(regressed), threshold, strings.Join(lines, "\n"))
	fmt.Fprintln(cmd.OutOrStdout(), regressionStyle.Render(fmt.Sprintf("\nWARNING: %d regression(s) detected", len(regressed))))

	notifier := notify.NewManager()
	if err := notifier.Send(cmd.Context(), notify.EventRegression, msg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: notification failed: %v\n", err)
	}
	return len(regressed), nil
}

func gitCommit() (string, error) {
	out, err := benchExecCommand("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
