package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bdbaddog/scons-time/internal/history"
	"github.com/bdbaddog/scons-time/internal/trace"
)

var reportHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

type reportOptions struct {
	limit     int
	traceFile string
	scenario  string
}

func newReportCmd() *cobra.Command {
	opts := reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show recorded timing measurements",
		Long: `Prints the measurements of recent timing runs from the history store,
newest first. With --trace-file, parses a file of TRACE lines instead
and reports its measurements without touching the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.traceFile != "" {
				return reportTraceFile(cmd, opts.traceFile)
			}
			return reportHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 10, "number of runs to show")
	cmd.Flags().StringVar(&opts.traceFile, "trace-file", "", "report a file of TRACE lines instead of stored history")
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "only show runs for this scenario")

	return cmd
}

func reportTraceFile(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := trace.Parse(f)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trace lines found.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), reportHeaderStyle.Render(path))
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRAPH\tNAME\tVALUE\tUNITS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Graph, r.Name, r.Value, r.Units)
	}
	return w.Flush()
}

func reportHistory(cmd *cobra.Command, opts reportOptions) error {
	store, err := openStoreFunc()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	project := viper.GetString("project")
	runs, err := store.ListTimings(project, opts.limit)
	if err != nil {
		return fmt.Errorf("list timing runs: %w", err)
	}
	runs = filterScenario(runs, opts.scenario)
	if len(runs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No timing runs recorded for project %q.\n", project)
		return nil
	}

	for _, run := range runs {
		header := fmt.Sprintf("%s / %s  %s", run.Project, run.Scenario, run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.ElapsedSeconds > 0 {
			header += fmt.Sprintf("  (full build %.2fs)", run.ElapsedSeconds)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reportHeaderStyle.Render(header))
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "GRAPH\tNAME\tVALUE\tUNITS")
		for _, m := range run.Measures {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Graph, m.Name, trace.FormatValue(m.Value), m.Units)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func filterScenario(runs []history.TimingRun, scenario string) []history.TimingRun {
	if scenario == "" {
		return runs
	}
	filtered := runs[:0]
	for _, r := range runs {
		if r.Scenario == scenario {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
