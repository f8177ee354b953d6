package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bdbaddog/scons-time/internal/harness"
	"github.com/bdbaddog/scons-time/internal/history"
	"github.com/bdbaddog/scons-time/internal/notify"
	"github.com/bdbaddog/scons-time/internal/timeconf"
	"github.com/bdbaddog/scons-time/internal/trace"
)

// timingHarness is the part of the harness the commands drive.
type timingHarness interface {
	Main(ctx context.Context) error
}

// newHarnessFunc allows mocking the harness in tests.
var newHarnessFunc = func(cfg harness.Config, out io.Writer) timingHarness {
	return harness.New(cfg, out)
}

type runOptions struct {
	file     string
	scenario string
	dir      string
	env      []string
	save     bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a timing session and emit TRACE measurements",
		Long: `Runs a standard timing session: system load averages, a --help startup
probe, a full build, and a null build of the up-to-date tree. Tool output
and TRACE lines are written to stdout. With --save, the parsed
measurements are also recorded in the history store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, cleanup, err := loadHarnessConfig(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			startedAt := time.Now()
			var traces bytes.Buffer
			h := newHarnessFunc(cfg, io.MultiWriter(cmd.OutOrStdout(), &traces))
			if err := h.Main(cmd.Context()); err != nil {
				notifier := notify.NewManager()
				_ = notifier.Send(cmd.Context(), notify.EventFailure,
					fmt.Sprintf("scons-time run failed for scenario %q: %v", name, err))
				return err
			}

			if !opts.save {
				return nil
			}
			return saveTimingRun(cmd, name, startedAt, &traces)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "HCL scenario file")
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario name within the file")
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "directory to run the build tool in")
	cmd.Flags().StringArrayVar(&opts.env, "env", nil, "extra NAME=value environment for the tool")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record measurements in the history store")

	return cmd
}

// loadHarnessConfig resolves flags and the optional scenario file into a
// harness configuration. The returned cleanup removes any staged
// fixture copy and is safe to call unconditionally.
func loadHarnessConfig(opts runOptions) (harness.Config, string, func(), error) {
	cleanup := func() {}

	if opts.file == "" {
		cfg := harness.Config{
			Tool: viper.GetString("tool"),
			Dir:  opts.dir,
			Env:  opts.env,
		}
		return cfg, "default", cleanup, nil
	}

	f, err := timeconf.Load(opts.file)
	if err != nil {
		return harness.Config{}, "", cleanup, err
	}
	s, err := f.Scenario(opts.scenario)
	if err != nil {
		return harness.Config{}, "", cleanup, err
	}

	dir := opts.dir
	if s.Fixture != "" {
		src := s.Fixture
		if !filepath.IsAbs(src) {
			src = filepath.Join(filepath.Dir(opts.file), src)
		}
		staged, err := os.MkdirTemp("", "scons-time-")
		if err != nil {
			return harness.Config{}, "", cleanup, err
		}
		cleanup = func() { os.RemoveAll(staged) }
		if err := harness.CopyConfiguration(src, staged); err != nil {
			cleanup()
			return harness.Config{}, "", func() {}, fmt.Errorf("stage fixture %s: %w", src, err)
		}
		dir = staged
	}

	cfg, err := s.HarnessConfig(dir, viper.GetString("tool"))
	if err != nil {
		cleanup()
		return harness.Config{}, "", func() {}, err
	}
	cfg.Env = append(cfg.Env, opts.env...)
	return cfg, s.Name, cleanup, nil
}

func saveTimingRun(cmd *cobra.Command, scenario string, startedAt time.Time, traces io.Reader) error {
	records, err := trace.Parse(traces)
	if err != nil {
		return err
	}
	var elapsed float64
	measures := make([]history.Measure, 0, len(records))
	for _, r := range records {
		v, err := r.Float()
		if err != nil {
			continue
		}
		if r.Graph == "TimeSCons-elapsed" && r.Name == "full" {
			elapsed = v
		}
		measures = append(measures, history.Measure{
			Graph: r.Graph,
			Name:  r.Name,
			Value: v,
			Units: r.Units,
		})
	}

	store, err := openStoreFunc()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	run := history.TimingRun{
		Project:        viper.GetString("project"),
		Scenario:       scenario,
		StartedAt:      startedAt,
		ElapsedSeconds: elapsed,
		Measures:       measures,
	}
	if err := store.SaveTiming(run); err != nil {
		return fmt.Errorf("save timing run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d measurements for scenario %q\n", len(measures), scenario)
	return nil
}
