// Package harness drives timed invocations of the SCons build tool and
// reports the measurements as trace lines. A standard timing session is
// three runs: a --help startup probe, a full build, and a null build of
// an up-to-date tree.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/bdbaddog/scons-time/internal/stat"
	"github.com/bdbaddog/scons-time/internal/trace"
)

// execCommand is a seam for tests.
var execCommand = exec.CommandContext

// Variable is one timing-configuration variable. Value is an int64,
// float64, or string after coercion.
type Variable struct {
	Name  string
	Value any
}

// Config describes a timing session.
type Config struct {
	Tool          string   // build tool executable
	Arguments     []string // build targets
	Options       []string // extra tool options
	Variables     []Variable
	CalibrateVars []string // defaults to the numeric variables
	Dir           string   // working directory for tool invocations
	Env           []string // extra environment, NAME=value
	Calibrate     bool
}

// CoerceVariables applies the environment-first coercion rules: a set
// environment variable overrides the configured default, values are
// coerced int, then float, then left as strings. The returned names are
// the numeric variables, which calibrate by default.
func CoerceVariables(vars []Variable) ([]Variable, []string) {
	out := make([]Variable, 0, len(vars))
	var numeric []string
	for _, v := range vars {
		raw := fmt.Sprint(v.Value)
		if env := os.Getenv(v.Name); env != "" {
			raw = env
		}
		coerced := Variable{Name: v.Name}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			coerced.Value = n
			numeric = append(numeric, v.Name)
		} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
			coerced.Value = f
			numeric = append(numeric, v.Name)
		} else {
			coerced.Value = raw
		}
		out = append(out, coerced)
	}
	return out, numeric
}

// Harness runs one timing session.
type Harness struct {
	cfg    Config
	out    io.Writer
	tracer *trace.Writer

	startTime time.Time
	endTime   time.Time
}

// New builds a Harness. Tool output and trace lines both go to out.
func New(cfg Config, out io.Writer) *Harness {
	vars, numeric := CoerceVariables(cfg.Variables)
	cfg.Variables = vars
	if cfg.CalibrateVars == nil {
		cfg.CalibrateVars = numeric
	}
	return &Harness{
		cfg:    cfg,
		out:    out,
		tracer: trace.NewWriter(out),
	}
}

// Main is the standard entry point: calibration when requested, else
// load averages followed by the startup, full, and null runs.
func (h *Harness) Main(ctx context.Context) error {
	if h.cfg.Calibrate || calibrateEnv() {
		return h.Calibration(ctx)
	}
	h.tracer.Uptime()
	if err := h.Startup(ctx); err != nil {
		return err
	}
	if err := h.Full(ctx); err != nil {
		return err
	}
	return h.Null(ctx)
}

func calibrateEnv() bool {
	v := os.Getenv("TIMESCONS_CALIBRATE")
	return v != "" && v != "0"
}

// Startup runs the tool with --help to isolate configuration-reading
// time. A failing help run is tolerated: whatever output it produced is
// still scraped, we just cannot insist on statistics from it.
func (h *Harness) Startup(ctx context.Context) error {
	output, err := h.run(ctx, nil, "--help", "--debug=memory,time")
	if err != nil {
		slog.Debug("help run exited non-zero, continuing", "tool", h.cfg.Tool, "error", err)
	}
	fmt.Fprint(h.out, output)
	values, err := stat.Collect(output)
	if err != nil {
		return err
	}
	// No commands ever execute on a help run; drop the always-zero stat.
	values = stat.Delete(values, "time-commands")
	h.reportTraces("startup", values)
	return nil
}

// Full runs a full build of all targets.
func (h *Harness) Full(ctx context.Context) error {
	output, err := h.run(ctx, h.cfg.Arguments, "--debug=memory,time")
	if err != nil {
		return fmt.Errorf("full build: %w", err)
	}
	fmt.Fprint(h.out, output)
	values, err := stat.Collect(output)
	if err != nil {
		return err
	}
	h.reportTraces("full", values)
	return h.memoryTraces("full-memory", values)
}

// Null runs a build of the up-to-date tree. time-commands should be
// exactly zero; when it is, it is dropped from the traces, and when it
// is not, it is traced so a supposedly-null build that does work shows
// up in the graphs.
func (h *Harness) Null(ctx context.Context) error {
	output, err := h.run(ctx, []string{"."}, "--debug=memory,time")
	if err != nil {
		return fmt.Errorf("null build: %w", err)
	}
	fmt.Fprint(h.out, output)
	values, err := stat.Collect(output)
	if err != nil {
		return err
	}
	if tc, ok := stat.Find(values, "time-commands"); ok && tc.Value == 0 {
		values = stat.Delete(values, "time-commands")
	}
	h.reportTraces("null", values)
	return h.memoryTraces("null-memory", values)
}

// Calibration runs a full build and reports only the calibration
// variables and the elapsed time, without statistics collection.
func (h *Harness) Calibration(ctx context.Context) error {
	if _, err := h.run(ctx, h.cfg.Arguments, "--debug=memory,time"); err != nil {
		return fmt.Errorf("calibration build: %w", err)
	}
	calibrate := make(map[string]bool, len(h.cfg.CalibrateVars))
	for _, name := range h.cfg.CalibrateVars {
		calibrate[name] = true
	}
	for _, v := range h.cfg.Variables {
		if calibrate[v.Name] {
			fmt.Fprintf(h.out, "VARIABLE: %s=%s\n", v.Name, trace.FormatValue(v.Value))
		}
	}
	fmt.Fprintf(h.out, "ELAPSED: %s\n", trace.FormatValue(h.ElapsedTime()))
	return nil
}

// ElapsedTime returns the wall-clock seconds of the most recent tool
// invocation.
func (h *Harness) ElapsedTime() float64 {
	return h.endTime.Sub(h.startTime).Seconds()
}

// reportTraces emits the elapsed-time trace for the run followed by one
// trace per collected statistic, graphed by statistic name.
func (h *Harness) reportTraces(label string, values []stat.Value) {
	_ = h.tracer.EmitSorted("TimeSCons-elapsed", label, h.ElapsedTime(), "seconds", 0)
	for _, v := range values {
		_ = h.tracer.Emit(v.Name, label, v.Value, v.Units)
	}
}

// memoryTraces groups the three memory statistics under one graph so
// initial/prebuild/final plot together per run.
func (h *Harness) memoryTraces(graph string, values []stat.Value) error {
	for _, point := range []struct{ name, statName string }{
		{"initial", "memory-initial"},
		{"prebuild", "memory-prebuild"},
		{"final", "memory-final"},
	} {
		v, ok := stat.Find(values, point.statName)
		if !ok {
			return fmt.Errorf("%s: stat %s missing from tool output", graph, point.statName)
		}
		if err := h.tracer.Emit(graph, point.name, v.Value, v.Units); err != nil {
			return err
		}
	}
	return nil
}

// run executes one blocking tool invocation, timestamping immediately
// before and after so ElapsedTime reflects only the subprocess.
func (h *Harness) run(ctx context.Context, arguments []string, extra ...string) (string, error) {
	args := make([]string, 0, len(h.cfg.Options)+len(h.cfg.Variables)+len(extra)+len(arguments))
	args = append(args, h.cfg.Options...)
	for _, v := range h.cfg.Variables {
		args = append(args, fmt.Sprintf("%s=%s", v.Name, trace.FormatValue(v.Value)))
	}
	args = append(args, extra...)
	args = append(args, arguments...)

	cmd := execCommand(ctx, h.cfg.Tool, args...)
	cmd.Dir = h.cfg.Dir
	if len(h.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), h.cfg.Env...)
	}
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	slog.Debug("running build tool", "tool", h.cfg.Tool, "args", args)
	h.startTime = time.Now()
	err := cmd.Run()
	h.endTime = time.Now()
	return buf.String(), err
}
