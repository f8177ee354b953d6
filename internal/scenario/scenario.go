// Package scenario drives end-to-end regression scenarios against the
// build tool: stage fixture files in a scratch directory, invoke the
// tool with fixed arguments, and match its captured output against a
// multi-line pattern.
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// execCommand is a seam for tests.
var execCommand = exec.CommandContext

// Scenario is one staged regression scenario.
type Scenario struct {
	Tool    string
	WorkDir string
	Verbose bool

	removed bool
}

// New creates a scenario with a fresh scratch working directory.
func New(tool string) (*Scenario, error) {
	dir, err := os.MkdirTemp("", "scons-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	return &Scenario{Tool: tool, WorkDir: dir}, nil
}

// Cleanup removes the scratch directory.
func (s *Scenario) Cleanup() error {
	if s.removed {
		return nil
	}
	s.removed = true
	return os.RemoveAll(s.WorkDir)
}

// Write places content at name inside the work dir.
func (s *Scenario) Write(name, content string) error {
	return s.write(name, content, 0644)
}

// WriteExecutable places an executable script at name inside the work
// dir.
func (s *Scenario) WriteExecutable(name, content string) error {
	return s.write(name, content, 0755)
}

func (s *Scenario) write(name, content string, mode os.FileMode) error {
	path := filepath.Join(s.WorkDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), mode)
}

// FileFixture copies the fixture file at src into the work dir under
// dst, preserving its mode.
func (s *Scenario) FileFixture(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", src, err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return s.write(dst, string(data), info.Mode().Perm())
}

// Path returns the absolute path of name inside the work dir.
func (s *Scenario) Path(name string) string {
	return filepath.Join(s.WorkDir, name)
}

// RunResult holds the outcome of one tool invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run invokes the tool in the work dir with the given arguments,
// blocking until it exits. A non-zero exit status is reported through
// ExitCode, not as an error.
func (s *Scenario) Run(ctx context.Context, args ...string) (*RunResult, error) {
	cmd := execCommand(ctx, s.Tool, args...)
	cmd.Dir = s.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if s.Verbose {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	slog.Debug("running scenario tool", "tool", s.Tool, "args", args, "dir", s.WorkDir)
	err := cmd.Run()
	result := &RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", s.Tool, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}

// MatchStdout matches captured stdout against pattern with MatchLines
// semantics.
func (r *RunResult) MatchStdout(pattern string) error {
	return MatchLines(r.Stdout, pattern)
}

// MatchLines matches actual output against a multi-line pattern: the
// line counts must agree and each pattern line, anchored at both ends,
// must match the corresponding actual line.
func MatchLines(actual, pattern string) error {
	actualLines := splitLines(actual)
	patternLines := splitLines(pattern)
	if len(actualLines) != len(patternLines) {
		return fmt.Errorf("expected %d lines, got %d:\n%s", len(patternLines), len(actualLines), actual)
	}
	for i, p := range patternLines {
		re, err := regexp.Compile("^" + p + "$")
		if err != nil {
			return fmt.Errorf("bad pattern line %d %q: %w", i+1, p, err)
		}
		if !re.MatchString(actualLines[i]) {
			return fmt.Errorf("line %d mismatch:\npattern: %s\nactual:  %s", i+1, p, actualLines[i])
		}
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
