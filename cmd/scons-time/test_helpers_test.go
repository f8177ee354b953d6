package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bdbaddog/scons-time/internal/bench"
	"github.com/bdbaddog/scons-time/internal/harness"
	"github.com/bdbaddog/scons-time/internal/history"
)

type mockStore struct {
	timings []history.TimingRun
	benches []bench.Run
	latest  *bench.Run
	listErr error
	saveErr error
	closed  bool
}

func (m *mockStore) SaveTiming(run history.TimingRun) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.timings = append(m.timings, run)
	return nil
}

func (m *mockStore) ListTimings(project string, limit int) ([]history.TimingRun, error) {
	return m.timings, m.listErr
}

func (m *mockStore) SaveBench(run bench.Run) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.benches = append(m.benches, run)
	return nil
}

func (m *mockStore) LatestBench() (*bench.Run, error) {
	return m.latest, nil
}

func (m *mockStore) Close() error {
	m.closed = true
	return nil
}

type mockHarness struct {
	cfg    harness.Config
	out    io.Writer
	output string
	err    error
	calls  *int
}

func (m *mockHarness) Main(ctx context.Context) error {
	if m.calls != nil {
		*m.calls++
	}
	if m.output != "" {
		fmt.Fprint(m.out, m.output)
	}
	return m.err
}
