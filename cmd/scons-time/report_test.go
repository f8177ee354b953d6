package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdbaddog/scons-time/internal/history"
)

func TestReportCmd_TraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.txt")
	content := "scons: Building targets ...\n" +
		"TRACE: graph=TimeSCons-elapsed name=full value=2.5 units=seconds sort=0\n" +
		"TRACE: graph=memory-final name=full value=30720 units=kbytes\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cmd := newReportCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--trace-file", path})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "TimeSCons-elapsed")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "kbytes")
}

func TestReportCmd_History(t *testing.T) {
	restoreSeams(t)

	store := &mockStore{
		timings: []history.TimingRun{
			{
				Project:        "scons",
				Scenario:       "hello",
				StartedAt:      time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
				ElapsedSeconds: 2.5,
				Measures: []history.Measure{
					{Graph: "time-scons", Name: "full", Value: 1.25, Units: "seconds"},
				},
			},
			{
				Project:   "scons",
				Scenario:  "other",
				StartedAt: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	openStoreFunc = func() (history.Store, error) { return store, nil }

	cmd := newReportCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "(full build 2.50s)")
	assert.Contains(t, out, "time-scons")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "other")
	assert.True(t, store.closed)
}

func TestReportCmd_ScenarioFilter(t *testing.T) {
	restoreSeams(t)

	store := &mockStore{
		timings: []history.TimingRun{
			{Scenario: "hello", StartedAt: time.Now()},
			{Scenario: "other", StartedAt: time.Now()},
		},
	}
	openStoreFunc = func() (history.Store, error) { return store, nil }

	cmd := newReportCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--scenario", "hello"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "other")
}

func TestReportCmd_Empty(t *testing.T) {
	restoreSeams(t)

	openStoreFunc = func() (history.Store, error) { return &mockStore{}, nil }

	cmd := newReportCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No timing runs recorded")
}
