// Package history persists timing and benchmark runs so later runs can
// be compared against them. Three backends: a JSON file store needing
// no setup, a local SQLite database, and Postgres for history shared
// across a team.
package history

import (
	"time"

	"github.com/bdbaddog/scons-time/internal/bench"
)

// Measure is one persisted trace measurement.
type Measure struct {
	Graph string  `json:"graph"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Units string  `json:"units"`
}

// TimingRun is one recorded timing session. ElapsedSeconds is the
// wall-clock time of the session's full build.
type TimingRun struct {
	ID             int64     `json:"id,omitempty"`
	Project        string    `json:"project"`
	Scenario       string    `json:"scenario"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds,omitempty"`
	Measures       []Measure `json:"measures"`
}

// Store is the persistence interface for timing and benchmark history.
type Store interface {
	SaveTiming(run TimingRun) error
	// ListTimings returns the most recent runs for a project, newest
	// first, at most limit.
	ListTimings(project string, limit int) ([]TimingRun, error)

	SaveBench(run bench.Run) error
	LatestBench() (*bench.Run, error)

	Close() error
}
