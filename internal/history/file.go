package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bdbaddog/scons-time/internal/bench"
)

// FileStore keeps history as JSON files in a directory. It needs no
// setup and is the backend of choice for throwaway comparisons.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) timingsPath() string { return filepath.Join(s.dir, "timings.json") }
func (s *FileStore) benchPath() string   { return filepath.Join(s.dir, "benchmarks.json") }

func (s *FileStore) SaveTiming(run TimingRun) error {
	var runs []TimingRun
	if err := readJSON(s.timingsPath(), &runs); err != nil {
		return err
	}
	run.ID = int64(len(runs) + 1)
	runs = append(runs, run)
	return writeJSON(s.timingsPath(), runs)
}

func (s *FileStore) ListTimings(project string, limit int) ([]TimingRun, error) {
	var runs []TimingRun
	if err := readJSON(s.timingsPath(), &runs); err != nil {
		return nil, err
	}
	var matched []TimingRun
	for _, r := range runs {
		if r.Project == project {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartedAt.After(matched[j].StartedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *FileStore) SaveBench(run bench.Run) error {
	var runs []bench.Run
	if err := readJSON(s.benchPath(), &runs); err != nil {
		return err
	}
	runs = append(runs, run)
	return writeJSON(s.benchPath(), runs)
}

func (s *FileStore) LatestBench() (*bench.Run, error) {
	var runs []bench.Run
	if err := readJSON(s.benchPath(), &runs); err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return &runs[len(runs)-1], nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var _ Store = (*FileStore)(nil)
