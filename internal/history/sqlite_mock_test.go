package history

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdbaddog/scons-time/internal/bench"
)

func TestSQLiteStore_Errors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &SQLiteStore{db: db}

	t.Run("SaveTiming insert error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO timing_runs").
			WillReturnError(errors.New("insert error"))
		mock.ExpectRollback()

		err := store.SaveTiming(TimingRun{Project: "scons", StartedAt: time.Now()})
		assert.EqualError(t, err, "insert error")
	})

	t.Run("SaveTiming measure error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO timing_runs").
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectExec("INSERT INTO timing_measures").
			WillReturnError(errors.New("measure error"))
		mock.ExpectRollback()

		err := store.SaveTiming(TimingRun{
			Project:   "scons",
			StartedAt: time.Now(),
			Measures:  []Measure{{Graph: "time-total", Name: "full", Value: 1, Units: "seconds"}},
		})
		assert.EqualError(t, err, "measure error")
	})

	t.Run("ListTimings query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, project, scenario, started_at, elapsed FROM timing_runs").
			WillReturnError(errors.New("query error"))

		_, err := store.ListTimings("scons", 10)
		assert.EqualError(t, err, "query error")
	})

	t.Run("LatestBench corrupt results", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"created_at", "commit_hash", "results"}).
			AddRow(time.Now(), "abc", "{not json")
		mock.ExpectQuery("SELECT created_at, commit_hash, results FROM bench_runs").
			WillReturnRows(rows)

		_, err := store.LatestBench()
		assert.Error(t, err)
	})

	t.Run("SaveBench exec error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO bench_runs").
			WillReturnError(errors.New("exec error"))

		err := store.SaveBench(bench.Run{Timestamp: time.Now()})
		assert.EqualError(t, err, "exec error")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
