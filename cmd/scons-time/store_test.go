package main

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdbaddog/scons-time/internal/history"
)

func TestOpenStore_JSONBackendUsesOwnDir(t *testing.T) {
	// t.Chdir requires Go 1.24; do the equivalent by hand.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(viper.Reset)

	viper.Set("history.backend", "json")
	// The sqlite default must not leak into the json backend as a
	// directory name.
	viper.Set("history.path", ".scons-time/history.db")
	viper.Set("history.dir", "jsonhist")

	store, err := openStore()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveTiming(history.TimingRun{Project: "scons", StartedAt: time.Now()}))

	assert.FileExists(t, "jsonhist/timings.json")
	assert.NoDirExists(t, ".scons-time/history.db")
}

func TestOpenStore_SQLiteUsesPath(t *testing.T) {
	// t.Chdir requires Go 1.24; do the equivalent by hand.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(viper.Reset)

	viper.Set("history.backend", "sqlite")
	viper.Set("history.path", "hist/h.db")

	store, err := openStore()
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, "hist/h.db")
}
