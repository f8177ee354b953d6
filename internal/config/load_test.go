package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "scons", viper.GetString("tool"))
	assert.Equal(t, "sqlite", viper.GetString("history.backend"))
	assert.Equal(t, ".scons-time/history.db", viper.GetString("history.path"))
	assert.Equal(t, 2112, viper.GetInt("metrics.port"))
	assert.InDelta(t, 10.0, viper.GetFloat64("bench.threshold"), 0.001)
	assert.False(t, viper.GetBool("notify.enabled"))
}

func TestLoad_ConfigFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg := filepath.Join(t.TempDir(), "scons-time.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("tool: /opt/scons/bin/scons\nhistory:\n  backend: postgres\n  dsn: postgres://timing@db/timing\n"), 0644))

	Load(cfg)

	assert.Equal(t, "/opt/scons/bin/scons", viper.GetString("tool"))
	assert.Equal(t, "postgres", viper.GetString("history.backend"))
	assert.Equal(t, "postgres://timing@db/timing", viper.GetString("history.dsn"))
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("SCONS_TIME_TOOL", "scons-dev")
	t.Setenv("SCONS_TIME_HISTORY_BACKEND", "json")

	Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "scons-dev", viper.GetString("tool"))
	assert.Equal(t, "json", viper.GetString("history.backend"))
}
