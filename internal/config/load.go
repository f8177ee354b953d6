package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes configuration from the config file and environment.
// Settings resolve in the usual viper order: flags bound by the CLI,
// then SCONS_TIME_* environment variables, then the config file, then
// the defaults below.
func Load(cfgFile string) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("scons-time")
	}

	viper.SetEnvPrefix("SCONS_TIME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("tool", "scons")
	viper.SetDefault("subdir", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("project", "scons")

	// History storage. Backend "json" needs no setup; "sqlite" keeps a
	// local database; "postgres" points at a shared team instance.
	viper.SetDefault("history.backend", "sqlite")
	viper.SetDefault("history.path", ".scons-time/history.db")
	// The json backend stores files under a directory of its own, so a
	// leftover sqlite path never becomes a directory name.
	viper.SetDefault("history.dir", ".scons-time")
	viper.SetDefault("history.bench_file", ".scons-time/benchmarks.json")
	viper.SetDefault("history.dsn", "")

	viper.SetDefault("metrics.port", 2112)

	viper.SetDefault("bench.threshold", 10.0)

	notifyEnabled := os.Getenv("SCONS_TIME_WEBHOOK_URL") != ""
	viper.SetDefault("notify.enabled", notifyEnabled)
	viper.SetDefault("notify.webhook_url", os.Getenv("SCONS_TIME_WEBHOOK_URL"))
	viper.SetDefault("notify.on_regression", true)
	viper.SetDefault("notify.on_failure", true)
}
