package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/bdbaddog/scons-time/internal/history"
)

// openStoreFunc allows mocking the history store in tests.
var openStoreFunc = openStore

func openStore() (history.Store, error) {
	cfg := history.Config{
		Backend: viper.GetString("history.backend"),
		Path:    viper.GetString("history.path"),
		DSN:     viper.GetString("history.dsn"),
	}
	// history.path names the sqlite database file; the json backend
	// keeps its files under history.dir instead.
	if strings.EqualFold(cfg.Backend, "json") {
		cfg.Path = viper.GetString("history.dir")
	}
	return history.Open(cfg)
}
