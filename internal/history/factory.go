package history

import (
	"fmt"
	"strings"
)

// Config selects and configures a storage backend.
type Config struct {
	Backend string // "json", "sqlite" or "postgres"
	Path    string // file or database path for json/sqlite
	DSN     string // connection string for postgres
}

// Open creates a Store from the configuration. An empty backend
// defaults to SQLite.
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires history.dsn")
		}
		return NewPostgresStore(cfg.DSN)
	case "json":
		path := cfg.Path
		if path == "" {
			path = ".scons-time"
		}
		return NewFileStore(path)
	case "sqlite", "sqlite3", "":
		path := cfg.Path
		if path == "" {
			path = ".scons-time/history.db"
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.Backend)
	}
}
