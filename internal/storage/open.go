package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/hbnb/internal/badgerdb"
	"github.com/mesh-intelligence/hbnb/internal/sqlite"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Backend file and directory names inside the data directory.
const (
	SQLiteFileName = "hbnb.db"
	BadgerDirName  = "hbnb.badger"
)

// Open validates cfg, creates the data directory, opens the configured
// persister and reloads the registry from it. The caller must Close the
// returned engine.
func Open(cfg types.Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	p, err := openPersister(cfg.Backend, dataDir, cfg.DataFile(), logger)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	engine := NewEngine(p, WithLogger(logger))
	if err := engine.Reload(); err != nil {
		p.Close()
		return nil, err
	}
	return engine, nil
}

func openPersister(backend, dataDir, fileName string, logger *slog.Logger) (types.Persister, error) {
	switch backend {
	case types.BackendSQLite:
		return sqlite.Open(filepath.Join(dataDir, SQLiteFileName))
	case types.BackendBadger:
		return badgerdb.OpenWithOptions(filepath.Join(dataDir, BadgerDirName), badgerdb.Options{
			Logger: badgerdb.NewLogger(logger),
		})
	default:
		return NewJSONFile(filepath.Join(dataDir, fileName)), nil
	}
}
