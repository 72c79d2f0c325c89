// Package backend selects and constructs the data store from configuration.
package backend

import (
	"fmt"

	"cashflow/internal/config"
	"cashflow/internal/log"
	"cashflow/internal/storage"
	"cashflow/internal/storage/memory"
)

// Type names a store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Open builds the store named by cfg.Backend. The caller owns Close.
func Open(cfg *config.Config, logger *log.Logger) (storage.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	logger = logger.WithComponent(log.ComponentStorage)

	switch Type(cfg.Backend) {
	case SQLiteBackend:
		if cfg.SQLiteDBPath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("sqlite store ready", "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case MemoryBackend:
		// Volatile; every restart starts empty.
		logger.Info("memory store ready")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown backend type: %s", cfg.Backend)
	}
}
