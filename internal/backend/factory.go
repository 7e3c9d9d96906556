// Package backend selects and constructs the storage implementation.
package backend

import (
	"fmt"
	"log/slog"

	"gastos/internal/store"
	"gastos/internal/store/jsonfile"
	"gastos/internal/store/sqlite"
)

// Type identifies a storage backend.
type Type string

const (
	// JSONBackend keeps the whole ledger in one flat JSON document.
	JSONBackend Type = "json"
	// SQLiteBackend keeps records in a local SQLite database.
	SQLiteBackend Type = "sqlite"
)

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what backend construction needs.
type Config struct {
	Type       Type
	JSONPath   string
	SQLitePath string
}

// Result carries the constructed store plus its cleanup, nil when the
// backend holds no resources worth releasing.
type Result struct {
	Store   store.Store
	Cleanup func() error
}

// New builds the configured backend.
func New(cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case JSONBackend:
		s := jsonfile.New(cfg.JSONPath)
		logger.Info("Initialized JSON document backend", "path", cfg.JSONPath)
		return &Result{Store: s}, nil
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLitePath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
