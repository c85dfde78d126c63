// Package storage creates chunk store adapters from settings.
package storage

import (
	"fmt"

	"github.com/corpora-labs/confcrawl/internal/adapters/driven/storage/memory"
	"github.com/corpora-labs/confcrawl/internal/adapters/driven/storage/postgres"
	"github.com/corpora-labs/confcrawl/internal/adapters/driven/storage/sqlite"
	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
)

// NewChunkStore creates the chunk store selected by settings. The
// sqlite backend defaults its database file location when Path is
// empty; postgres requires a DSN.
func NewChunkStore(settings domain.StorageSettings) (driven.ChunkStore, error) {
	switch settings.Backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.StoragePostgres:
		if settings.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required: %w", domain.ErrInvalidInput)
		}
		store, err := postgres.NewStore(settings.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.StorageMemory:
		return memory.NewChunkStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", settings.Backend)
	}
}
