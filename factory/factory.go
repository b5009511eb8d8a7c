package factory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkstone-data/docmap"
	"github.com/inkstone-data/docmap/internal"
)

// NewMapperWithPool creates a Mapper backed by an existing pgx pool.
// This is the primary way for external projects to wire the mapping
// layer over PostgreSQL.
//
// Usage:
//
//	cfg := docmap.DefaultConfig()
//	mapper, err := factory.NewMapperWithPool(cfg, pool)
//	if err != nil {
//	    // handle error
//	}
func NewMapperWithPool(cfg *docmap.Config, pool *pgxpool.Pool) (*docmap.Mapper, error) {
	if cfg == nil {
		cfg = docmap.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}

	driver := internal.NewPostgresDriverWithPool(pool, cfg.Database.DocumentsTable)
	if err := driver.EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to prepare documents table: %w", err)
	}

	registry := docmap.NewRegistry(cfg)
	return docmap.NewMapper(registry, driver), nil
}

// NewMapperWithURL creates a Mapper that dials PostgreSQL with the
// config's connection URL on first use.
func NewMapperWithURL(cfg *docmap.Config) (*docmap.Mapper, error) {
	if cfg == nil {
		cfg = docmap.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := docmap.NewRegistry(cfg)
	driver := internal.NewPostgresDriver(cfg.Database.DocumentsTable)
	return docmap.NewMapper(registry, driver), nil
}

// NewMemoryMapper creates a Mapper over the in-memory driver, useful for
// tests and local experimentation.
func NewMemoryMapper(cfg *docmap.Config) (*docmap.Mapper, error) {
	if cfg == nil {
		cfg = docmap.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := docmap.NewRegistry(cfg)
	return docmap.NewMapper(registry, internal.NewMemoryDriver()), nil
}
