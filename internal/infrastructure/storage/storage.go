// Package storage opens the configured backend and exposes its repositories
// behind the domain interfaces.
package storage

import (
	"context"
	"fmt"

	"inventory/internal/config"
	"inventory/internal/core/tx"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/counter"
	"inventory/internal/domain/documents"
	"inventory/internal/infrastructure/storage/memory"
	"inventory/internal/infrastructure/storage/mongodb"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/internal/infrastructure/storage/postgres/catalog_repo"
	"inventory/internal/infrastructure/storage/postgres/document_repo"
)

// Backend is an opened storage driver.
type Backend struct {
	Driver    string
	Counters  counter.Repository
	Products  product.Repository
	Documents documents.Repository
	TxManager tx.Manager

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping checks that the backend is reachable.
func (b *Backend) Ping(ctx context.Context) error { return b.ping(ctx) }

// Close releases connections.
func (b *Backend) Close(ctx context.Context) error { return b.close(ctx) }

// Open connects to the driver selected in cfg. Postgres schemas are applied
// and Mongo indexes ensured before returning.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverMemory:
		return FromMemory(memory.NewStore()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*Backend, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	txm := postgres.NewTxManager(pool)
	if err := postgres.Migrate(ctx, txm.GetQuerier(ctx)); err != nil {
		pool.Close()
		return nil, err
	}
	pool.LogStats(ctx)

	return &Backend{
		Driver:    config.DriverPostgres,
		Counters:  postgres.NewCounterRepo(txm),
		Products:  catalog_repo.NewProductRepo(txm),
		Documents: document_repo.NewDocumentRepo(txm),
		TxManager: txm,
		ping:      pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config) (*Backend, error) {
	mcfg := mongodb.DefaultConfig()
	mcfg.URI = cfg.MongoURI
	mcfg.Database = cfg.MongoDatabase

	client, err := mongodb.Connect(ctx, mcfg)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Driver:    config.DriverMongo,
		Counters:  mongodb.NewCounterRepo(client),
		Products:  mongodb.NewProductRepo(client),
		Documents: mongodb.NewDocumentRepo(client),
		TxManager: tx.Passthrough{},
		ping:      client.Ping,
		close:     client.Close,
	}, nil
}

// FromMemory wraps an in-memory store.
func FromMemory(s *memory.Store) *Backend {
	return &Backend{
		Driver:    config.DriverMemory,
		Counters:  s.Counters,
		Products:  s.Products,
		Documents: s.Documents,
		TxManager: s.TxManager,
		ping:      s.Ping,
		close:     s.Close,
	}
}
