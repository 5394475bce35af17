package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvstore"
	"github.com/jhoicas/awfacturas/internal/infrastructure/postgres"
	"github.com/jhoicas/awfacturas/pkg/config"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// storage sustrato elegido por STORAGE_DRIVER. watcher es nil si el driver no
// puede observar escrituras de otras instancias.
type storage struct {
	store   repository.KVStore
	watcher repository.ChangeWatcher
	close   func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return &storage{store: kvstore.NewMemoryStore(), close: func() {}}, nil

	case config.DriverFile:
		fs, err := kvstore.NewFileStore(cfg.Storage.Dir, log)
		if err != nil {
			return nil, err
		}
		return &storage{store: fs, watcher: fs, close: func() {}}, nil

	case config.DriverRedis:
		rs, err := kvstore.NewRedisStore(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return &storage{store: rs, watcher: rs, close: func() { _ = rs.Close() }}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		ps := postgres.NewKVStore(pool)
		if err := ps.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{store: ps, close: pool.Close}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Storage.Driver)
}
