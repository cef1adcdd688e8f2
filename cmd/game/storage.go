package main

import (
	"Automancy/internal/game/app/port"
	"Automancy/internal/game/infra/persistence/codec"
	"Automancy/internal/game/infra/persistence/file"
	"Automancy/internal/game/infra/persistence/indexdb"
	"Automancy/internal/game/infra/persistence/memory"
	"Automancy/internal/game/infra/persistence/mongodb"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/infrastructure/mongo"
	"Automancy/internal/shared/serverconfig"
	"Automancy/modules/kit/logx"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// openRepository builds the map store named by cfg.Driver. The returned
// close func is always safe to call.
func openRepository(ctx context.Context, cfg serverconfig.StorageConfig, reg *resource.Registry, l logx.Logger) (port.MapRepository, func(), error) {
	c := codec.New(reg)
	switch cfg.Driver {
	case "file":
		if err := os.MkdirAll(cfg.MapDir, 0o755); err != nil {
			return nil, func() {}, err
		}
		opts := []file.Option{file.WithLogger(l)}
		closeFn := func() {}
		if cfg.IndexDB != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.IndexDB), 0o755); err != nil {
				return nil, closeFn, err
			}
			idx, err := indexdb.OpenSQLite(cfg.IndexDB)
			if err != nil {
				return nil, closeFn, fmt.Errorf("open map index: %w", err)
			}
			opts = append(opts, file.WithIndex(idx))
			closeFn = func() {
				if err := idx.Close(); err != nil {
					l.Warn("close map index", zap.Error(err))
				}
			}
		}
		return file.NewMapRepository(cfg.MapDir, c, opts...), closeFn, nil
	case "memory":
		return memory.NewMapRepository(c), func() {}, nil
	case "mongodb":
		client, db, err := mongo.Open(ctx, cfg.MongoDB, l)
		if err != nil {
			return nil, func() {}, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				l.Warn("mongodb disconnect", zap.Error(err))
			}
		}
		return mongodb.NewMapRepository(db, c, l), closeFn, nil
	}
	return nil, func() {}, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
