package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"NexStock/internal/config"
	"NexStock/internal/inventory"
)

// openStore builds the store named by STORE_DRIVER. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (inventory.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreFile:
		log.Info("using file store", zap.String("path", cfg.Store.Path))
		return inventory.NewFileStore(cfg.Store.Path, log), func() {}, nil

	case config.StorePostgres:
		if cfg.Store.PostgresURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		s, err := inventory.NewPostgresStore(ctx, cfg.Store.PostgresURL, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres store")
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
