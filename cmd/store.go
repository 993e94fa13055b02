package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/urban-insight/insight-api/internal/config"
	"github.com/urban-insight/insight-api/internal/db"
	"github.com/urban-insight/insight-api/internal/urban"
)

// openStore builds the configured store backend.
func openStore(ctx context.Context, cfg config.StoreConfig) (urban.Store, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return urban.NewPostgres(pool), nil
	case "sqlite":
		store, err := urban.NewSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Driver)
	}
}
