package storage

import (
	"context"
	"fmt"

	"expense-ledger/internal/config"
)

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := NewSQLite(cfg.Path, cfg.QuotaBytes)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendMemory:
		return NewMemory(cfg.QuotaBytes), nil
	case config.BackendRedis:
		r, err := ConnectRedis(ctx, RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendMongo:
		m, err := ConnectMongo(ctx, MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
