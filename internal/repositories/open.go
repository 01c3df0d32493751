package repositories

import (
	"context"
	"fmt"

	"chatroom-service/internal/config"
	"chatroom-service/internal/db"
)

// Open builds the MessageStore selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config) (MessageStore, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite, config.BackendPostgres:
		database, err := db.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLMessageStore(database), nil
	case config.BackendRedis:
		return NewRedisMessageStore(ctx, cfg.RedisURL)
	case config.BackendMemory:
		return NewMemoryMessageStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
