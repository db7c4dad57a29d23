package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewStore builds the store named by storeType ("memory" or "redis"). A
// redis store is pinged before it is returned.
func NewStore(ctx context.Context, storeType string, ttl time.Duration, opts RedisOptions) (Store, error) {
	switch storeType {
	case "", "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", opts.Addr, err)
		}
		return NewRedisStore(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", storeType)
	}
}
