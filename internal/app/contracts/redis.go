package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Delete(ctx context.Context, key string) error

	// TrySetNX sets the key only when absent; used for locks and dedup keys.
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
}
