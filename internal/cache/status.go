package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyOrderStatus = "order_status:%s"

var ttlStatus = 5 * time.Minute

// StatusCache is a best-effort read cache for order status lookups. Every
// operation swallows redis errors; the database stays the source of truth.
type StatusCache struct {
	rdb *redis.Client
}

func New(addr string) *StatusCache {
	return &StatusCache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *StatusCache) GetStatus(ctx context.Context, orderID string) (string, bool) {
	s, err := c.rdb.Get(ctx, fmt.Sprintf(keyOrderStatus, orderID)).Result()
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (c *StatusCache) SetStatus(ctx context.Context, orderID, status string) {
	_ = c.rdb.Set(ctx, fmt.Sprintf(keyOrderStatus, orderID), status, ttlStatus).Err()
}

func (c *StatusCache) Close() error {
	return c.rdb.Close()
}
