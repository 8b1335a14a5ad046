package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venuedesk/tableops/config"
	"github.com/venuedesk/tableops/internal/domain"
)

type RedisCache struct {
	client       *redis.Client
	resourcesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, resourcesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		resourcesTTL: resourcesTTL,
	}
}

// AcquireTableLock takes a short advisory lock around a seat operation. The
// database row lock stays the source of truth; this only keeps racing staff
// clients from piling up on one table.
func (c *RedisCache) AcquireTableLock(ctx context.Context, venueID, resourceID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, tableLockKey(venueID, resourceID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseTableLock(ctx context.Context, venueID, resourceID int64) error {
	return c.client.Del(ctx, tableLockKey(venueID, resourceID)).Err()
}

func (c *RedisCache) GetResources(ctx context.Context, venueID int64) ([]domain.Resource, error) {
	data, err := c.client.Get(ctx, resourcesKey(venueID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var resources []domain.Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *RedisCache) SetResources(ctx context.Context, venueID int64, resources []domain.Resource) error {
	payload, err := json.Marshal(resources)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resourcesKey(venueID), payload, c.resourcesTTL).Err()
}

func (c *RedisCache) InvalidateResources(ctx context.Context, venueID int64) error {
	return c.client.Del(ctx, resourcesKey(venueID)).Err()
}

func resourcesKey(venueID int64) string {
	return fmt.Sprintf("cache:venue:%d:tables", venueID)
}

func tableLockKey(venueID, resourceID int64) string {
	return fmt.Sprintf("lock:venue:%d:table:%d", venueID, resourceID)
}
