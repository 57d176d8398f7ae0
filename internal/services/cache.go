package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mujtama/backend/internal/config"
	"github.com/mujtama/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const communityCacheTTL = 5 * time.Minute

// CacheService is a redis-backed read cache for community records. Mutations
// invalidate keys instead of updating cached values in place, so readers
// always refetch authoritative state after a write.
type CacheService struct {
	client *redis.Client
}

// NewCacheService returns a cache backed by Redis, or nil when Redis is
// disabled. A nil *CacheService is safe to call; every method degrades to a
// cache miss.
func NewCacheService(cfg *config.RedisConfig) *CacheService {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("[Cache] Redis unavailable, cache disabled: %v", err)
		return nil
	}

	logger.Infof("[Cache] Community cache enabled at %s", cfg.Addr)
	return &CacheService{client: client}
}

func communityKey(id uint) string {
	return fmt.Sprintf("community:%d", id)
}

// GetJSON loads the value at key into dest. Returns false on miss or error.
func (c *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// Stale or corrupt entry; drop it so the next read repopulates.
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value at key with a TTL. Errors are logged, not returned:
// the cache is best-effort.
func (c *CacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warnf("[Cache] Set %s failed: %v", key, err)
	}
}

// Delete removes keys from the cache.
func (c *CacheService) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warnf("[Cache] Delete failed: %v", err)
	}
}

// InvalidateCommunity drops a community's cached record.
func (c *CacheService) InvalidateCommunity(id uint) {
	c.Delete(context.Background(), communityKey(id))
}

// Close releases the redis connection.
func (c *CacheService) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
