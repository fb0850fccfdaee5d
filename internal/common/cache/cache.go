package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hunting-reserve-backend/internal/platform/redis"
)

const (
	ReserveSettingsTTL = 5 * time.Minute
	QuotaListTTL       = time.Minute
)

// Key builders shared by the services that read and invalidate them.
func ReserveSettingsKey(reserveID string) string {
	return fmt.Sprintf("reserve_settings:%s", reserveID)
}

func QuotaListKey(reserveID string) string {
	return fmt.Sprintf("quotas:%s", reserveID)
}

func GroupQuotaListKey(reserveID string) string {
	return fmt.Sprintf("group_quotas:%s", reserveID)
}

type CacheService struct {
	redisClient redis.RedisClient
}

func NewCacheService(redisClient redis.RedisClient) *CacheService {
	return &CacheService{
		redisClient: redisClient,
	}
}

// IsMiss reports whether err means the key was absent.
func IsMiss(err error) bool {
	return err == goredis.Nil
}

func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redisClient.Set(ctx, key, string(data), ttl).Err()
}

func (c *CacheService) Delete(ctx context.Context, keys ...string) error {
	return c.redisClient.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching pattern using SCAN.
func (c *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// GetOrSet reads key into dest, or calls setter, caches its result and
// copies it into dest. A failing cache write does not fail the read.
func (c *CacheService) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := setter()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_ = c.redisClient.Set(ctx, key, string(data), ttl).Err()

	return json.Unmarshal(data, dest)
}

func (c *CacheService) InvalidateReserve(ctx context.Context, reserveID string) error {
	return c.Delete(ctx, ReserveSettingsKey(reserveID))
}

func (c *CacheService) InvalidateQuotas(ctx context.Context, reserveID string) error {
	return c.Delete(ctx, QuotaListKey(reserveID), GroupQuotaListKey(reserveID))
}
