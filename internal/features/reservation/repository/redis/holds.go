package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/features/reservation/repository"
	platformredis "hunting-reserve-backend/internal/platform/redis"
)

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type holdRepository struct {
	client platformredis.RedisClient
}

func NewHoldRepository(client platformredis.RedisClient) repository.HoldRepository {
	return &holdRepository{client: client}
}

func ZoneKey(reserveID string, zoneID int64, huntDate string, slot models.TimeSlot) string {
	return fmt.Sprintf("hold:zone:%s:%d:%s:%s", reserveID, zoneID, huntDate, slot)
}

func SpeciesKey(reserveID, species, category string) string {
	return fmt.Sprintf("hold:species:%s:%s:%s", reserveID, species, category)
}

func (r *holdRepository) Acquire(ctx context.Context, key string, hold *models.Hold, ttl time.Duration) error {
	hold.ExpiresAt = time.Now().Add(ttl).UTC()
	data, err := json.Marshal(hold)
	if err != nil {
		return fmt.Errorf("failed to marshal hold: %w", err)
	}

	ok, err := r.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire hold: %w", err)
	}
	if ok {
		return nil
	}

	existing, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if existing == nil {
		// expired between SETNX and GET
		ok, err = r.client.SetNX(ctx, key, data, ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire hold: %w", err)
		}
		if ok {
			return nil
		}
		return repository.ErrHoldTaken
	}
	if existing.HunterID != hold.HunterID {
		return repository.ErrHoldTaken
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to renew hold: %w", err)
	}
	return nil
}

func (r *holdRepository) Release(ctx context.Context, key string, hunterID int64) (bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read hold: %w", err)
	}

	var hold models.Hold
	if err := json.Unmarshal([]byte(raw), &hold); err != nil {
		return false, fmt.Errorf("failed to unmarshal hold: %w", err)
	}
	if hold.HunterID != hunterID {
		return false, nil
	}

	deleted, err := r.client.Eval(ctx, releaseScript, []string{key}, raw).Int()
	if err != nil {
		return false, fmt.Errorf("failed to release hold: %w", err)
	}
	return deleted > 0, nil
}

func (r *holdRepository) Get(ctx context.Context, key string) (*models.Hold, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hold: %w", err)
	}
	var hold models.Hold
	if err := json.Unmarshal(raw, &hold); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold: %w", err)
	}
	return &hold, nil
}
