package redis

import (
	"context"
	"fmt"
	"time"

	"hunting-reserve-backend/internal/features/lottery/repository"
	platformredis "hunting-reserve-backend/internal/platform/redis"
)

type drawLock struct {
	client platformredis.RedisClient
}

func NewDrawLock(client platformredis.RedisClient) repository.DrawLock {
	return &drawLock{client: client}
}

func LockKey(lotteryID int64) string {
	return fmt.Sprintf("lock:lottery:%d", lotteryID)
}

func (l *drawLock) Acquire(ctx context.Context, lotteryID int64, ttl time.Duration) error {
	ok, err := l.client.SetNX(ctx, LockKey(lotteryID), "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return repository.ErrAlreadyLocked
	}
	return nil
}

func (l *drawLock) Release(ctx context.Context, lotteryID int64) error {
	if err := l.client.Del(ctx, LockKey(lotteryID)).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
