package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ListPush adds to the head of the list. Consumers pop from the tail, so the list is FIFO.
func (s *Store) ListPush(ctx context.Context, key string, value interface{}) error {
	return s.client.LPush(ctx, key, value).Err()
}

// ListBlockingPop waits up to timeout for an element. ok is false when the wait timed out.
func (s *Store) ListBlockingPop(ctx context.Context, key string, timeout time.Duration) (value string, ok bool, err error) {
	res, err := s.client.BRPop(ctx, timeout, key).Result()
	if s.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	// [key, value]
	return res[1], true, nil
}

