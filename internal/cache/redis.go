package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis and publishes revalidated paths on a channel.
type RedisStore struct {
	client  *redis.Client
	channel string
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client, channel string) *RedisStore {
	return &RedisStore{client: client, channel: channel}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return value, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func generationKey(key string) string {
	return key + ":gen"
}

func (r *RedisStore) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetIfGeneration watches the generation key so a Delete from any instance
// between the check and the write aborts the transaction.
func (r *RedisStore) SetIfGeneration(ctx context.Context, key string, gen int64, value []byte, ttl time.Duration) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey(key)).Int64()
		if errors.Is(err, redis.Nil) {
			current, err = 0, nil
		}
		if err != nil {
			return err
		}
		if current != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, ttl)
			return nil
		})
		return err
	}, generationKey(key))
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

// Delete drops keys and advances their generations in one MULTI block.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

// PublishRevalidate sends one message per path in a single pipeline.
func (r *RedisStore) PublishRevalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, path := range paths {
			pipe.Publish(ctx, r.channel, path)
		}
		return nil
	})
	return err
}
