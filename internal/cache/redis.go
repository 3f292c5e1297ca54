// internal/cache/redis.go

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"tenant-otp-service/pkg/logger"
)

// RedisStore backs a ScopedCache with Redis. The per-tenant tag index lives
// in a Redis SET per tag; every Put and Forget runs the value write and the
// index update inside one MULTI/EXEC transaction, so a committed write is
// always visible to a later FlushTag. FlushTag reads the set once and then
// deletes that snapshot, which gives flush the snapshot-at-start guarantee:
// writes committing strictly after the snapshot read may survive.
//
// Counters ride on Redis INCRBY/DECRBY and are therefore atomic per key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration, tag string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, ttl)
		pipe.SAdd(ctx, tag, key)
		return nil
	})
	return err
}

func (s *RedisStore) Forget(ctx context.Context, key, tag string) (bool, error) {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		pipe.SRem(ctx, tag, key)
		return nil
	})
	if err != nil {
		return false, err
	}
	return del.Val() > 0, nil
}

func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) IncrBy(ctx context.Context, key string, delta int64, tag string) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, key, delta)
		pipe.SAdd(ctx, tag, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisStore) Many(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(keys))
	for i, v := range values {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			out[keys[i]] = []byte(str)
		}
	}
	return out, nil
}

func (s *RedisStore) PutMany(ctx context.Context, entries map[string][]byte, ttl time.Duration, tag string) error {
	if len(entries) == 0 {
		return nil
	}

	// One transaction: either every entry and its index membership lands, or
	// none of them do.
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, key, value, ttl)
			pipe.SAdd(ctx, tag, key)
		}
		return nil
	})
	return err
}

func (s *RedisStore) FlushTag(ctx context.Context, tag string) (int64, error) {
	members, err := s.client.SMembers(ctx, tag).Result()
	if err != nil {
		return 0, err
	}

	if len(members) == 0 {
		// Still drop the (possibly empty) index.
		return 0, s.client.Del(ctx, tag).Err()
	}

	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, members...)
		pipe.Del(ctx, tag)
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Debug("Flushed cache tag ", tag, " removing ", del.Val(), " keys")
	return del.Val(), nil
}

// Ping checks connectivity for health reporting.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
