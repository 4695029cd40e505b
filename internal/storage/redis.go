package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces keys; defaults to "mindmates:".
	Prefix string
	// Secret seals values like WithSecret does for the SQLite store.
	Secret string
}

// RedisStore keeps the session in Redis for setups where several machines
// share one login. Expiry is left to Redis TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
	seal   *sealer
}

func OpenRedis(ctx context.Context, o RedisOptions) (*RedisStore, error) {
	if o.Addr == "" {
		return nil, errors.New("redis addr is empty")
	}
	if o.Prefix == "" {
		o.Prefix = "mindmates:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	s := &RedisStore{client: client, prefix: o.Prefix}
	if o.Secret != "" {
		sl, err := newSealer([]byte(o.Secret))
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		s.seal = sl
	}
	return s, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	if s.seal != nil {
		if v, err = s.seal.unbox(v); err != nil {
			return "", false, fmt.Errorf("get %s: %w", key, err)
		}
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.seal != nil {
		sealed, err := s.seal.box(value)
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		value = sealed
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("delete %v: %w", keys, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
