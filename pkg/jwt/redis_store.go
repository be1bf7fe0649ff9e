package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces certificate keys in Redis.
const DefaultRedisPrefix = "googlelogin:cert:"

// RedisStore is a KeyStore shared between processes. Expiry is enforced by Redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore. An empty prefix selects DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, kid string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+kid).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) SetMany(ctx context.Context, keys map[string]string, ttl time.Duration) error {
	if len(keys) == 0 || ttl <= 0 {
		return nil
	}
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for kid, pem := range keys {
			p.Set(ctx, s.prefix+kid, pem, ttl)
		}
		return nil
	})
	return err
}

var _ KeyStore = (*RedisStore)(nil)
