package redis

import (
	"context"
	"errors"

	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"github.com/redis/go-redis/v9"
)

var _ repositories.KVStore = (*KVStore)(nil)

// KVStore keeps values as plain redis strings under a key prefix
type KVStore struct {
	client *redis.Client
	prefix string
}

// NewKVStore connects using a redis:// URL, falling back to a local server when the URL does not parse
func NewKVStore(redisURL, password string, db int, prefix string) *KVStore {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{
			Addr:     "localhost:6379",
			Password: password,
			DB:       db,
		}
	}
	return &KVStore{client: redis.NewClient(opt), prefix: prefix}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Ping checks the connection
func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *KVStore) Close() error {
	return s.client.Close()
}
