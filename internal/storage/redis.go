package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values as plain Redis strings.
type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(r *redis.Client) *RedisStore {
	return &RedisStore{Redis: r}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Redis.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, key).Err()
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.Redis.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.Redis.Close()
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
