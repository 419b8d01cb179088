// Package redisstore implements ports.EphemeralStore on Redis, shared by all
// API instances for rate limit windows and cached profile lookups.
package redisstore

import (
	"context"
	"errors"
	"time"

	"freight/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// incrWithExpiry increments the counter and starts its expiry on the first
// write, in one round trip. A key that somehow lost its TTL gets a fresh one
// instead of living forever.
var incrWithExpiry = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

type Store struct {
	client redis.UniversalClient
	prefix string
}

// NewStore namespaces every key with prefix.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return errs.NewStorageError("redis set", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.NewStorageError("redis get", err)
	}
	return v, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errs.NewStorageError("redis del", err)
	}
	return nil
}

func (s *Store) IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	res, err := incrWithExpiry.Run(ctx, s.client, []string{s.prefix + key}, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, errs.NewStorageError("redis incr", err)
	}
	if len(res) != 2 {
		return 0, 0, errs.NewStorageError("redis incr", errors.New("unexpected script reply"))
	}
	return res[0], time.Duration(res[1]) * time.Millisecond, nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errs.NewStorageError("redis ping", err)
	}
	return nil
}
