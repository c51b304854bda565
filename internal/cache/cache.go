package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// keyNamespace prefixes every cache key so call sites can't collide.
	keyNamespace = "junglecoach"

	// pingTimeout bounds the one-time Redis reachability probe at startup.
	pingTimeout = 3 * time.Second
)

// Store is a TTL key/value cache. Implementations swallow backend errors:
// a failed Get behaves like a miss and a failed Set/Delete/Flush is a no-op,
// so cache trouble can never break the caller's primary data path.
type Store interface {
	// Get returns the cached value for key, or nil if absent or expired.
	Get(ctx context.Context, key string) []byte
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes key.
	Delete(ctx context.Context, key string)
	// Flush removes every entry.
	Flush(ctx context.Context)
}

// Key builds a namespaced cache key: junglecoach:{kind}:{id}[:{extra}].
func Key(kind, id string, extra ...string) string {
	parts := append([]string{keyNamespace, kind, id}, extra...)
	return strings.Join(parts, ":")
}

// New selects a backend once at construction: Redis when redisURL is set and
// reachable, the in-process map otherwise. There is no mid-life failover;
// a backend that dies later just produces misses.
func New(redisURL string, log *logrus.Logger) Store {
	if redisURL == "" {
		log.Info("no REDIS_URL configured, using in-process cache")
		return NewMemory()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, falling back to in-process cache")
		return NewMemory()
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, falling back to in-process cache")
		return NewMemory()
	}

	log.Info("redis cache initialized")
	return &redisStore{client: client, log: log}
}

// redisStore backs the cache with a networked Redis instance.
type redisStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func (s *redisStore) Get(ctx context.Context, key string) []byte {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.WithError(err).WithField("key", key).Debug("cache get failed")
		}
		return nil
	}
	return data
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.WithError(err).WithField("key", key).Debug("cache set failed")
	}
}

func (s *redisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.WithError(err).WithField("key", key).Debug("cache delete failed")
	}
}

func (s *redisStore) Flush(ctx context.Context) {
	if err := s.client.FlushAll(ctx).Err(); err != nil {
		s.log.WithError(err).Debug("cache flush failed")
	}
}
