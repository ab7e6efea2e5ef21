package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

type stringSetter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSink stores each artifact under <prefix>:<run>:<mode>:<name>.
type RedisSink struct {
	client stringSetter
	closer func() error
	prefix string
	ttl    time.Duration
}

// NewRedisSink connects to Redis and verifies the connection with a PING.
func NewRedisSink(cfg config.RedisConfig) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", cfg.Addr, err)
	}
	s := newRedisSink(rdb, cfg.KeyPrefix, cfg.TTL)
	s.closer = rdb.Close
	return s, nil
}

func newRedisSink(client stringSetter, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (*RedisSink) Name() string {
	return "redis"
}

// Key returns the Redis key an artifact is stored under.
func (s *RedisSink) Key(a Artifact) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.prefix, a.RunID, a.Mode, a.Name)
}

func (s *RedisSink) Write(ctx context.Context, a Artifact) error {
	key := s.Key(a)
	if err := s.client.Set(ctx, key, a.Content, s.ttl).Err(); err != nil {
		return apperrors.IOf(err, "setting %s", key)
	}
	return nil
}

func (s *RedisSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
