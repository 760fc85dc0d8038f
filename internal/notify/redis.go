package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
)

// RedisSlot stores the notice under one key with a TTL so Redis handles
// expiry. Errors are logged and treated as "no notice".
type RedisSlot struct {
	rdb *redis.Client
	key string
	ttl time.Duration
	log *logger.Logger
}

func NewRedisSlot(rdb *redis.Client, appID string, ttl time.Duration, log *logger.Logger) *RedisSlot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSlot{rdb: rdb, key: appID + ":notification", ttl: ttl, log: log}
}

func (s *RedisSlot) Set(ctx context.Context, n Notice) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	b, err := json.Marshal(n)
	if err != nil {
		s.log.Warn("encode notice", "error", err)
		return
	}
	if err := s.rdb.Set(ctx, s.key, b, s.ttl).Err(); err != nil {
		s.log.Warn("store notice in redis", "key", s.key, "error", err)
	}
}

func (s *RedisSlot) Current(ctx context.Context) (Notice, bool) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Notice{}, false
	}
	if err != nil {
		s.log.Warn("read notice from redis", "key", s.key, "error", err)
		return Notice{}, false
	}
	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil {
		s.log.Warn("decode notice", "key", s.key, "error", err)
		return Notice{}, false
	}
	return n, true
}

var _ Slot = (*RedisSlot)(nil)
