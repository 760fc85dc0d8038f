package notify

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
)

// Runs against a live server only when REDIS_ADDR is set.
func TestRedisSlot(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	appID := "apb-test-" + time.Now().Format("20060102150405.000000000")
	key := appID + ":notification"
	defer rdb.Del(ctx, key)

	slot := NewRedisSlot(rdb, appID, DefaultTTL, logger.Nop())

	if _, ok := slot.Current(ctx); ok {
		t.Fatal("expected no notice before the first Set")
	}

	slot.Set(ctx, Notice{Severity: SeverityInfo, Message: "first"})
	slot.Set(ctx, Notice{Severity: SeveritySuccess, Message: "second"})

	n, ok := slot.Current(ctx)
	if !ok || n.Message != "second" || n.Severity != SeveritySuccess {
		t.Fatalf("current = %+v, %v", n, ok)
	}
	if n.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be filled in")
	}

	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > DefaultTTL {
		t.Fatalf("ttl = %s, want within (0, %s]", ttl, DefaultTTL)
	}

	if err := rdb.Del(ctx, key).Err(); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, ok := slot.Current(ctx); ok {
		t.Fatal("expected no notice after the key is deleted")
	}
}
