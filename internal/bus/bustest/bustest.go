// Package bustest provides the bus package's Redis-backed integration test
// fixture, grounded on internal/store/storetest's env-var-gated pattern: a
// real Redis connection, skipped when the address is unset.
package bustest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func Client(tb testing.TB) *redis.Client {
	tb.Helper()
	addr := os.Getenv("RECIPES_TEST_REDIS_ADDR")
	if addr == "" {
		tb.Skip("set RECIPES_TEST_REDIS_ADDR to run bus integration tests")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		tb.Fatalf("ping redis: %v", err)
	}
	tb.Cleanup(func() {
		_ = rdb.Close()
	})
	return rdb
}
