package helpers

import (
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	redisOnce sync.Once
	redisURL  string
	redisErr  error
)

// RequireRedis returns a client connected to a shared redis container. The
// logical database is flushed before being handed to the test, so tests using
// this helper must not run in parallel with one another.
func RequireRedis(t *testing.T) *redis.Client {
	if testing.Short() {
		t.Skip("skipping redis backed test in short mode")
	}

	redisOnce.Do(func() {
		container, err := tcredis.RunContainer(ctx, testcontainers.WithImage("docker.io/redis:7-alpine"))
		if err != nil {
			redisErr = err
			return
		}

		redisURL, redisErr = container.ConnectionString(ctx)
	})
	if redisErr != nil {
		t.Fatalf("failed to start redis container: %s", redisErr)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("failed to parse redis connection string %s: %s", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis database: %s", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client
}
