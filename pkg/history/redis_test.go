package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use test database
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	return err == nil
}

func TestRedisStore(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping Redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 1})
	prefix := fmt.Sprintf("veritas_test_%d", time.Now().UnixNano())
	s := NewRedisStore(client, prefix)

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		s.Close()
	})

	runStoreSuite(t, s)
}
