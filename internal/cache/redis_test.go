package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

func TestWordKey(t *testing.T) {
	if got := WordKey("3f2a"); got != "word:3f2a" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := FloorKey("3f2a"); got != "word:3f2a:floor" {
		t.Fatalf("unexpected floor key %q", got)
	}
}

func TestWordCacheReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewWordCache(client, time.Minute)

	_, found, err := c.Get(context.Background(), "w1")
	if err == nil || found {
		t.Fatalf("expected an error from an unreachable server, got found=%v err=%v", found, err)
	}
}

func TestWordCacheRefusesStalePuts(t *testing.T) {
	redisURL := os.Getenv("REDIS_TEST_URL")
	if redisURL == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()
	c := NewWordCache(client, time.Minute)
	id := "test-" + t.Name()
	defer client.Del(ctx, WordKey(id), FloorKey(id))

	if err := c.Put(ctx, model.Word{ID: id, Version: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Invalidate(ctx, id, 2); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := c.Put(ctx, model.Word{ID: id, Version: 1}); err != nil {
		t.Fatalf("stale put: %v", err)
	}
	if _, found, err := c.Get(ctx, id); err != nil || found {
		t.Fatalf("stale snapshot stored: found=%v err=%v", found, err)
	}
	if err := c.Put(ctx, model.Word{ID: id, Version: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if w, found, err := c.Get(ctx, id); err != nil || !found || w.Version != 2 {
		t.Fatalf("current snapshot missing: %+v found=%v err=%v", w, found, err)
	}
}
