package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

// Connect opens a Redis client from a URL (redis://host:port or
// redis://host:port/db) and checks it with a PING.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Printf("Connected to Redis at %s", opts.Addr)
	return client, nil
}

// WordCache stores word snapshots served by GetState.
type WordCache struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultSnapshotTTL applies when NewWordCache gets a non-positive ttl.
const DefaultSnapshotTTL = 5 * time.Minute

// putScript stores a snapshot unless the word's floor is newer.
// KEYS[1] snapshot, KEYS[2] floor; ARGV[1] payload, ARGV[2] version, ARGV[3] ttl ms.
var putScript = redis.NewScript(`
local floor = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[2]) < floor then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// invalidateScript raises the floor and drops the snapshot in one step.
// KEYS[1] snapshot, KEYS[2] floor; ARGV[1] version, ARGV[2] ttl ms.
var invalidateScript = redis.NewScript(`
local floor = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) > floor then
	redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
end
return redis.call('DEL', KEYS[1])
`)

func NewWordCache(client *redis.Client, ttl time.Duration) *WordCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &WordCache{client: client, ttl: ttl}
}

func (c *WordCache) Get(ctx context.Context, wordID string) (model.Word, bool, error) {
	raw, err := c.client.Get(ctx, WordKey(wordID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Word{}, false, nil
	}
	if err != nil {
		return model.Word{}, false, err
	}
	var word model.Word
	if err := json.Unmarshal(raw, &word); err != nil {
		// Undecodable entries are treated as a miss and overwritten.
		return model.Word{}, false, nil
	}
	return word, true, nil
}

func (c *WordCache) Put(ctx context.Context, word model.Word) error {
	raw, err := json.Marshal(word)
	if err != nil {
		return err
	}
	keys := []string{WordKey(word.ID), FloorKey(word.ID)}
	return putScript.Run(ctx, c.client, keys, raw, word.Version, c.ttl.Milliseconds()).Err()
}

// Invalidate drops the snapshot and refuses later Puts older than version.
// The floor outlives the snapshot TTL so a slow reader cannot slip past it.
func (c *WordCache) Invalidate(ctx context.Context, wordID string, version int64) error {
	keys := []string{WordKey(wordID), FloorKey(wordID)}
	return invalidateScript.Run(ctx, c.client, keys, version, (2 * c.ttl).Milliseconds()).Err()
}

// WordKey generates the cache key of a word snapshot
// Format: "word:<id>"
func WordKey(wordID string) string {
	return "word:" + wordID
}

// FloorKey holds the lowest version a snapshot Put may still store
// Format: "word:<id>:floor"
func FloorKey(wordID string) string {
	return "word:" + wordID + ":floor"
}
