// Package events delivers WordStateChanged notifications.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

// Channel is the Redis pub/sub channel state changes are published on.
const Channel = "word.state_changed"

// RedisPublisher publishes each event as JSON on a Redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = Channel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event moderation.WordStateChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// LogPublisher writes each event to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event moderation.WordStateChanged) error {
	p.logger.Info("word state changed",
		"event", "word_state_changed_published",
		"module", "dictionary/events",
		"layer", "adapter",
		"word_id", event.WordID,
		"from", string(event.From),
		"to", string(event.To),
		"actor_id", event.ActorID,
		"action", event.Action,
	)
	return nil
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []moderation.EventPublisher

func (m Multi) Publish(ctx context.Context, event moderation.WordStateChanged) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ moderation.EventPublisher = (*RedisPublisher)(nil)
	_ moderation.EventPublisher = (*LogPublisher)(nil)
	_ moderation.EventPublisher = Multi(nil)
)
