// Package ratelimit is a fixed-window limiter keyed by client and action.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// Rate-limited actions.
const (
	ActionVote         = "vote"
	ActionReport       = "report"
	ActionCorrection   = "correction"
	ActionCreateWord   = "create_word"
	ActionAdminCommand = "admin_action"
)

var DefaultLimits = map[string]ActionConfig{
	ActionVote:         {Limit: 60, Window: time.Minute},
	ActionReport:       {Limit: 10, Window: time.Minute},
	ActionCorrection:   {Limit: 10, Window: time.Minute},
	ActionCreateWord:   {Limit: 20, Window: time.Minute},
	ActionAdminCommand: {Limit: 120, Window: time.Minute},
}

// Storage holds the window counters.
type Storage interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Limiter struct {
	storage Storage
	limits  map[string]ActionConfig
	now     func() time.Time
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(storage Storage, limits map[string]ActionConfig) *Limiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &Limiter{storage: storage, limits: limits, now: time.Now}
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		// Default limit for unknown actions
		config = ActionConfig{Limit: 100, Window: time.Minute}
	}

	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.storage.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.storage.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}
	if ttl < 0 {
		ttl = config.Window
	}

	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl).Unix(),
		Limit:     config.Limit,
	}, nil
}
