package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type publisherFunc func(context.Context, moderation.WordStateChanged) error

func (f publisherFunc) Publish(ctx context.Context, e moderation.WordStateChanged) error {
	return f(ctx, e)
}

func TestMultiPublishesToAllAndJoinsErrors(t *testing.T) {
	calls := 0
	ok := publisherFunc(func(context.Context, moderation.WordStateChanged) error { calls++; return nil })
	fail := publisherFunc(func(context.Context, moderation.WordStateChanged) error { calls++; return errors.New("down") })

	err := Multi{ok, nil, fail, ok}.Publish(context.Background(), moderation.WordStateChanged{WordID: "w1"})
	if calls != 3 {
		t.Fatalf("expected 3 publishers called, got %d", calls)
	}
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestLogPublisherWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	err := p.Publish(context.Background(), moderation.WordStateChanged{
		WordID: "w1",
		From:   model.StateInCommunityReview,
		To:     model.StateCommunityRejected,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"word_id":"w1"`) || !strings.Contains(out, `"to":"community_rejected"`) {
		t.Fatalf("unexpected log line %s", out)
	}
}
