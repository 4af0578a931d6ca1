package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubSource) QueueStats(context.Context) (moderation.QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return moderation.QueueStats{ByState: map[model.ReviewState]int64{model.StateInCommunityReview: 7}, Total: 7}, s.err
}

func TestSchedulerRefreshesAndStops(t *testing.T) {
	source := &stubSource{}
	sunk := make(chan moderation.QueueStats, 16)
	s := NewQueueStatsScheduler(source, func(stats moderation.QueueStats) { sunk <- stats }, SchedulerConfig{Interval: 5 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case stats := <-sunk:
			if stats.ByState[model.StateInCommunityReview] != 7 {
				t.Fatalf("unexpected stats %+v", stats)
			}
		case <-time.After(time.Second):
			t.Fatalf("scheduler did not refresh")
		}
	}

	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop")
	}
	status := s.GetStatus()
	if status["running"] != false || status["runs"].(int) < 2 {
		t.Fatalf("unexpected status %v", status)
	}
}

func TestSchedulerKeepsLastErrorAndSkipsSink(t *testing.T) {
	source := &stubSource{err: errors.New("db down")}
	called := false
	s := NewQueueStatsScheduler(source, func(moderation.QueueStats) { called = true }, SchedulerConfig{})
	s.refresh(context.Background())
	if called {
		t.Fatalf("sink called on error")
	}
	if s.GetStatus()["lastError"] != "db down" {
		t.Fatalf("error not reported: %v", s.GetStatus())
	}
}
