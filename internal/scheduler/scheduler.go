package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

// StatsSource computes the review queue statistics.
type StatsSource interface {
	QueueStats(ctx context.Context) (moderation.QueueStats, error)
}

// QueueStatsScheduler refreshes review queue statistics on an interval and
// hands each snapshot to a sink (the Prometheus gauge in the server).
type QueueStatsScheduler struct {
	source   StatsSource
	sink     func(moderation.QueueStats)
	interval time.Duration
	last     moderation.QueueStats
	lastRun  time.Time
	lastErr  error
	runs     int
	running  bool
	mu       sync.Mutex
	stopChan chan struct{}
}

type SchedulerConfig struct {
	Interval time.Duration
}

func NewQueueStatsScheduler(source StatsSource, sink func(moderation.QueueStats), cfg SchedulerConfig) *QueueStatsScheduler {
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if sink == nil {
		sink = func(moderation.QueueStats) {}
	}
	return &QueueStatsScheduler{
		source:   source,
		sink:     sink,
		interval: cfg.Interval,
		stopChan: make(chan struct{}),
	}
}

func (s *QueueStatsScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Scheduler] Starting with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("[Scheduler] Context cancelled, stopping")
			s.markStopped()
			return
		case <-s.stopChan:
			log.Println("[Scheduler] Stop signal received")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *QueueStatsScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Scheduler] Stopped")
	}
}

func (s *QueueStatsScheduler) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *QueueStatsScheduler) refresh(ctx context.Context) {
	stats, err := s.source.QueueStats(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.runs++
	s.lastErr = err
	if err == nil {
		s.last = stats
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("[Scheduler] Error refreshing queue stats: %v", err)
		return
	}
	s.sink(stats)
}

// GetStatus returns current scheduler status
func (s *QueueStatsScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"interval": s.interval.String(),
		"runs":     s.runs,
		"stats":    s.last,
	}
	if !s.lastRun.IsZero() {
		status["lastRun"] = s.lastRun.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		status["lastError"] = s.lastErr.Error()
	}
	return status
}
