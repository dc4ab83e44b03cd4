package handlers

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Stats tracks in-memory generation counters since process start. Nothing is
// persisted; a restart zeroes them.
type Stats struct {
	attempts  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	images    atomic.Int64
	started   time.Time
}

func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) RecordAttempt() { s.attempts.Add(1) }

func (s *Stats) RecordSuccess(images int) {
	s.succeeded.Add(1)
	s.images.Add(int64(images))
}

func (s *Stats) RecordFailure() { s.failed.Add(1) }

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"generation_attempts":  a.Stats.attempts.Load(),
		"generation_succeeded": a.Stats.succeeded.Load(),
		"generation_failed":    a.Stats.failed.Load(),
		"images_returned":      a.Stats.images.Load(),
		"live_sessions":        a.Sessions.Count(),
		"uptime_seconds":       int64(time.Since(a.Stats.started).Seconds()),
	})
}
