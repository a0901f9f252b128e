package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "yearcal/internal/log"
)

// DefaultSchedule refreshes every 15 minutes.
const DefaultSchedule = "*/15 * * * *"

const refreshTimeout = 2 * time.Minute

// Refresher is anything the scheduler can run periodically.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs Refresh on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	target Refresher

	mu      sync.Mutex
	running bool
}

// NewScheduler validates schedule (standard 5-field cron or a descriptor such as
// "@every 10m") and prepares the job. loc is the schedule's timezone.
func NewScheduler(schedule string, target Refresher, loc *time.Location) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		target: target,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("source: invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	appLog.Info("refresh scheduler started", "next", s.Next().Format(time.RFC3339))
}

// Stop halts scheduling and waits for a running refresh to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Next returns the next scheduled run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		appLog.Warn("refresh still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := s.target.Refresh(ctx); err != nil {
		appLog.Error("scheduled refresh failed", err)
	}
}
