package report

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
)

const schedulerInterval = 60 * time.Second

// Logger is the minimal logging surface the scheduler needs, compatible
// with log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Scheduler runs the report syncs configured in config.yml on their cron
// schedules.
type Scheduler struct {
	skillkitDirpath string
	syncer          *Syncer

	mu      sync.Mutex
	running map[string]bool      // schedule name -> sync in flight
	lastRun map[string]time.Time // schedule name -> last fire time
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler that syncs through the given syncer.
func NewScheduler(skillkitDirpath string, syncer *Syncer) *Scheduler {
	return &Scheduler{
		skillkitDirpath: skillkitDirpath,
		syncer:          syncer,
		running:         make(map[string]bool),
		lastRun:         make(map[string]time.Time),
	}
}

// Run executes due schedules until the context is cancelled: one cycle
// immediately, then one per minute. The config is re-read each cycle so
// edits take effect without a restart.
func (s *Scheduler) Run(ctx context.Context, logger Logger) {
	s.runCycle(ctx, logger)

	ticker := time.NewTicker(schedulerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			inFlight := len(s.running)
			s.mu.Unlock()
			if inFlight > 0 {
				logger.Printf("Report scheduler: waiting for %d in-flight syncs", inFlight)
			}
			s.wg.Wait()
			return
		case <-ticker.C:
			s.runCycle(ctx, logger)
		}
	}
}

// runCycle starts a sync for every enabled schedule that is due.
func (s *Scheduler) runCycle(ctx context.Context, logger Logger) {
	cfg, _, err := config.ReadSkillkitConfig(s.skillkitDirpath)
	if err != nil {
		logger.Printf("Report scheduler: failed to read config: %v", err)
		return
	}
	if len(cfg.Schedules) == 0 {
		return
	}

	// Iterate in name order so logs stay stable across cycles.
	names := make([]string, 0, len(cfg.Schedules))
	for name := range cfg.Schedules {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now()
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}

		schedule := cfg.Schedules[name]
		if !schedule.IsEnabled() {
			continue
		}
		if !config.IsCronDue(schedule.Schedule, now) {
			continue
		}
		if s.firedThisMinute(name, now) {
			continue
		}

		s.mu.Lock()
		inFlight := s.running[name]
		s.mu.Unlock()
		if inFlight {
			logger.Printf("Report scheduler: skipping '%s', previous sync still in progress", name)
			continue
		}

		s.start(ctx, logger, name, schedule, now)
	}
}

// start marks the schedule as running and syncs in a goroutine, so a slow
// source does not hold up the rest of the cycle.
func (s *Scheduler) start(ctx context.Context, logger Logger, name string, schedule config.ScheduleConfig, now time.Time) {
	s.mu.Lock()
	s.running[name] = true
	s.lastRun[name] = now
	s.mu.Unlock()

	logger.Printf("Report scheduler: running '%s' (%s -> %s)", name, schedule.Source, schedule.Dashboard)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.running, name)
			s.mu.Unlock()
		}()

		result, err := s.syncer.Sync(ctx, schedule.Source, schedule.Dashboard, defaultSyncDays)
		if err != nil {
			logger.Printf("Report scheduler: '%s' failed: %v", name, err)
			return
		}
		for _, tab := range result.Tabs {
			logger.Printf("Report scheduler: '%s' staged %d rows to %s", name, tab.Rows, tab.Filepath)
		}
	}()
}

// firedThisMinute guards against double-firing when two cycles land in the
// same cron minute.
func (s *Scheduler) firedThisMinute(name string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastRun[name]
	if !ok {
		return false
	}
	return last.Truncate(time.Minute).Equal(now.Truncate(time.Minute))
}
