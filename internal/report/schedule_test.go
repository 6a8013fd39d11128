package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/ga4"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Printf(format string, v ...any) {
	l.t.Logf(format, v...)
}

func boolPtr(b bool) *bool { return &b }

func newTestScheduler(t *testing.T, schedules map[string]config.ScheduleConfig) (*Scheduler, *fakeGA4, string) {
	t.Helper()
	dir := t.TempDir()
	if err := config.EnsureDirStructure(dir); err != nil {
		t.Fatalf("failed to create the skillkit directory structure: %v", err)
	}
	if err := config.WriteSkillkitConfig(dir, &config.SkillkitConfig{Schedules: schedules}, nil); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	source := &fakeGA4{
		summaries: []ga4.DailySummary{
			{Date: "2026-08-01", Sessions: "120", ActiveUsers: "95", BounceRate: "0.41", Conversions: "6"},
		},
	}
	syncer := NewSyncer(dir)
	syncer.GA4 = source
	return NewScheduler(dir, syncer), source, dir
}

func (s *Scheduler) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

func TestSchedulerRunsDueSync(t *testing.T) {
	scheduler, source, dir := newTestScheduler(t, map[string]config.ScheduleConfig{
		"daily-ga4": {
			Schedule:  "* * * * *",
			Source:    "ga4",
			Dashboard: "crm-dashboard",
		},
	})

	scheduler.runCycle(context.Background(), testLogger{t})
	scheduler.wg.Wait()

	if source.calls != 1 {
		t.Fatalf("expected 1 sync, got %d", source.calls)
	}
	if source.days != 30 {
		t.Errorf("expected the default 30-day window, got %d", source.days)
	}

	staged := filepath.Join(config.GetReportDirpath(dir, "crm-dashboard"), "ga4-summary.csv")
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("expected a staged tab at '%s': %v", staged, err)
	}
	if n := scheduler.inFlight(); n != 0 {
		t.Errorf("expected no in-flight syncs after completion, got %d", n)
	}
}

func TestSchedulerSkipsDisabled(t *testing.T) {
	scheduler, source, _ := newTestScheduler(t, map[string]config.ScheduleConfig{
		"daily-ga4": {
			Schedule:  "* * * * *",
			Source:    "ga4",
			Dashboard: "crm-dashboard",
			Enabled:   boolPtr(false),
		},
	})

	scheduler.runCycle(context.Background(), testLogger{t})
	scheduler.wg.Wait()

	if source.calls != 0 {
		t.Errorf("expected a disabled schedule to be skipped, got %d syncs", source.calls)
	}
}

func TestSchedulerSkipsNotDue(t *testing.T) {
	scheduler, source, _ := newTestScheduler(t, map[string]config.ScheduleConfig{
		"never": {
			Schedule:  "0 0 31 2 *",
			Source:    "ga4",
			Dashboard: "crm-dashboard",
		},
	})

	scheduler.runCycle(context.Background(), testLogger{t})
	scheduler.wg.Wait()

	if source.calls != 0 {
		t.Errorf("expected a not-due schedule to be skipped, got %d syncs", source.calls)
	}
}

func TestSchedulerSkipsOverlap(t *testing.T) {
	scheduler, source, _ := newTestScheduler(t, map[string]config.ScheduleConfig{
		"daily-ga4": {
			Schedule:  "* * * * *",
			Source:    "ga4",
			Dashboard: "crm-dashboard",
		},
	})
	scheduler.mu.Lock()
	scheduler.running["daily-ga4"] = true
	scheduler.mu.Unlock()

	scheduler.runCycle(context.Background(), testLogger{t})
	scheduler.wg.Wait()

	if source.calls != 0 {
		t.Errorf("expected an in-flight schedule to be skipped, got %d syncs", source.calls)
	}
}

func TestSchedulerClearsFailedSync(t *testing.T) {
	scheduler, source, dir := newTestScheduler(t, map[string]config.ScheduleConfig{
		"daily-ga4": {
			Schedule:  "* * * * *",
			Source:    "ga4",
			Dashboard: "crm-dashboard",
		},
	})
	source.err = errors.New("token expired")

	scheduler.runCycle(context.Background(), testLogger{t})
	scheduler.wg.Wait()

	if source.calls != 1 {
		t.Fatalf("expected the failing sync to run once, got %d", source.calls)
	}
	staged := filepath.Join(config.GetReportDirpath(dir, "crm-dashboard"), "ga4-summary.csv")
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Errorf("expected no staged tab after a failed sync, stat returned %v", err)
	}
	if n := scheduler.inFlight(); n != 0 {
		t.Errorf("expected the failed sync to clear its in-flight mark, got %d", n)
	}
}

func TestSchedulerSurvivesBadConfig(t *testing.T) {
	scheduler, source, dir := newTestScheduler(t, nil)
	badYAML := "schedules:\n  broken:\n    schedule: not a cron\n    source: ga4\n    dashboard: crm-dashboard\n"
	if err := os.WriteFile(config.GetConfigFilepath(dir), []byte(badYAML), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	scheduler.runCycle(context.Background(), testLogger{t})
	scheduler.wg.Wait()

	if source.calls != 0 {
		t.Errorf("expected no syncs under an invalid config, got %d", source.calls)
	}
}

func TestFiredThisMinute(t *testing.T) {
	scheduler := NewScheduler(t.TempDir(), nil)
	scheduler.lastRun["hourly"] = time.Date(2026, 1, 1, 10, 30, 45, 0, time.UTC)

	if !scheduler.firedThisMinute("hourly", time.Date(2026, 1, 1, 10, 30, 59, 0, time.UTC)) {
		t.Error("expected a second fire in the same minute to be suppressed")
	}
	if scheduler.firedThisMinute("hourly", time.Date(2026, 1, 1, 10, 31, 0, 0, time.UTC)) {
		t.Error("expected the next minute to be eligible")
	}
	if scheduler.firedThisMinute("nightly", time.Date(2026, 1, 1, 10, 30, 59, 0, time.UTC)) {
		t.Error("expected a never-fired schedule to be eligible")
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	scheduler, _, dir := newTestScheduler(t, map[string]config.ScheduleConfig{
		"daily-ga4": {
			Schedule:  "* * * * *",
			Source:    "ga4",
			Dashboard: "crm-dashboard",
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, testLogger{t})
		close(done)
	}()

	staged := filepath.Join(config.GetReportDirpath(dir, "crm-dashboard"), "ga4-summary.csv")
	deadline := time.After(5 * time.Second)
	for {
		if _, err := os.Stat(staged); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the first cycle to stage a tab")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to return after cancellation")
	}
}
