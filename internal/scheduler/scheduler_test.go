package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalDesk/internal/config"
	"SignalDesk/internal/store"
)

type fakeConfigs struct {
	cfg     *config.Config
	err     error
	reloads int
}

func (f *fakeConfigs) Current() *config.Config { return f.cfg }
func (f *fakeConfigs) Reload() error {
	f.reloads++
	return f.err
}

type recordingStore struct {
	store.NoopStore
	cutoffs []time.Time
	err     error
}

func (r *recordingStore) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, olderThan)
	return 3, r.err
}

type recordingAlerter struct{ texts []string }

func (a *recordingAlerter) Send(_ context.Context, text string) error {
	a.texts = append(a.texts, text)
	return nil
}

func newFixture(retention time.Duration) (*Scheduler, *fakeConfigs, *recordingStore, *recordingAlerter) {
	cfg := &config.Config{}
	cfg.Providers.Offline.Retention = retention
	fc := &fakeConfigs{cfg: cfg}
	rs := &recordingStore{}
	ra := &recordingAlerter{}
	s := NewScheduler(context.Background(), fc, rs, ra)
	s.now = func() time.Time { return time.Date(2024, 4, 10, 3, 30, 0, 0, time.UTC) }
	return s, fc, rs, ra
}

func TestPruneTask(t *testing.T) {
	s, _, rs, ra := newFixture(30 * 24 * time.Hour)
	s.RunPruneNow()

	if len(rs.cutoffs) != 1 {
		t.Fatalf("expected one prune, got %d", len(rs.cutoffs))
	}
	want := time.Date(2024, 3, 11, 3, 30, 0, 0, time.UTC)
	if !rs.cutoffs[0].Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, rs.cutoffs[0])
	}
	if len(ra.texts) != 0 {
		t.Errorf("expected no alerts, got %v", ra.texts)
	}
}

func TestPruneTask_Failure(t *testing.T) {
	s, _, rs, ra := newFixture(time.Hour)
	rs.err = errors.New("database is locked")
	s.RunPruneNow()
	if len(ra.texts) != 1 {
		t.Errorf("expected an alert, got %v", ra.texts)
	}
}

func TestPruneTask_NoRetention(t *testing.T) {
	s, _, rs, _ := newFixture(0)
	s.RunPruneNow()
	if len(rs.cutoffs) != 0 {
		t.Errorf("expected prune skipped, got %d calls", len(rs.cutoffs))
	}
}

func TestReloadTask_AlertsOncePerFailure(t *testing.T) {
	s, fc, _, ra := newFixture(time.Hour)
	fc.err = errors.New("parse config: bad yaml")

	s.reloadTask()
	s.reloadTask()
	if fc.reloads != 2 {
		t.Errorf("expected 2 reloads, got %d", fc.reloads)
	}
	if len(ra.texts) != 1 {
		t.Errorf("expected one alert for a repeated failure, got %d", len(ra.texts))
	}

	fc.err = nil
	s.reloadTask()
	fc.err = errors.New("parse config: bad yaml")
	s.reloadTask()
	if len(ra.texts) != 2 {
		t.Errorf("expected a new alert after recovery, got %d", len(ra.texts))
	}
}

func TestRegisterAll(t *testing.T) {
	s, _, _, _ := newFixture(time.Hour)
	if err := s.RegisterAll("0 * * * * *", "0 30 3 * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
	if err := s.RegisterAll("not a cron", "0 30 3 * * *"); err == nil {
		t.Error("expected error for an invalid cron expression")
	}
}
