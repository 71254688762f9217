package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"SignalDesk/internal/config"
	"SignalDesk/internal/store"

	"github.com/robfig/cron/v3"
)

// ConfigSource is the reloadable configuration the jobs work from.
type ConfigSource interface {
	Current() *config.Config
	Reload() error
}

// Alerter delivers operator alerts, e.g. the Telegram notifier.
type Alerter interface {
	Send(ctx context.Context, text string) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Configs ConfigSource
	Store   store.BarStore
	Alerter Alerter
	Ctx     context.Context

	now        func() time.Time
	lastReload string
}

// NewScheduler creates a new Scheduler. alerter may be nil.
func NewScheduler(ctx context.Context, configs ConfigSource, bars store.BarStore, alerter Alerter) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Configs: configs,
		Store:   bars,
		Alerter: alerter,
		Ctx:     ctx,
		now:     time.Now,
	}
}

// RegisterAll registers the config reload and offline store prune tasks.
func (s *Scheduler) RegisterAll(reloadCron, pruneCron string) error {
	if _, err := s.Cron.AddFunc(reloadCron, s.reloadTask); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunPruneNow executes the prune task immediately.
func (s *Scheduler) RunPruneNow() {
	s.pruneTask()
}

func (s *Scheduler) reloadTask() {
	err := s.Configs.Reload()
	if err == nil {
		s.lastReload = ""
		return
	}
	msg := err.Error()
	log.Printf("[ERROR] config reload, keeping previous config: %v", err)
	// alert once per distinct failure, not every minute
	if msg != s.lastReload {
		s.lastReload = msg
		s.trySend(fmt.Sprintf("⚠️ <b>Config reload failed</b>\n\n%s", msg))
	}
}

func (s *Scheduler) pruneTask() {
	retention := s.Configs.Current().Providers.Offline.Retention
	if retention <= 0 {
		return
	}
	cutoff := s.now().Add(-retention)
	n, err := s.Store.Prune(s.Ctx, cutoff)
	if err != nil {
		log.Printf("[ERROR] prune offline bars: %v", err)
		s.trySend(fmt.Sprintf("❌ Offline store prune failed: %v", err))
		return
	}
	log.Printf("[INFO] pruned %d offline bars older than %s", n, cutoff.Format("2006-01-02"))
}

func (s *Scheduler) trySend(text string) {
	if s.Alerter == nil {
		return
	}
	if err := s.Alerter.Send(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
