package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/sb-price-watch/pkg/logger"
)

// Scheduler runs the reconcile loop on a fixed interval.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler registers a reconcile job firing every interval. A tick that
// fires while the previous one is still running is skipped.
func NewScheduler(eng *Engine, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	if interval < time.Second {
		return nil, errors.New("reconcile interval must be at least 1s")
	}

	c := cron.New(cron.WithChain(
		cron.Recover(logger.Cron(log)),
		cron.SkipIfStillRunning(logger.Cron(log)),
	))

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.runReconcile); err != nil {
		return nil, fmt.Errorf("registering reconcile job: %w", err)
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once a running
// reconcile has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runReconcile() {
	res, err := s.engine.RunReconcile(context.Background())
	if err != nil {
		s.log.Error("scheduled reconcile failed", "error", err)
		return
	}
	if res.Skipped {
		s.log.Debug("scheduled reconcile skipped, watch list empty")
	}
}
