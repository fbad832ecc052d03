package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher reloads cached reference data
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	refs     Refresher
	interval time.Duration
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler that refreshes refs every interval
func NewScheduler(refs Refresher, interval, timeout time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		refs:     refs,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start starts the scheduler and warms the reference cache in the background
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	if s.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", s.interval)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add reference refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("interval", s.interval).Info("Scheduler started")

	go s.runRefresh()

	return nil
}

// Stop stops the scheduler and waits for a running job
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runRefresh executes the reference refresh job
func (s *Scheduler) runRefresh() {
	s.logger.Debug("Refreshing reference lists")
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.refs.Refresh(ctx); err != nil {
		s.logger.WithError(err).Error("Reference refresh failed")
	} else {
		s.logger.Info("Reference lists refreshed")
	}
}
