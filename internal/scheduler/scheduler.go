package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"waterguard/internal/logger"
)

// Scheduler runs the periodic report job.
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
	log        *zap.Logger
}

// New creates a scheduler evaluating schedule (a standard 5-field cron) in UTC.
func New(schedule string, log *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		schedule: schedule,
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.OrNop(log),
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		return errors.New("report function not set")
	}
	if _, err := s.cron.AddFunc(s.schedule, s.runReport); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Scheduler) runReport() {
	s.log.Info("daily report triggered")
	if err := s.reportFunc(s.ctx); err != nil {
		s.log.Error("daily report failed", zap.Error(err))
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.log.Info("scheduler stopped")
}
