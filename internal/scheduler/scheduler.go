package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hydrosense/irriga/internal/config"
	"github.com/hydrosense/irriga/internal/service/analysis"
)

// Scheduler runs the allocation cycle on a cron schedule so the farm gets a
// fresh report every morning without anyone hitting the API.
type Scheduler struct {
	cron     *cron.Cron
	analyzer analysis.Analyzer
	cfg      config.ReportingConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron clock runs in the
// configured farm timezone so "5 AM" means 5 AM at the pump house.
func NewScheduler(cfg config.ReportingConfig, analyzer analysis.Analyzer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC",
			zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		analyzer: analyzer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the allocation job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runAllocationCycle)
	if err != nil {
		s.logger.Error("failed to schedule allocation cycle", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runAllocationCycle() {
	s.logger.Info("running scheduled allocation cycle")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.analyzer.RunCycle(ctx)
	if err != nil {
		s.logger.Error("scheduled allocation cycle failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled allocation cycle stored",
		zap.String("report_id", report.ReportID),
		zap.Int("fields", report.TotalFields),
		zap.Float64("allocation_rate", report.AllocationRate))
}
