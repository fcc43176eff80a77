package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hydrosense/irriga/internal/config"
	"github.com/hydrosense/irriga/internal/domain/models"
	"github.com/hydrosense/irriga/internal/engine"
	"github.com/hydrosense/irriga/internal/repository/mongodb"
	"github.com/hydrosense/irriga/internal/repository/sheets"
)

// highPriorityThreshold marks the priority score above which a field counts
// as a high-priority zone on the dashboard.
const highPriorityThreshold = 0.7

// Analyzer describes the operations the HTTP layer and the scheduler can
// perform.
type Analyzer interface {
	RunCycle(ctx context.Context) (models.AllocationReport, error)
	LatestReport(ctx context.Context) (models.AllocationReport, error)
	DashboardData(ctx context.Context) (models.DashboardData, error)
	Allocate(request models.AllocationRequest) (models.AllocationBatch, error)
}

// FarmAnalysisService is the production implementation combining the field
// inventory, the allocation engine and the report store.
type FarmAnalysisService struct {
	sheetRepo  sheets.Repository
	reportRepo mongodb.Repository
	engine     *engine.Engine
	farm       config.FarmConfig
	allocation config.AllocationConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewFarmAnalysisService wires a new service instance.
func NewFarmAnalysisService(
	sheetRepo sheets.Repository,
	reportRepo mongodb.Repository,
	eng *engine.Engine,
	farm config.FarmConfig,
	allocation config.AllocationConfig,
	logger *zap.Logger,
) *FarmAnalysisService {
	svc := &FarmAnalysisService{
		sheetRepo:  sheetRepo,
		reportRepo: reportRepo,
		engine:     eng,
		farm:       farm,
		allocation: allocation,
		logger:     logger,
		now:        time.Now,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// RunCycle executes one full computation cycle: fetch the inventory, build
// the snapshot, run the engine against the configured budget, then persist
// and return the report. The sheet log append is best effort; a failure there
// must not lose an already computed report.
func (s *FarmAnalysisService) RunCycle(ctx context.Context) (models.AllocationReport, error) {
	observations, err := s.sheetRepo.FetchFieldObservations(ctx)
	if err != nil {
		return models.AllocationReport{}, fmt.Errorf("fetch field inventory: %w", err)
	}

	snapshot := s.BuildSnapshot(observations)
	batch, err := s.engine.Run(snapshot.Fields, s.allocation.TotalAvailableM3)
	if err != nil {
		return models.AllocationReport{}, fmt.Errorf("run allocation engine: %w", err)
	}
	batch.Warnings = append(snapshot.Warnings, batch.Warnings...)

	report := s.buildReport(snapshot, batch)
	if err := s.reportRepo.SaveAllocationReport(ctx, report); err != nil {
		return models.AllocationReport{}, fmt.Errorf("persist allocation report: %w", err)
	}
	if err := s.sheetRepo.AppendAllocationSummary(ctx, report); err != nil {
		s.logger.Warn("failed to append allocation summary to sheet", zap.Error(err))
	}

	s.logger.Info("allocation cycle completed",
		zap.String("report_id", report.ReportID),
		zap.Int("fields", report.TotalFields),
		zap.Float64("allocation_rate", report.AllocationRate),
		zap.Int("water_stressed", report.WaterStressCount))

	return report, nil
}

// LatestReport returns the most recent persisted report.
func (s *FarmAnalysisService) LatestReport(ctx context.Context) (models.AllocationReport, error) {
	return s.reportRepo.LatestAllocationReport(ctx)
}

// DashboardData shapes the latest report into the dashboard payload.
func (s *FarmAnalysisService) DashboardData(ctx context.Context) (models.DashboardData, error) {
	report, err := s.reportRepo.LatestAllocationReport(ctx)
	if err != nil {
		return models.DashboardData{}, err
	}

	return models.DashboardData{
		Summary: models.DashboardSummary{
			TotalFields:         report.TotalFields,
			TotalWaterAllocated: report.TotalAllocatedM3,
			AverageNDVI:         report.AverageNDVI,
			HighPriorityZones:   report.HighPriorityCount,
			WaterStressCount:    report.WaterStressCount,
		},
		GeneratedAt: report.GeneratedAt,
		Entries:     report.Entries,
		Warnings:    report.Warnings,
	}, nil
}

// Allocate runs the engine over a caller-supplied snapshot without touching
// the inventory or the report store. Used for what-if requests via the API.
func (s *FarmAnalysisService) Allocate(request models.AllocationRequest) (models.AllocationBatch, error) {
	return s.engine.Run(request.Fields, request.TotalAvailableM3)
}

func (s *FarmAnalysisService) buildReport(snapshot Snapshot, batch models.AllocationBatch) models.AllocationReport {
	var highPriority int
	for _, e := range batch.Entries {
		if e.PriorityScore > highPriorityThreshold {
			highPriority++
		}
	}

	return models.AllocationReport{
		ReportID:          uuid.NewString(),
		FarmName:          s.farm.Name,
		GeneratedAt:       s.now().UTC(),
		TotalFields:       len(batch.Entries),
		TotalAvailableM3:  batch.TotalAvailableM3,
		TotalAllocatedM3:  batch.TotalAllocatedM3(),
		TotalRequiredM3:   batch.TotalRequiredM3(),
		AllocationRate:    batch.AllocationRate,
		AverageNDVI:       snapshot.AverageNDVI,
		HighPriorityCount: highPriority,
		WaterStressCount:  batch.CountByStress(models.StressHigh),
		Entries:           batch.Entries,
		Warnings:          batch.Warnings,
	}
}
