package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/hydrosense/irriga/internal/config"
	"github.com/hydrosense/irriga/internal/domain/models"
)

type fakeAnalyzer struct {
	runCalls int
	runErr   error
}

func (f *fakeAnalyzer) RunCycle(ctx context.Context) (models.AllocationReport, error) {
	f.runCalls++
	return models.AllocationReport{ReportID: "r-1", TotalFields: 2}, f.runErr
}

func (f *fakeAnalyzer) LatestReport(ctx context.Context) (models.AllocationReport, error) {
	return models.AllocationReport{}, nil
}

func (f *fakeAnalyzer) DashboardData(ctx context.Context) (models.DashboardData, error) {
	return models.DashboardData{}, nil
}

func (f *fakeAnalyzer) Allocate(req models.AllocationRequest) (models.AllocationBatch, error) {
	return models.AllocationBatch{}, nil
}

func testConfig() config.ReportingConfig {
	return config.ReportingConfig{CronSchedule: "0 5 * * *", Timezone: "UTC"}
}

func TestRunAllocationCycleInvokesAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	s := NewScheduler(testConfig(), analyzer, nil)

	s.runAllocationCycle()

	if analyzer.runCalls != 1 {
		t.Errorf("RunCycle called %d times, want 1", analyzer.runCalls)
	}
}

func TestRunAllocationCycleSurvivesFailure(t *testing.T) {
	analyzer := &fakeAnalyzer{runErr: errors.New("sheet unreachable")}
	s := NewScheduler(testConfig(), analyzer, nil)

	s.runAllocationCycle()
	s.runAllocationCycle()

	if analyzer.runCalls != 2 {
		t.Errorf("RunCycle called %d times, want 2", analyzer.runCalls)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeAnalyzer{}, nil)

	s.Start()
	s.Stop()
}

func TestNewSchedulerBadTimezoneFallsBack(t *testing.T) {
	cfg := config.ReportingConfig{CronSchedule: "0 5 * * *", Timezone: "Mars/Olympus"}
	s := NewScheduler(cfg, &fakeAnalyzer{}, nil)

	if s == nil {
		t.Fatal("scheduler should still construct with an unknown timezone")
	}
	s.Start()
	s.Stop()
}
