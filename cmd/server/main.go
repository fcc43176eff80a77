package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/hydrosense/irriga/internal/config"
	"github.com/hydrosense/irriga/internal/engine"
	"github.com/hydrosense/irriga/internal/repository/mongodb"
	"github.com/hydrosense/irriga/internal/repository/sheets"
	"github.com/hydrosense/irriga/internal/scheduler"
	"github.com/hydrosense/irriga/internal/server/handlers"
	"github.com/hydrosense/irriga/internal/server/router"
	"github.com/hydrosense/irriga/internal/service/analysis"
	"github.com/hydrosense/irriga/pkg/clients/landsat"
	"github.com/hydrosense/irriga/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	eng, err := engine.New(engineConfig(cfg.Engine))
	if err != nil {
		baseLogger.Fatal("invalid scoring configuration", zap.Error(err))
	}

	analysisSvc := analysis.NewFarmAnalysisService(sheetsRepo, mongoRepo, eng, cfg.Farm, cfg.Allocation, baseLogger.Named("svc.analysis"))
	landsatClient := landsat.NewClient(cfg.Landsat)

	allocationHandler := handlers.NewAllocationHandler(analysisSvc, baseLogger.Named("handlers.allocation"))
	sceneHandler := handlers.NewSceneHandler(landsatClient, baseLogger.Named("handlers.scenes"))
	ginEngine := router.New(allocationHandler, sceneHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, analysisSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// engineConfig maps environment settings onto the engine's own config type.
func engineConfig(cfg config.EngineConfig) engine.Config {
	return engine.Config{
		Weights: engine.Weights{
			Yield:       cfg.WeightYield,
			Health:      cfg.WeightHealth,
			Moisture:    cfg.WeightMoisture,
			DroughtRisk: cfg.WeightDroughtRisk,
		},
		Stress: engine.StressThresholds{
			HighMoisture:    cfg.StressHighMoisture,
			HighShortfall:   cfg.StressHighShortfall,
			MediumMoisture:  cfg.StressMediumMoisture,
			MediumShortfall: cfg.StressMediumShortfall,
		},
	}
}
