package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hydrosense/irriga/internal/domain/models"
	"github.com/hydrosense/irriga/internal/engine"
	"github.com/hydrosense/irriga/internal/repository/mongodb"
	"github.com/hydrosense/irriga/internal/service/analysis"
)

// AllocationHandler exposes allocation runs and report queries over HTTP.
type AllocationHandler struct {
	svc    analysis.Analyzer
	logger *zap.Logger
}

// NewAllocationHandler constructs the HTTP handler adapter.
func NewAllocationHandler(svc analysis.Analyzer, logger *zap.Logger) *AllocationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationHandler{svc: svc, logger: logger}
}

// Allocate runs a what-if allocation over the fields supplied in the request
// body. Nothing is fetched or persisted; excluded fields come back as
// warnings inside the batch.
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req models.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid allocation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	batch, err := h.svc.Allocate(req)
	if err != nil {
		if errors.Is(err, engine.ErrAllocationInput) || errors.Is(err, engine.ErrWeightConfiguration) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("allocation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "allocation failed"})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// RunReport triggers a full computation cycle and returns the stored report.
func (h *AllocationHandler) RunReport(c *gin.Context) {
	report, err := h.svc.RunCycle(c.Request.Context())
	if err != nil {
		h.logger.Error("allocation cycle failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run allocation cycle"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// LatestReport returns the most recent persisted report.
func (h *AllocationHandler) LatestReport(c *gin.Context) {
	report, err := h.svc.LatestReport(c.Request.Context())
	if err != nil {
		if errors.Is(err, mongodb.ErrNoReports) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no allocation reports yet"})
			return
		}
		h.logger.Error("failed loading latest report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DashboardData serves the aggregate payload consumed by the dashboard.
func (h *AllocationHandler) DashboardData(c *gin.Context) {
	data, err := h.svc.DashboardData(c.Request.Context())
	if err != nil {
		if errors.Is(err, mongodb.ErrNoReports) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no allocation reports yet"})
			return
		}
		h.logger.Error("failed building dashboard data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard data"})
		return
	}

	c.JSON(http.StatusOK, data)
}
