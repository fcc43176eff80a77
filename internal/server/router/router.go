package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hydrosense/irriga/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(alloc *handlers.AllocationHandler, scenes *handlers.SceneHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/api/v1/allocations", alloc.Allocate)
	r.POST("/api/v1/reports/run", alloc.RunReport)
	r.GET("/api/v1/reports/latest", alloc.LatestReport)
	r.GET("/api/v1/scenes", scenes.Search)
	r.GET("/api/dashboard-data", alloc.DashboardData)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
