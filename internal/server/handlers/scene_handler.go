package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hydrosense/irriga/pkg/clients/landsat"
)

// SceneHandler serves satellite scene lookups for the dashboard map.
type SceneHandler struct {
	client landsat.Client
	logger *zap.Logger
}

// NewSceneHandler constructs the HTTP handler adapter.
func NewSceneHandler(client landsat.Client, logger *zap.Logger) *SceneHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneHandler{client: client, logger: logger}
}

// Search returns recent low-cloud scenes around the requested point.
// lat and lon are required; since (YYYY-MM-DD) narrows the lookback window and
// cloud overrides the configured cloud-cover ceiling.
func (h *SceneHandler) Search(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be a number"})
		return
	}

	req := landsat.SearchScenesRequest{Latitude: lat, Longitude: lon}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be YYYY-MM-DD"})
			return
		}
		req.Since = since
	}
	if raw := c.Query("cloud"); raw != "" {
		cloud, err := strconv.ParseFloat(raw, 64)
		if err != nil || cloud < 0 || cloud > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cloud must be a percentage between 0 and 100"})
			return
		}
		req.MaxCloudCover = cloud
	}

	scenes, err := h.client.SearchScenes(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("scene search failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "scene catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(scenes), "scenes": scenes})
}
