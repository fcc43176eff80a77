package landsat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hydrosense/irriga/internal/config"
)

// Client exposes the Landsat STAC catalog operations used by the application.
type Client interface {
	SearchScenes(ctx context.Context, req SearchScenesRequest) ([]Scene, error)
}

// APIClient is a resty-backed implementation of Client against the public
// USGS STAC server. Basic catalog searches require no authentication.
type APIClient struct {
	httpClient    *resty.Client
	maxCloudCover float64
	now           func() time.Time
}

// NewClient builds a Landsat STAC client using the provided configuration values.
func NewClient(cfg config.LandsatConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		maxCloudCover: cfg.MaxCloudCover,
		now:           time.Now,
	}
}

// SearchScenesRequest describes a point search over the scene catalog. A zero
// Since means the trailing 30 days; a zero MaxCloudCover means the client's
// configured ceiling.
type SearchScenesRequest struct {
	Latitude      float64
	Longitude     float64
	Since         time.Time
	MaxCloudCover float64
}

// Scene is one catalog hit in the searched area.
type Scene struct {
	SceneID      string  `json:"scene_id"`
	Date         string  `json:"date"`
	CloudCover   float64 `json:"cloud_cover"`
	ThumbnailURL string  `json:"thumbnail,omitempty"`
}

// stacItems mirrors the subset of the STAC item collection payload we consume.
type stacItems struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Datetime   string  `json:"datetime"`
			CloudCover float64 `json:"eo:cloud_cover"`
		} `json:"properties"`
		Assets map[string]struct {
			Href string `json:"href"`
		} `json:"assets"`
	} `json:"features"`
}

// SearchScenes queries the landsat-c2l2-sr collection for surface-reflectance
// scenes around the given point, inside a 0.1 degree buffer and under the
// configured cloud-cover ceiling.
func (c *APIClient) SearchScenes(ctx context.Context, req SearchScenesRequest) ([]Scene, error) {
	since := req.Since
	if since.IsZero() {
		since = c.now().AddDate(0, 0, -30)
	}
	maxCloud := req.MaxCloudCover
	if maxCloud <= 0 {
		maxCloud = c.maxCloudCover
	}

	bbox := fmt.Sprintf("%v,%v,%v,%v",
		req.Longitude-0.1, req.Latitude-0.1,
		req.Longitude+0.1, req.Latitude+0.1)
	window := fmt.Sprintf("%sT00:00:00Z/%sT23:59:59Z",
		since.Format("2006-01-02"), c.now().Format("2006-01-02"))

	result := new(stacItems)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"bbox":        bbox,
			"datetime":    window,
			"cloud_cover": fmt.Sprintf("0,%v", maxCloud),
			"limit":       "10",
		}).
		SetResult(result).
		Get("/collections/landsat-c2l2-sr/items")
	if err != nil {
		return nil, fmt.Errorf("search landsat scenes: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("landsat stac error: status=%d", resp.StatusCode())
	}

	scenes := make([]Scene, 0, len(result.Features))
	for _, feature := range result.Features {
		date := feature.Properties.Datetime
		if len(date) > 10 {
			date = date[:10]
		}
		scene := Scene{
			SceneID:    feature.ID,
			Date:       date,
			CloudCover: feature.Properties.CloudCover,
		}
		if thumb, ok := feature.Assets["thumbnail"]; ok {
			scene.ThumbnailURL = thumb.Href
		}
		scenes = append(scenes, scene)
	}

	return scenes, nil
}

// EstimateNDVI approximates a field's NDVI from ground observations when no
// processed raster is available. The estimate blends soil health, yield
// normalized against a 4 t/ha reference and a seasonal growth factor, clamped
// to the plausible [0.2, 0.8] band for cropland.
func EstimateNDVI(soilHealth, yieldTPH float64, month time.Month) float64 {
	seasonal := 0.3
	if month >= time.April && month <= time.September {
		seasonal = 0.7 + float64(month-time.April)*0.05
	}

	ndvi := 0.2 + soilHealth*0.3 + yieldTPH/4.0*0.2 + seasonal*0.1
	if ndvi < 0.2 {
		ndvi = 0.2
	}
	if ndvi > 0.8 {
		ndvi = 0.8
	}
	return ndvi
}
