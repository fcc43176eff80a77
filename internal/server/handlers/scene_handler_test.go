package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hydrosense/irriga/pkg/clients/landsat"
)

type fakeSceneClient struct {
	req    *landsat.SearchScenesRequest
	scenes []landsat.Scene
	err    error
}

func (f *fakeSceneClient) SearchScenes(ctx context.Context, req landsat.SearchScenesRequest) ([]landsat.Scene, error) {
	f.req = &req
	return f.scenes, f.err
}

func newSceneRouter(client *fakeSceneClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSceneHandler(client, nil)

	r := gin.New()
	r.GET("/api/v1/scenes", h.Search)
	return r
}

func TestSceneSearchEndpoint(t *testing.T) {
	client := &fakeSceneClient{
		scenes: []landsat.Scene{
			{SceneID: "LC09_L2SP_044034", Date: "2026-08-12", CloudCover: 4.2},
			{SceneID: "LC08_L2SP_044034", Date: "2026-08-04", CloudCover: 11.7},
		},
	}
	r := newSceneRouter(client)

	w := perform(t, r, http.MethodGet, "/api/v1/scenes?lat=36.85&lon=-121.45", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if client.req == nil {
		t.Fatal("client was not called")
	}
	if client.req.Latitude != 36.85 || client.req.Longitude != -121.45 {
		t.Errorf("client point = (%g, %g), want (36.85, -121.45)", client.req.Latitude, client.req.Longitude)
	}
	if !client.req.Since.IsZero() {
		t.Errorf("since should stay zero when the query omits it, got %v", client.req.Since)
	}

	var got struct {
		Count  int             `json:"count"`
		Scenes []landsat.Scene `json:"scenes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Count != 2 || len(got.Scenes) != 2 {
		t.Fatalf("count = %d, scenes = %d, want 2 and 2", got.Count, len(got.Scenes))
	}
	if got.Scenes[0].SceneID != "LC09_L2SP_044034" {
		t.Errorf("first scene = %q, want LC09_L2SP_044034", got.Scenes[0].SceneID)
	}
}

func TestSceneSearchEndpointSinceWindow(t *testing.T) {
	client := &fakeSceneClient{}
	r := newSceneRouter(client)

	w := perform(t, r, http.MethodGet, "/api/v1/scenes?lat=36.85&lon=-121.45&since=2026-07-01", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	if client.req == nil || !client.req.Since.Equal(want) {
		t.Fatalf("client since = %v, want %v", client.req.Since, want)
	}
}

func TestSceneSearchEndpointCloudOverride(t *testing.T) {
	client := &fakeSceneClient{}
	r := newSceneRouter(client)

	w := perform(t, r, http.MethodGet, "/api/v1/scenes?lat=36.85&lon=-121.45&cloud=35", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if client.req == nil || client.req.MaxCloudCover != 35 {
		t.Fatalf("client cloud ceiling = %v, want 35", client.req.MaxCloudCover)
	}
}

func TestSceneSearchEndpointBadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=-121.45"},
		{"missing lon", "lat=36.85"},
		{"non numeric lat", "lat=north&lon=-121.45"},
		{"malformed since", "lat=36.85&lon=-121.45&since=July"},
		{"cloud above 100", "lat=36.85&lon=-121.45&cloud=120"},
		{"non numeric cloud", "lat=36.85&lon=-121.45&cloud=overcast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSceneClient{}
			r := newSceneRouter(client)

			w := perform(t, r, http.MethodGet, "/api/v1/scenes?"+tt.query, "")

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if client.req != nil {
				t.Error("client should not be called on a rejected query")
			}
		})
	}
}

func TestSceneSearchEndpointUpstreamFailure(t *testing.T) {
	client := &fakeSceneClient{err: errors.New("stac timeout")}
	r := newSceneRouter(client)

	w := perform(t, r, http.MethodGet, "/api/v1/scenes?lat=36.85&lon=-121.45", "")

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if got := errorBody(t, w); got != "scene catalog unavailable" {
		t.Errorf("error = %q, want %q", got, "scene catalog unavailable")
	}
}
