package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"

	"github.com/joeblew999/plat-farm/internal/service"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	UseCompatErrors()

	farms, err := service.NewFarmService(service.SeedFarms())
	if err != nil {
		t.Fatal(err)
	}
	catalog := service.DefaultCatalog()
	svc := &Services{
		Farms:    farms,
		Sessions: service.NewSessionService(farms, catalog, service.NewEventBus()),
		Catalog:  catalog,
	}

	_, api := humatest.New(t)
	RegisterRoutes(api, svc)
	return api
}

func decode(t *testing.T, data []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
}

func TestListFarms(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/farms")
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.Code)
	}

	var farms []service.Farm
	decode(t, resp.Body.Bytes(), &farms)
	if len(farms) != 2 {
		t.Fatalf("got %d farms, want 2", len(farms))
	}
	if farms[0].ID != "1" || farms[1].ID != "2" {
		t.Errorf("roster order = [%q %q], want [1 2]", farms[0].ID, farms[1].ID)
	}
}

func TestGetFarm(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/farms/1")
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.Code)
	}

	var farm service.Farm
	decode(t, resp.Body.Bytes(), &farm)
	if farm.Name != "Johnson Family Farm" {
		t.Errorf("name=%q, want Johnson Family Farm", farm.Name)
	}
	if len(farm.Fields) != 3 {
		t.Errorf("got %d fields, want 3", len(farm.Fields))
	}
}

func TestGetFarmNotFound(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/farms/999")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"error":"Farm not found"`) {
		t.Errorf("body = %s, want error field", resp.Body.String())
	}
}

func TestListLayers(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/layers")
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.Code)
	}

	var layers []service.LayerConfig
	decode(t, resp.Body.Bytes(), &layers)
	if len(layers) != 4 {
		t.Fatalf("got %d layers, want 4", len(layers))
	}
	if layers[0].ID != service.LayerSSURGO || !layers[0].DefaultVisible {
		t.Errorf("layers[0] = %+v, want default-visible ssurgo", layers[0])
	}
}

func TestFarmsGeoJSON(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/farms/geojson")
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.Code)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string     `json:"type"`
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	decode(t, resp.Body.Bytes(), &fc)
	if fc.Type != "FeatureCollection" {
		t.Fatalf("type=%q, want FeatureCollection", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	f := fc.Features[0]
	if f.Geometry.Type != "Point" {
		t.Errorf("geometry type=%q, want Point", f.Geometry.Type)
	}
	if f.Geometry.Coordinates != [2]float64{-93.5, 42.0} {
		t.Errorf("coordinates=%v, want [-93.5 42]", f.Geometry.Coordinates)
	}
	if f.Properties["name"] != "Johnson Family Farm" {
		t.Errorf("name=%v, want Johnson Family Farm", f.Properties["name"])
	}
}

func TestSessionLifecycle(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/sessions", map[string]any{"farmId": "1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("open status=%d, want 200: %s", resp.Code, resp.Body.String())
	}

	var sess SessionBody
	decode(t, resp.Body.Bytes(), &sess)
	if sess.ID == "" {
		t.Fatal("session ID is empty")
	}
	if sess.Center != [2]float64{-93.5, 42.0} {
		t.Errorf("center=%v, want [-93.5 42]", sess.Center)
	}
	if sess.Zoom != 12 {
		t.Errorf("zoom=%v, want 12", sess.Zoom)
	}
	if len(sess.AvailableLayers) != 4 {
		t.Errorf("got %d available layers, want 4", len(sess.AvailableLayers))
	}
	if len(sess.VisibleLayers) != 1 || sess.VisibleLayers[0] != service.LayerSSURGO {
		t.Errorf("visible=%v, want [ssurgo]", sess.VisibleLayers)
	}

	// Exclusive selection: cdl then plss, never both.
	resp = api.Post("/api/v1/sessions/"+sess.ID+"/layer", map[string]any{"layer": "cdl"})
	if resp.Code != http.StatusOK {
		t.Fatalf("select status=%d: %s", resp.Code, resp.Body.String())
	}
	var visible VisibleBody
	decode(t, resp.Body.Bytes(), &visible)
	if len(visible.VisibleLayers) != 1 || visible.VisibleLayers[0] != service.LayerCDL {
		t.Errorf("visible=%v, want [cdl]", visible.VisibleLayers)
	}

	resp = api.Post("/api/v1/sessions/"+sess.ID+"/layer", map[string]any{"layer": "plss"})
	decode(t, resp.Body.Bytes(), &visible)
	if len(visible.VisibleLayers) != 1 || visible.VisibleLayers[0] != service.LayerPLSS {
		t.Errorf("visible=%v, want [plss]", visible.VisibleLayers)
	}

	// Reset restores the initial subset and the original camera target.
	resp = api.Post("/api/v1/sessions/" + sess.ID + "/reset")
	if resp.Code != http.StatusOK {
		t.Fatalf("reset status=%d: %s", resp.Code, resp.Body.String())
	}
	var reset ResetBody
	decode(t, resp.Body.Bytes(), &reset)
	if reset.Center != [2]float64{-93.5, 42.0} || reset.Zoom != 12 {
		t.Errorf("view=(%v, %v), want ([-93.5 42], 12)", reset.Center, reset.Zoom)
	}
	if len(reset.VisibleLayers) != 1 || reset.VisibleLayers[0] != service.LayerSSURGO {
		t.Errorf("visible=%v, want [ssurgo]", reset.VisibleLayers)
	}

	// Snapshot agrees with the last mutation.
	resp = api.Get("/api/v1/sessions/" + sess.ID)
	decode(t, resp.Body.Bytes(), &visible)
	if len(visible.VisibleLayers) != 1 || visible.VisibleLayers[0] != service.LayerSSURGO {
		t.Errorf("snapshot=%v, want [ssurgo]", visible.VisibleLayers)
	}

	resp = api.Delete("/api/v1/sessions/" + sess.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("close status=%d", resp.Code)
	}
	resp = api.Get("/api/v1/sessions/" + sess.ID)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status=%d after close, want 404", resp.Code)
	}
}

func TestOpenSessionUnknownFarm(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/sessions", map[string]any{"farmId": "999"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"error":"Farm not found"`) {
		t.Errorf("body = %s, want compat error shape", resp.Body.String())
	}
}

func TestSelectUnknownLayer(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/sessions", map[string]any{"farmId": "1"})
	var sess SessionBody
	decode(t, resp.Body.Bytes(), &sess)

	resp = api.Post("/api/v1/sessions/"+sess.ID+"/layer", map[string]any{"layer": "naip"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.Code)
	}

	// Failed selection left the visible set unchanged.
	resp = api.Get("/api/v1/sessions/" + sess.ID)
	var visible VisibleBody
	decode(t, resp.Body.Bytes(), &visible)
	if len(visible.VisibleLayers) != 1 || visible.VisibleLayers[0] != service.LayerSSURGO {
		t.Errorf("visible=%v, want [ssurgo]", visible.VisibleLayers)
	}
}
