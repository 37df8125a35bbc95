package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONOutput is a raw GeoJSON response body.
type GeoJSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// GetFarmsGeoJSON returns the farm roster as a FeatureCollection of center
// pins, for dropping markers on an overview map.
func (h *APIHandler) GetFarmsGeoJSON(ctx context.Context, input *struct{}) (*GeoJSONOutput, error) {
	fc := geojson.NewFeatureCollection()
	for _, farm := range h.svc.Farms.List() {
		f := geojson.NewFeature(farm.Center)
		f.ID = farm.ID
		f.Properties = geojson.Properties{
			"id":     farm.ID,
			"name":   farm.Name,
			"owner":  farm.Owner,
			"acres":  farm.Acres,
			"county": farm.County,
			"state":  farm.State,
			"fields": len(farm.Fields),
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to encode GeoJSON", err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: data}, nil
}
