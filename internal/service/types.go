// Package service contains the farm and map-session domain core for plat-farm.
package service

import "github.com/paulmach/orb"

// LayerID identifies a map layer from the closed catalog.
type LayerID string

// Known layer identifiers. The set is fixed at compile time; layers are not
// user-extensible at runtime.
const (
	LayerSSURGO LayerID = "ssurgo" // USDA soil survey polygons
	LayerCDL    LayerID = "cdl"    // cropland data layer
	LayerPLSS   LayerID = "plss"   // public land survey grid
	LayerCLU    LayerID = "clu"    // common land unit field boundaries
)

// LayerConfig describes one catalog layer: its identifier plus the display
// metadata the viewer UI needs to label its control button.
type LayerConfig struct {
	ID             LayerID `json:"id" doc:"Layer identifier" example:"ssurgo"`
	Name           string  `json:"name" doc:"Display name" example:"Soil Survey (SSURGO)"`
	ControlLabel   string  `json:"controlLabel" doc:"Caption for the map control button" example:"Soil Data"`
	DefaultVisible bool    `json:"defaultVisible" doc:"Whether the layer is visible when a session opens" example:"true"`
}

// Farm is one farm record. The JSON field names are a fixed interchange shape;
// Center marshals as a [lon, lat] pair.
type Farm struct {
	ID     string    `json:"id" doc:"Unique farm identifier" example:"1"`
	Name   string    `json:"name" doc:"Farm name" example:"Johnson Family Farm"`
	Owner  string    `json:"owner" doc:"Owner name" example:"Robert Johnson"`
	Acres  int       `json:"acres" minimum:"1" doc:"Total acreage" example:"1200"`
	County string    `json:"county" doc:"County" example:"Story"`
	State  string    `json:"state" doc:"State or region" example:"Iowa"`
	Center orb.Point `json:"center" doc:"Geographic center as [lon, lat]"`
	Fields []Field   `json:"fields" doc:"Fields belonging to this farm, in display order"`
}

// Field is one field within a farm. Fields have no lifecycle of their own;
// they live and die with their parent farm record.
type Field struct {
	ID    string `json:"id" doc:"Field identifier, unique within the farm" example:"f1"`
	Name  string `json:"name" doc:"Field name" example:"North Field"`
	Acres int    `json:"acres" minimum:"1" doc:"Field acreage" example:"400"`
	Crop  string `json:"crop" doc:"Current crop label" example:"Corn"`
}
