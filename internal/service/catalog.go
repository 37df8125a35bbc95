package service

// Catalog is the closed registry of known map layers. It is the single place
// that knows which LayerIDs are valid, so VisibilityState can enforce its
// subset invariant without duplicating the list.
type Catalog struct {
	layers []LayerConfig
	index  map[LayerID]int
}

// NewCatalog creates a catalog from an ordered layer list. The order given
// here is the order Layers and VisibilityState snapshots report.
func NewCatalog(layers []LayerConfig) *Catalog {
	c := &Catalog{
		layers: append([]LayerConfig(nil), layers...),
		index:  make(map[LayerID]int, len(layers)),
	}
	for i, l := range c.layers {
		c.index[l.ID] = i
	}
	return c
}

// DefaultCatalog returns the standard land-data layer set. Only the soil
// survey is visible when a session opens.
func DefaultCatalog() *Catalog {
	return NewCatalog([]LayerConfig{
		{ID: LayerSSURGO, Name: "Soil Survey (SSURGO)", ControlLabel: "Soil Data", DefaultVisible: true},
		{ID: LayerCDL, Name: "Cropland Data Layer (CDL)", ControlLabel: "Crop Data"},
		{ID: LayerPLSS, Name: "Survey Grid (PLSS)", ControlLabel: "Survey Lines"},
		{ID: LayerCLU, Name: "Field Boundaries (CLU)", ControlLabel: "Field Boundaries"},
	})
}

// Layers returns all layer configurations in catalog order.
func (c *Catalog) Layers() []LayerConfig {
	return append([]LayerConfig(nil), c.layers...)
}

// Get returns a layer configuration by ID.
func (c *Catalog) Get(id LayerID) (LayerConfig, bool) {
	i, ok := c.index[id]
	if !ok {
		return LayerConfig{}, false
	}
	return c.layers[i], true
}

// IsKnown reports whether id is a valid catalog layer.
func (c *Catalog) IsKnown(id LayerID) bool {
	_, ok := c.index[id]
	return ok
}

// DefaultVisible returns the IDs of layers visible at session open, in
// catalog order.
func (c *Catalog) DefaultVisible() []LayerID {
	var ids []LayerID
	for _, l := range c.layers {
		if l.DefaultVisible {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
