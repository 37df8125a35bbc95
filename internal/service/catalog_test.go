package service

import "testing"

func TestDefaultCatalogOrder(t *testing.T) {
	c := DefaultCatalog()

	want := []LayerID{LayerSSURGO, LayerCDL, LayerPLSS, LayerCLU}
	layers := c.Layers()
	if len(layers) != len(want) {
		t.Fatalf("got %d layers, want %d", len(layers), len(want))
	}
	for i, l := range layers {
		if l.ID != want[i] {
			t.Errorf("layer[%d] = %q, want %q", i, l.ID, want[i])
		}
	}
}

func TestCatalogStableAcrossCalls(t *testing.T) {
	c := DefaultCatalog()

	first := c.Layers()
	second := c.Layers()
	if len(first) != len(second) {
		t.Fatalf("layer count changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("layer[%d] changed between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCatalogIsKnown(t *testing.T) {
	c := DefaultCatalog()

	for _, id := range []LayerID{LayerSSURGO, LayerCDL, LayerPLSS, LayerCLU} {
		if !c.IsKnown(id) {
			t.Errorf("IsKnown(%q) = false, want true", id)
		}
	}
	if c.IsKnown("naip") {
		t.Error("IsKnown(naip) = true, want false")
	}
	if c.IsKnown("") {
		t.Error("IsKnown(empty) = true, want false")
	}
}

func TestCatalogGet(t *testing.T) {
	c := DefaultCatalog()

	l, ok := c.Get(LayerCDL)
	if !ok {
		t.Fatal("Get(cdl) not found")
	}
	if l.ControlLabel != "Crop Data" {
		t.Errorf("ControlLabel = %q, want Crop Data", l.ControlLabel)
	}

	if _, ok := c.Get("bogus"); ok {
		t.Error("Get(bogus) found, want not found")
	}
}

func TestCatalogDefaultVisible(t *testing.T) {
	got := DefaultCatalog().DefaultVisible()
	if len(got) != 1 || got[0] != LayerSSURGO {
		t.Fatalf("DefaultVisible = %v, want [ssurgo]", got)
	}
}
