package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func seedService(t *testing.T) *FarmService {
	t.Helper()
	s, err := NewFarmService(SeedFarms())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGetReturnsMatchingID(t *testing.T) {
	s := seedService(t)

	for _, want := range s.List() {
		got, err := s.Get(want.ID)
		if err != nil {
			t.Fatalf("Get(%q): %v", want.ID, err)
		}
		if got.ID != want.ID {
			t.Errorf("Get(%q).ID = %q", want.ID, got.ID)
		}
	}
}

func TestGetUnknownFarm(t *testing.T) {
	s := seedService(t)

	_, err := s.Get("999")
	if !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("err = %v, want ErrFarmNotFound", err)
	}
}

func TestListOrderStable(t *testing.T) {
	s := seedService(t)

	first := s.List()
	second := s.List()
	if len(first) != 2 {
		t.Fatalf("got %d farms, want 2", len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("list order changed at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
	if first[0].ID != "1" || first[1].ID != "2" {
		t.Errorf("roster order = [%q %q], want [1 2]", first[0].ID, first[1].ID)
	}
}

func TestSeedRoster(t *testing.T) {
	s := seedService(t)

	farm, err := s.Get("1")
	if err != nil {
		t.Fatal(err)
	}
	if farm.Name != "Johnson Family Farm" {
		t.Errorf("name = %q, want Johnson Family Farm", farm.Name)
	}
	if len(farm.Fields) != 3 {
		t.Errorf("got %d fields, want 3", len(farm.Fields))
	}
	if farm.Center != (orb.Point{-93.5, 42.0}) {
		t.Errorf("center = %v, want [-93.5 42]", farm.Center)
	}
}

func TestNewFarmServiceValidation(t *testing.T) {
	cases := []struct {
		name  string
		farms []Farm
	}{
		{"duplicate farm ID", []Farm{
			{ID: "1", Name: "A", Acres: 10},
			{ID: "1", Name: "B", Acres: 10},
		}},
		{"missing farm ID", []Farm{{Name: "A", Acres: 10}}},
		{"non-positive acres", []Farm{{ID: "1", Name: "A", Acres: 0}}},
		{"duplicate field ID", []Farm{{
			ID: "1", Name: "A", Acres: 10,
			Fields: []Field{
				{ID: "f1", Name: "N", Acres: 5},
				{ID: "f1", Name: "S", Acres: 5},
			},
		}}},
		{"non-positive field acres", []Farm{{
			ID: "1", Name: "A", Acres: 10,
			Fields: []Field{{ID: "f1", Name: "N", Acres: -1}},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewFarmService(tc.farms); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFarmsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farms.yaml")
	roster := `farms:
  - id: "10"
    name: Cedar Creek Ranch
    owner: Dana Whitfield
    acres: 640
    county: Polk
    state: Iowa
    center: [-93.7, 41.6]
    fields:
      - id: f1
        name: Creek Bottom
        acres: 320
        crop: Corn
      - id: f2
        name: Upland
        acres: 320
        crop: Alfalfa
`
	if err := os.WriteFile(path, []byte(roster), 0644); err != nil {
		t.Fatal(err)
	}

	farms, err := LoadFarmsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(farms) != 1 {
		t.Fatalf("got %d farms, want 1", len(farms))
	}
	f := farms[0]
	if f.ID != "10" || f.Owner != "Dana Whitfield" {
		t.Errorf("farm = %+v", f)
	}
	if f.Center != (orb.Point{-93.7, 41.6}) {
		t.Errorf("center = %v, want [-93.7 41.6]", f.Center)
	}
	if len(f.Fields) != 2 || f.Fields[1].Crop != "Alfalfa" {
		t.Errorf("fields = %+v", f.Fields)
	}
}

func TestLoadFarmsFileMissing(t *testing.T) {
	if _, err := LoadFarmsFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
