package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// ErrFarmNotFound reports a farm identifier with no record. Recoverable by
// the caller; the API edge maps it to a 404.
var ErrFarmNotFound = errors.New("farm not found")

// FarmService is an in-memory, read-only store of farm records. It is
// populated once at construction and never mutated after, so it may be
// shared across sessions without locking.
type FarmService struct {
	farms map[string]Farm
	order []string
}

// NewFarmService creates a farm store from an ordered roster. List reports
// farms in the order given here.
func NewFarmService(farms []Farm) (*FarmService, error) {
	s := &FarmService{
		farms: make(map[string]Farm, len(farms)),
		order: make([]string, 0, len(farms)),
	}
	for _, f := range farms {
		if err := validateFarm(f); err != nil {
			return nil, err
		}
		if _, exists := s.farms[f.ID]; exists {
			return nil, fmt.Errorf("duplicate farm ID %q", f.ID)
		}
		s.farms[f.ID] = f
		s.order = append(s.order, f.ID)
	}
	return s, nil
}

func validateFarm(f Farm) error {
	if f.ID == "" {
		return fmt.Errorf("farm %q: missing ID", f.Name)
	}
	if f.Acres <= 0 {
		return fmt.Errorf("farm %q: acres must be positive", f.ID)
	}
	seen := make(map[string]struct{}, len(f.Fields))
	for _, fld := range f.Fields {
		if fld.ID == "" {
			return fmt.Errorf("farm %q: field %q: missing ID", f.ID, fld.Name)
		}
		if _, dup := seen[fld.ID]; dup {
			return fmt.Errorf("farm %q: duplicate field ID %q", f.ID, fld.ID)
		}
		seen[fld.ID] = struct{}{}
		if fld.Acres <= 0 {
			return fmt.Errorf("farm %q: field %q: acres must be positive", f.ID, fld.ID)
		}
	}
	return nil
}

// List returns all farms in roster order.
func (s *FarmService) List() []Farm {
	farms := make([]Farm, 0, len(s.order))
	for _, id := range s.order {
		farms = append(farms, s.farms[id])
	}
	return farms
}

// Get returns a farm by ID.
func (s *FarmService) Get(id string) (Farm, error) {
	f, ok := s.farms[id]
	if !ok {
		return Farm{}, fmt.Errorf("%w: %q", ErrFarmNotFound, id)
	}
	return f, nil
}

// Count returns the number of loaded farms.
func (s *FarmService) Count() int {
	return len(s.order)
}

// farmsFile is the on-disk roster format.
type farmsFile struct {
	Farms []Farm `yaml:"farms"`
}

// LoadFarmsFile reads a farm roster from a YAML file.
func LoadFarmsFile(path string) ([]Farm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading farms file: %w", err)
	}
	var file farmsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing farms file %s: %w", path, err)
	}
	return file.Farms, nil
}

// SeedFarms returns the built-in demo roster, used when no farms file is
// configured.
func SeedFarms() []Farm {
	return []Farm{
		{
			ID:     "1",
			Name:   "Johnson Family Farm",
			Owner:  "Robert Johnson",
			Acres:  1200,
			County: "Story",
			State:  "Iowa",
			Center: orb.Point{-93.5, 42.0},
			Fields: []Field{
				{ID: "f1", Name: "North Field", Acres: 400, Crop: "Corn"},
				{ID: "f2", Name: "South Field", Acres: 350, Crop: "Soybeans"},
				{ID: "f3", Name: "East Field", Acres: 450, Crop: "Corn"},
			},
		},
		{
			ID:     "2",
			Name:   "Prairie View Farms",
			Owner:  "Sarah Miller",
			Acres:  800,
			County: "Hamilton",
			State:  "Nebraska",
			Center: orb.Point{-98.1, 41.2},
			Fields: []Field{
				{ID: "f4", Name: "West Section", Acres: 400, Crop: "Wheat"},
				{ID: "f5", Name: "East Section", Acres: 400, Crop: "Corn"},
			},
		},
	}
}
