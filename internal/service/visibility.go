package service

import (
	"errors"
	"fmt"
)

// ErrUnknownLayer reports a LayerID outside the catalog. This is a caller
// bug, not a user condition: handlers surface it loudly instead of silently
// ignoring it, which would desynchronize UI state from actual visibility.
var ErrUnknownLayer = errors.New("unknown layer")

// VisibilityState is the set of currently visible layers for one map
// session. It is always a subset of its catalog, and is mutated only through
// the methods below. Each session owns exactly one state instance and has a
// single logical owner, so the state itself carries no lock.
type VisibilityState struct {
	catalog *Catalog
	visible map[LayerID]struct{}
	initial []LayerID
}

// NewVisibilityState creates a state with the given initial subset. The
// initial subset is what Reset restores.
func NewVisibilityState(catalog *Catalog, initial []LayerID) (*VisibilityState, error) {
	for _, id := range initial {
		if !catalog.IsKnown(id) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, id)
		}
	}
	s := &VisibilityState{
		catalog: catalog,
		visible: make(map[LayerID]struct{}, len(initial)),
		initial: append([]LayerID(nil), initial...),
	}
	for _, id := range initial {
		s.visible[id] = struct{}{}
	}
	return s, nil
}

// Show makes a layer visible. Idempotent.
func (s *VisibilityState) Show(id LayerID) error {
	if !s.catalog.IsKnown(id) {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	s.visible[id] = struct{}{}
	return nil
}

// Hide removes a layer from the visible set. Hiding an already-hidden layer
// is a no-op.
func (s *VisibilityState) Hide(id LayerID) {
	delete(s.visible, id)
}

// ToggleExclusive makes exactly {id} visible. The category controls are
// mutually exclusive: selecting one data layer deselects the others. The
// unknown-layer check runs before any mutation, so a failed call leaves the
// visible set unchanged.
func (s *VisibilityState) ToggleExclusive(id LayerID) error {
	if !s.catalog.IsKnown(id) {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	clear(s.visible)
	s.visible[id] = struct{}{}
	return nil
}

// Reset restores the initial subset, not the empty set: the reset control
// re-centers the map without clearing layer selection. Repeated resets are
// idempotent.
func (s *VisibilityState) Reset() {
	clear(s.visible)
	for _, id := range s.initial {
		s.visible[id] = struct{}{}
	}
}

// Visible returns a snapshot of the visible set in catalog order, so UI
// reconciliation is deterministic across calls.
func (s *VisibilityState) Visible() []LayerID {
	ids := make([]LayerID, 0, len(s.visible))
	for _, l := range s.catalog.layers {
		if _, ok := s.visible[l.ID]; ok {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
