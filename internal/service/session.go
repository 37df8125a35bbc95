package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// DefaultZoom is the zoom level a session opens at and returns to on reset.
const DefaultZoom = 12

// ErrSessionNotFound reports a session identifier with no live session.
var ErrSessionNotFound = errors.New("session not found")

// View is a map camera target.
type View struct {
	Center orb.Point `json:"center" doc:"Camera center as [lon, lat]"`
	Zoom   float64   `json:"zoom" doc:"Camera zoom level" example:"12"`
}

// Session binds one farm record to one visibility state and a view target.
// One session has exactly one state instance, and one logical owner at a
// time, so session methods carry no lock of their own.
type Session struct {
	ID    string
	Farm  Farm
	View  View
	state *VisibilityState
}

// SelectLayer makes exactly {id} visible and returns the resulting set for
// UI reconciliation. Unknown layers fail without changing the set.
func (s *Session) SelectLayer(id LayerID) ([]LayerID, error) {
	if err := s.state.ToggleExclusive(id); err != nil {
		return nil, err
	}
	return s.state.Visible(), nil
}

// ResetView restores the initial visible subset and returns the original
// view target alongside it, so the renderer can re-center and the UI can
// re-derive active-control styling in one response.
func (s *Session) ResetView() (View, []LayerID) {
	s.state.Reset()
	return s.View, s.state.Visible()
}

// Snapshot returns the current visible set without mutating anything.
func (s *Session) Snapshot() []LayerID {
	return s.state.Visible()
}

// SessionService creates and tracks map sessions. The registry itself is
// shared across request handlers, so it is lock-guarded even though each
// session has a single owner.
type SessionService struct {
	farms   *FarmService
	catalog *Catalog
	bus     *EventBus

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates a session registry over the given farm store and
// layer catalog. Session mutations are published on bus.
func NewSessionService(farms *FarmService, catalog *Catalog, bus *EventBus) *SessionService {
	return &SessionService{
		farms:    farms,
		catalog:  catalog,
		bus:      bus,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for a farm's detail view. The visible set starts at
// the catalog defaults and the view at the farm's center.
func (s *SessionService) Open(farmID string) (*Session, error) {
	farm, err := s.farms.Get(farmID)
	if err != nil {
		return nil, err
	}

	state, err := NewVisibilityState(s.catalog, s.catalog.DefaultVisible())
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:    uuid.NewString(),
		Farm:  farm,
		View:  View{Center: farm.Center, Zoom: DefaultZoom},
		state: state,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.publish("opened", sess.ID, state.Visible())
	return sess, nil
}

// Get returns a live session by ID.
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return sess, nil
}

// SelectLayer applies an exclusive layer selection to a session and
// publishes the change.
func (s *SessionService) SelectLayer(id string, layer LayerID) ([]LayerID, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	visible, err := sess.SelectLayer(layer)
	if err != nil {
		return nil, err
	}
	s.publish("layer-selected", id, visible)
	return visible, nil
}

// ResetView resets a session's visible set and view target and publishes the
// change.
func (s *SessionService) ResetView(id string) (View, []LayerID, error) {
	sess, err := s.Get(id)
	if err != nil {
		return View{}, nil, err
	}
	view, visible := sess.ResetView()
	s.publish("reset", id, visible)
	return view, visible, nil
}

// Close destroys a session. Its visibility state dies with it.
func (s *SessionService) Close(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	s.publish("closed", id, nil)
	return nil
}

func (s *SessionService) publish(action, id string, visible []LayerID) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(Event{Resource: "sessions", Action: action, ID: id, Layers: visible})
}
