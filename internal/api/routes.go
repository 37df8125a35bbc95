// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-farm/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Farms    *service.FarmService
	Sessions *service.SessionService
	Catalog  *service.Catalog
}

// RegisterRoutes registers all REST routes on the given API.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}

// Types

type FarmIDInput struct {
	ID string `path:"id" doc:"Farm ID" example:"1"`
}

type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type FarmOutput struct {
	Body service.Farm
}

type FarmsOutput struct {
	Body []service.Farm
}

type LayersOutput struct {
	Body []service.LayerConfig
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

// SessionBody is the session-open contract: everything the map widget needs
// to initialize, plus the session ID for subsequent control calls.
type SessionBody struct {
	ID              string                `json:"id" doc:"Session ID"`
	FarmID          string                `json:"farmId" doc:"Farm this session is bound to" example:"1"`
	Center          [2]float64            `json:"center" doc:"Initial view center as [lon, lat]"`
	Zoom            float64               `json:"zoom" doc:"Initial zoom level" example:"12"`
	AvailableLayers []service.LayerConfig `json:"availableLayers" doc:"Full layer catalog"`
	VisibleLayers   []service.LayerID     `json:"visibleLayers" doc:"Initially visible layer IDs"`
}

type VisibleBody struct {
	VisibleLayers []service.LayerID `json:"visibleLayers" doc:"Currently visible layer IDs, in catalog order"`
}

// ResetBody carries the restored view target and visible set in one atomic
// response, so the renderer re-centers and the UI re-styles in a single step.
type ResetBody struct {
	Center        [2]float64        `json:"center" doc:"Restored view center as [lon, lat]"`
	Zoom          float64           `json:"zoom" doc:"Restored zoom level" example:"12"`
	VisibleLayers []service.LayerID `json:"visibleLayers" doc:"Restored visible layer IDs"`
}

type SelectLayerInput struct {
	SessionIDInput
	Body struct {
		Layer service.LayerID `json:"layer" required:"true" doc:"Layer to make exclusively visible" example:"cdl"`
	}
}

type OpenSessionInput struct {
	Body struct {
		FarmID string `json:"farmId" required:"true" doc:"Farm to open a map session for" example:"1"`
	}
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterFarms registers farm lookup routes.
func (h *APIHandler) RegisterFarms(api huma.API) {
	huma.Get(api, "/api/v1/farms", h.GetFarms, huma.OperationTags("farms"))
	huma.Get(api, "/api/v1/farms/geojson", h.GetFarmsGeoJSON, huma.OperationTags("farms"))
	huma.Get(api, "/api/v1/farms/{id}", h.GetFarm, huma.OperationTags("farms"))
}

// RegisterLayers registers layer catalog routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
}

// RegisterSessions registers map session routes.
func (h *APIHandler) RegisterSessions(api huma.API) {
	huma.Post(api, "/api/v1/sessions", h.OpenSession, huma.OperationTags("sessions"))
	huma.Get(api, "/api/v1/sessions/{id}", h.GetSession, huma.OperationTags("sessions"))
	huma.Delete(api, "/api/v1/sessions/{id}", h.CloseSession, huma.OperationTags("sessions"))
	huma.Post(api, "/api/v1/sessions/{id}/layer", h.SelectLayer, huma.OperationTags("sessions"))
	huma.Post(api, "/api/v1/sessions/{id}/reset", h.ResetView, huma.OperationTags("sessions"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "0.1.0"}}, nil
}

func (h *APIHandler) GetFarms(ctx context.Context, input *struct{}) (*FarmsOutput, error) {
	return &FarmsOutput{Body: h.svc.Farms.List()}, nil
}

func (h *APIHandler) GetFarm(ctx context.Context, input *FarmIDInput) (*FarmOutput, error) {
	farm, err := h.svc.Farms.Get(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("Farm not found")
	}
	return &FarmOutput{Body: farm}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*LayersOutput, error) {
	return &LayersOutput{Body: h.svc.Catalog.Layers()}, nil
}

func (h *APIHandler) OpenSession(ctx context.Context, input *OpenSessionInput) (*struct{ Body SessionBody }, error) {
	sess, err := h.svc.Sessions.Open(input.Body.FarmID)
	if err != nil {
		if errors.Is(err, service.ErrFarmNotFound) {
			return nil, huma.Error404NotFound("Farm not found")
		}
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &struct{ Body SessionBody }{Body: SessionBody{
		ID:              sess.ID,
		FarmID:          sess.Farm.ID,
		Center:          [2]float64(sess.View.Center),
		Zoom:            sess.View.Zoom,
		AvailableLayers: h.svc.Catalog.Layers(),
		VisibleLayers:   sess.Snapshot(),
	}}, nil
}

func (h *APIHandler) GetSession(ctx context.Context, input *SessionIDInput) (*struct{ Body VisibleBody }, error) {
	sess, err := h.svc.Sessions.Get(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("Session not found")
	}
	return &struct{ Body VisibleBody }{Body: VisibleBody{VisibleLayers: sess.Snapshot()}}, nil
}

func (h *APIHandler) CloseSession(ctx context.Context, input *SessionIDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Sessions.Close(input.ID); err != nil {
		return nil, huma.Error404NotFound("Session not found")
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Session closed"}}, nil
}

func (h *APIHandler) SelectLayer(ctx context.Context, input *SelectLayerInput) (*struct{ Body VisibleBody }, error) {
	visible, err := h.svc.Sessions.SelectLayer(input.ID, input.Body.Layer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return nil, huma.Error404NotFound("Session not found")
		case errors.Is(err, service.ErrUnknownLayer):
			// Caller bug: surface loudly rather than ignoring the layer.
			return nil, huma.Error400BadRequest(err.Error())
		default:
			return nil, huma.Error400BadRequest(err.Error())
		}
	}
	return &struct{ Body VisibleBody }{Body: VisibleBody{VisibleLayers: visible}}, nil
}

func (h *APIHandler) ResetView(ctx context.Context, input *SessionIDInput) (*struct{ Body ResetBody }, error) {
	view, visible, err := h.svc.Sessions.ResetView(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("Session not found")
	}
	return &struct{ Body ResetBody }{Body: ResetBody{
		Center:        [2]float64(view.Center),
		Zoom:          view.Zoom,
		VisibleLayers: visible,
	}}, nil
}
