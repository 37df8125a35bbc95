// Package controls contains Datastar SSE handlers for the map control UI.
package controls

import (
	"bytes"
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-farm/internal/humastar"
	"github.com/joeblew999/plat-farm/internal/service"
	"github.com/joeblew999/plat-farm/internal/templates"
)

// ControlHandler drives the map control buttons. Each press mutates the
// session's visibility state; the handler then patches the button group so
// active styling is a pure function of the visible set, not of what the
// browser thinks it clicked.
type ControlHandler struct {
	humastar.Handler
	sessions *service.SessionService
	catalog  *service.Catalog
}

// NewControlHandler creates a new control handler.
func NewControlHandler(sessions *service.SessionService, catalog *service.Catalog, renderer *templates.Renderer) *ControlHandler {
	return &ControlHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		catalog:  catalog,
	}
}

func (h *ControlHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/controls/{id}", h.GetControls, huma.OperationTags("controls"))
	huma.Post(api, "/api/v1/controls/{id}/select", h.SelectLayer, huma.OperationTags("controls"))
	huma.Post(api, "/api/v1/controls/{id}/reset", h.ResetView, huma.OperationTags("controls"))
}

type ControlsInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type SelectInput struct {
	ID string `path:"id" doc:"Session ID"`
	humastar.SignalsInput
}

// GetControls renders the button group for a session. The detail page calls
// this once the map widget reports ready.
func (h *ControlHandler) GetControls(ctx context.Context, input *ControlsInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sess, err := h.sessions.Get(input.ID)
		if err != nil {
			sse.Error("Session not found")
			return
		}
		sse.Patch(h.renderControls(sess.Snapshot()), "#map-controls")
	}), nil
}

// SelectLayer applies an exclusive layer selection from the `layer` signal.
func (h *ControlHandler) SelectLayer(ctx context.Context, input *SelectInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	layer := service.LayerID(signals.String("layer"))
	if layer == "" {
		return nil, huma.Error400BadRequest("Layer is required")
	}

	return h.Stream(func(sse humastar.SSE) {
		visible, err := h.sessions.SelectLayer(input.ID, layer)
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Patch(h.renderControls(visible), "#map-controls")
		sse.Signals(map[string]any{"visibleLayers": layerStrings(visible)})
	}), nil
}

// ResetView restores the session's initial view and visible set, and hands
// the restored camera target to the map widget via signals.
func (h *ControlHandler) ResetView(ctx context.Context, input *ControlsInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		view, visible, err := h.sessions.ResetView(input.ID)
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Patch(h.renderControls(visible), "#map-controls")
		sse.Signals(map[string]any{
			"center":        []float64{view.Center.Lon(), view.Center.Lat()},
			"zoom":          view.Zoom,
			"visibleLayers": layerStrings(visible),
		})
	}), nil
}

// ControlButtonData feeds the control-button fragment template.
type ControlButtonData struct {
	ID     service.LayerID
	Label  string
	Active bool
}

// renderControls renders one button per catalog layer; a button is active
// exactly when its layer is in the visible set.
func (h *ControlHandler) renderControls(visible []service.LayerID) string {
	active := make(map[service.LayerID]struct{}, len(visible))
	for _, id := range visible {
		active[id] = struct{}{}
	}

	var buf bytes.Buffer
	for _, layer := range h.catalog.Layers() {
		_, on := active[layer.ID]
		h.Renderer.RenderToBuffer(&buf, "control-button", ControlButtonData{
			ID:     layer.ID,
			Label:  layer.ControlLabel,
			Active: on,
		})
	}
	return buf.String()
}

func layerStrings(ids []service.LayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
