package controls

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-farm/internal/humastar"
	"github.com/joeblew999/plat-farm/internal/service"
	"github.com/joeblew999/plat-farm/internal/templates"
)

// EventHandler streams session change events to the Datastar UI via SSE, so
// a polling-free page stays reconciled with the visible set.
type EventHandler struct {
	humastar.Handler
	sessions *service.SessionService
	catalog  *service.Catalog
	bus      *service.EventBus
}

// NewEventHandler creates a new event handler.
func NewEventHandler(sessions *service.SessionService, catalog *service.Catalog, bus *service.EventBus, renderer *templates.Renderer) *EventHandler {
	return &EventHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		catalog:  catalog,
		bus:      bus,
	}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/controls/events", h.Events,
		huma.OperationTags("controls"),
	)
}

func (h *EventHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := humastar.NewSSE(humaCtx)
			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-ch:
					if ev.Resource != "sessions" {
						continue
					}
					if ev.Action == "layer-selected" || ev.Action == "reset" {
						ctrl := &ControlHandler{
							Handler:  h.Handler,
							sessions: h.sessions,
							catalog:  h.catalog,
						}
						sse.Patch(ctrl.renderControls(ev.Layers), "#map-controls")
					}
					sse.Signals(map[string]any{
						"session":       ev.ID,
						"sessionAction": ev.Action,
					})
				}
			}
		},
	}, nil
}
