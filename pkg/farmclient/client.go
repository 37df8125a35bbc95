// Package farmclient is a small Go client for the plat-farm API.
package farmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client talks to a plat-farm server.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8087".
func New(base string) *Client {
	return &Client{base: base, http: http.DefaultClient}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Field mirrors the server's field record shape.
type Field struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Acres int    `json:"acres"`
	Crop  string `json:"crop"`
}

// Farm mirrors the server's farm record shape.
type Farm struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Owner  string     `json:"owner"`
	Acres  int        `json:"acres"`
	County string     `json:"county"`
	State  string     `json:"state"`
	Center [2]float64 `json:"center"`
	Fields []Field    `json:"fields"`
}

// Layer is one catalog layer.
type Layer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ControlLabel   string `json:"controlLabel"`
	DefaultVisible bool   `json:"defaultVisible"`
}

// Health is the health check response.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Session is the session-open response.
type Session struct {
	ID              string     `json:"id"`
	FarmID          string     `json:"farmId"`
	Center          [2]float64 `json:"center"`
	Zoom            float64    `json:"zoom"`
	AvailableLayers []Layer    `json:"availableLayers"`
	VisibleLayers   []string   `json:"visibleLayers"`
}

// Visible is a visible-set snapshot.
type Visible struct {
	VisibleLayers []string `json:"visibleLayers"`
}

// Reset is the reset-view response.
type Reset struct {
	Center        [2]float64 `json:"center"`
	Zoom          float64    `json:"zoom"`
	VisibleLayers []string   `json:"visibleLayers"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Health checks server health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

// ListFarms returns all farm records in roster order.
func (c *Client) ListFarms(ctx context.Context) ([]Farm, error) {
	var farms []Farm
	err := c.do(ctx, http.MethodGet, "/api/v1/farms", nil, &farms)
	return farms, err
}

// GetFarm returns one farm record.
func (c *Client) GetFarm(ctx context.Context, id string) (Farm, error) {
	var f Farm
	err := c.do(ctx, http.MethodGet, "/api/v1/farms/"+id, nil, &f)
	return f, err
}

// ListLayers returns the layer catalog.
func (c *Client) ListLayers(ctx context.Context) ([]Layer, error) {
	var layers []Layer
	err := c.do(ctx, http.MethodGet, "/api/v1/layers", nil, &layers)
	return layers, err
}

// OpenSession opens a map session for a farm.
func (c *Client) OpenSession(ctx context.Context, farmID string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions", map[string]string{"farmId": farmID}, &s)
	return s, err
}

// Snapshot returns a session's current visible set.
func (c *Client) Snapshot(ctx context.Context, sessionID string) (Visible, error) {
	var v Visible
	err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+sessionID, nil, &v)
	return v, err
}

// SelectLayer makes exactly one layer visible in a session.
func (c *Client) SelectLayer(ctx context.Context, sessionID, layer string) (Visible, error) {
	var v Visible
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+sessionID+"/layer", map[string]string{"layer": layer}, &v)
	return v, err
}

// ResetView restores a session's initial view and visible set.
func (c *Client) ResetView(ctx context.Context, sessionID string) (Reset, error) {
	var r Reset
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+sessionID+"/reset", nil, &r)
	return r, err
}

// CloseSession destroys a session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+sessionID, nil, nil)
}
