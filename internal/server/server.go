// Package server wires the plat-farm services into an HTTP handler.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-farm/internal/api"
	"github.com/joeblew999/plat-farm/internal/api/controls"
	"github.com/joeblew999/plat-farm/internal/db"
	"github.com/joeblew999/plat-farm/internal/service"
	"github.com/joeblew999/plat-farm/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      string
	DataDir   string
	WebDir    string // Path to web/ directory for static files and templates
	FarmsFile string // YAML farm roster; empty means the built-in seed roster
}

// Server is the plat-farm HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	bus      *service.EventBus
	renderer *templates.Renderer
}

// New creates a new plat-farm server. It fails if the farm roster cannot be
// loaded or validated; an unavailable analytics database only disables the
// query endpoints.
func New(cfg Config) (*Server, error) {
	api.UseCompatErrors()

	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-farm API", "0.1.0")
	humaConfig.Info.Description = "Farm and field data service with per-client map layer sessions."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	// Load the farm roster
	roster := service.SeedFarms()
	if cfg.FarmsFile != "" {
		var err error
		roster, err = service.LoadFarmsFile(cfg.FarmsFile)
		if err != nil {
			return nil, err
		}
	}
	farms, err := service.NewFarmService(roster)
	if err != nil {
		return nil, err
	}

	catalog := service.DefaultCatalog()
	bus := service.NewEventBus()
	services := &api.Services{
		Farms:    farms,
		Sessions: service.NewSessionService(farms, catalog, bus),
		Catalog:  catalog,
	}

	// Initialize template renderer for the control SSE handlers
	var renderer *templates.Renderer
	if cfg.WebDir != "" {
		fragmentsDir := filepath.Join(cfg.WebDir, "templates", "fragments")
		if r, err := templates.New(fragmentsDir); err == nil {
			renderer = r
			fmt.Printf("Loaded fragment templates from %s\n", fragmentsDir)
		}
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
		bus:      bus,
		renderer: renderer,
	}

	// Initialize the DuckDB analytics mirror
	conn, err := db.Get(db.Config{
		DataDir: cfg.DataDir,
		DBName:  "farm",
	})
	if err == nil {
		if err := db.LoadFarms(conn, farms.List()); err == nil {
			s.db = conn
		}
	}

	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

// OpenAPI returns the generated OpenAPI description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// FarmCount returns the number of loaded farm records.
func (s *Server) FarmCount() int {
	return s.services.Farms.Count()
}

func (s *Server) routes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.config.DataDir, s.services.Farms.Count(), s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	// Register map control SSE routes using Huma + Datastar SDK
	if s.renderer != nil {
		controlHandler := controls.NewControlHandler(s.services.Sessions, s.services.Catalog, s.renderer)
		controlHandler.RegisterRoutes(s.humaAPI)

		eventHandler := controls.NewEventHandler(s.services.Sessions, s.services.Catalog, s.bus, s.renderer)
		eventHandler.RegisterRoutes(s.humaAPI)
	}

	// Static files
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	// Page routes
	s.mux.HandleFunc("/farms", s.handleFarmsPage)
	s.mux.HandleFunc("/farm/", s.handleFarmPage)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-farm",
		"status":  "running",
	})
}

// handleFarmsPage serves the farm listing page.
func (s *Server) handleFarmsPage(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "farms.html")
	http.ServeFile(w, r, templatePath)
}

// handleFarmPage serves the farm detail page. The page reads the farm ID
// from its URL and opens a session against the API.
func (s *Server) handleFarmPage(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "farm.html")
	http.ServeFile(w, r, templatePath)
}
