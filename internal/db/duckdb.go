// Package db manages the DuckDB analytics mirror. Farm and field records are
// projected into tables at startup so the query endpoints can aggregate over
// them; the database is a read-only projection, rebuilt on every start.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/joeblew999/plat-farm/internal/service"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Get returns the singleton DuckDB connection.
func Get(cfg Config) (*sql.DB, error) {
	once.Do(func() {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create duckdb directory: %w", err)
			return
		}

		dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
		instance, initErr = sql.Open("duckdb", dbPath)
	})
	return instance, initErr
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// LoadFarms rebuilds the farms and fields tables from the in-memory roster.
func LoadFarms(db *sql.DB, farms []service.Farm) error {
	stmts := []string{
		`CREATE OR REPLACE TABLE farms (
			id VARCHAR PRIMARY KEY,
			name VARCHAR,
			owner VARCHAR,
			acres INTEGER,
			county VARCHAR,
			state VARCHAR,
			lon DOUBLE,
			lat DOUBLE
		)`,
		`CREATE OR REPLACE TABLE fields (
			farm_id VARCHAR,
			id VARCHAR,
			name VARCHAR,
			acres INTEGER,
			crop VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating analytics tables: %w", err)
		}
	}

	for _, f := range farms {
		_, err := db.Exec(
			`INSERT INTO farms (id, name, owner, acres, county, state, lon, lat) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, f.Owner, f.Acres, f.County, f.State, f.Center.Lon(), f.Center.Lat(),
		)
		if err != nil {
			return fmt.Errorf("loading farm %q: %w", f.ID, err)
		}
		for _, fld := range f.Fields {
			_, err := db.Exec(
				`INSERT INTO fields (farm_id, id, name, acres, crop) VALUES (?, ?, ?, ?, ?)`,
				f.ID, fld.ID, fld.Name, fld.Acres, fld.Crop,
			)
			if err != nil {
				return fmt.Errorf("loading field %q of farm %q: %w", fld.ID, f.ID, err)
			}
		}
	}
	return nil
}
