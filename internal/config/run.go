// Package config loads run configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/beetlebugorg/lingrid/pkg/lingrid"
)

// RunConfig describes one intersection run. Every field is optional; omitted
// fields fall back to the defaults returned by the Get* methods, so partial
// configs are safe.
type RunConfig struct {
	// Inputs
	Source *string  `json:"source,omitempty"` // .shp file
	Cells  *string  `json:"cells,omitempty"`  // cell_id,x,y CSV
	DX     *float64 `json:"dx,omitempty"`
	DY     *float64 `json:"dy,omitempty"`

	// Outputs
	Out  *string `json:"out,omitempty"`  // result CSV, "-" or empty for stdout
	DB   *string `json:"db,omitempty"`   // SQLite run store
	Plot *string `json:"plot,omitempty"` // rendered image

	// Driver params
	Parallel *bool `json:"parallel,omitempty"`
	Workers  *int  `json:"workers,omitempty"`
	UseIndex *bool `json:"use_index,omitempty"`

	// Decoder params
	ValidateGeometry      *bool `json:"validate_geometry,omitempty"`
	ValidateContentLength *bool `json:"validate_content_length,omitempty"`
	MaxParts              *int  `json:"max_parts,omitempty"`
	MaxPoints             *int  `json:"max_points,omitempty"`
}

const maxFileSize = 1 * 1024 * 1024 // 1MB

// LoadRunConfig loads a RunConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the values that are set.
func (c *RunConfig) Validate() error {
	if c.DX != nil && !positive(*c.DX) {
		return fmt.Errorf("dx must be positive and finite, got %v", *c.DX)
	}
	if c.DY != nil && !positive(*c.DY) {
		return fmt.Errorf("dy must be positive and finite, got %v", *c.DY)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.MaxParts != nil && *c.MaxParts < 0 {
		return fmt.Errorf("max_parts must be non-negative, got %d", *c.MaxParts)
	}
	if c.MaxPoints != nil && *c.MaxPoints < 0 {
		return fmt.Errorf("max_points must be non-negative, got %d", *c.MaxPoints)
	}
	return nil
}

// Merge overwrites c with every field set in other.
func (c *RunConfig) Merge(other *RunConfig) {
	if other == nil {
		return
	}
	mergePtr(&c.Source, other.Source)
	mergePtr(&c.Cells, other.Cells)
	mergePtr(&c.DX, other.DX)
	mergePtr(&c.DY, other.DY)
	mergePtr(&c.Out, other.Out)
	mergePtr(&c.DB, other.DB)
	mergePtr(&c.Plot, other.Plot)
	mergePtr(&c.Parallel, other.Parallel)
	mergePtr(&c.Workers, other.Workers)
	mergePtr(&c.UseIndex, other.UseIndex)
	mergePtr(&c.ValidateGeometry, other.ValidateGeometry)
	mergePtr(&c.ValidateContentLength, other.ValidateContentLength)
	mergePtr(&c.MaxParts, other.MaxParts)
	mergePtr(&c.MaxPoints, other.MaxPoints)
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Options returns driver options with every set field applied over
// lingrid.DefaultOptions.
func (c *RunConfig) Options() lingrid.Options {
	opts := lingrid.DefaultOptions()
	if c.Parallel != nil {
		opts.Parallel = *c.Parallel
	}
	if c.Workers != nil && *c.Workers > 0 {
		opts.Workers = *c.Workers
	}
	if c.UseIndex != nil {
		opts.UseIndex = *c.UseIndex
	}
	if c.ValidateGeometry != nil {
		opts.Parse.ValidateGeometry = *c.ValidateGeometry
	}
	if c.ValidateContentLength != nil {
		opts.Parse.ValidateContentLength = *c.ValidateContentLength
	}
	if c.MaxParts != nil {
		opts.Parse.MaxParts = *c.MaxParts
	}
	if c.MaxPoints != nil {
		opts.Parse.MaxPoints = *c.MaxPoints
	}
	return opts
}

// GetSource returns the source path or "".
func (c *RunConfig) GetSource() string { return deref(c.Source, "") }

// GetCells returns the cells CSV path or "".
func (c *RunConfig) GetCells() string { return deref(c.Cells, "") }

// GetDX returns the cell width or 0 when unset.
func (c *RunConfig) GetDX() float64 { return deref(c.DX, 0) }

// GetDY returns the cell height or 0 when unset.
func (c *RunConfig) GetDY() float64 { return deref(c.DY, 0) }

// GetOut returns the result CSV path, "-" (stdout) by default.
func (c *RunConfig) GetOut() string {
	if out := deref(c.Out, ""); out != "" {
		return out
	}
	return "-"
}

// GetDB returns the SQLite path or "".
func (c *RunConfig) GetDB() string { return deref(c.DB, "") }

// GetPlot returns the image path or "".
func (c *RunConfig) GetPlot() string { return deref(c.Plot, "") }

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
