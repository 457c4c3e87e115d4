// Package config holds the settings for one generator run. A Config can be
// loaded from JSON and then overridden field by field from the command line.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/vosslab/hilbert-curve-brick/gradient"
	"github.com/vosslab/hilbert-curve-brick/hilbert"
	"github.com/vosslab/hilbert-curve-brick/render"
	"github.com/vosslab/hilbert-curve-brick/vopl"
)

// ErrInvalidConfig marks settings that are out of range or unparseable.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Dimension  int    `json:"dimension"`
	OutputDir  string `json:"outputDir"`
	Prefix     string `json:"prefix"`
	Axis       string `json:"axis"`
	Begin      int    `json:"begin"`
	End        int    `json:"end"`
	WritePNGs  bool   `json:"writePngs"`
	Grid       bool   `json:"grid"`
	Connectors bool   `json:"connectors"`
	TargetSize int    `json:"targetSize"`
	CellSize   int    `json:"cellSize,omitempty"`  // 0 picks one from TargetSize
	BrickSize  int    `json:"brickSize"`
	LineWidth  int    `json:"lineWidth"`
	Scope      string `json:"scope"`
	Gradient   string `json:"gradient"`
	Invert     bool   `json:"invert,omitempty"`
	Label      bool   `json:"label,omitempty"`
	Workers    int    `json:"workers,omitempty"` // 0 means GOMAXPROCS
	ScaleY     int    `json:"scaleY"`

	VOPLPack        string `json:"voplpack,omitempty"`
	PackCompression string `json:"packCompression,omitempty"`
	GLB             string `json:"glb,omitempty"`
	LDraw           string `json:"ldraw,omitempty"`
	LDrawColor      int    `json:"ldrawColor"`
	LDrawScale      int    `json:"ldrawScale,omitempty"`  // 0 keeps the lattice unscaled
	LDrawScaleY     int    `json:"ldrawScaleY,omitempty"` // 0 follows ScaleY

	Verbose bool `json:"verbose,omitempty"`
}

// Default returns the settings used when nothing is specified.
func Default() Config {
	return Config{
		Dimension:       8,
		OutputDir:       "output",
		Prefix:          "hilbert",
		Axis:            "z",
		Begin:           0,
		End:             -1,
		WritePNGs:       true,
		Grid:            true,
		Connectors:      true,
		TargetSize:      800,
		BrickSize:       1,
		LineWidth:       2,
		Scope:           "global",
		Gradient:        gradient.DefaultName,
		ScaleY:          1,
		PackCompression: "zstd",
		LDrawColor:      15,
	}
}

// Load reads a JSON config on top of Default. Unknown keys are rejected so
// typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate checks every field without touching the filesystem.
func (c Config) Validate() error {
	if _, err := hilbert.Order(c.Dimension); err != nil {
		return err
	}
	if _, err := hilbert.ParseAxis(c.Axis); err != nil {
		return err
	}
	if _, err := c.Range(); err != nil {
		return err
	}
	if c.OutputDir == "" && c.WritePNGs {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	}
	checks := []struct {
		name string
		val  int
		min  int
	}{
		{"targetSize", c.TargetSize, 1},
		{"cellSize", c.CellSize, 0},
		{"brickSize", c.BrickSize, 1},
		{"lineWidth", c.LineWidth, 1},
		{"workers", c.Workers, 0},
		{"scaleY", c.ScaleY, 1},
		{"ldrawColor", c.LDrawColor, 0},
		{"ldrawScale", c.LDrawScale, 0},
		{"ldrawScaleY", c.LDrawScaleY, 0},
	}
	for _, ch := range checks {
		if ch.val < ch.min {
			return fmt.Errorf("%w: %s must be at least %d, got %d", ErrInvalidConfig, ch.name, ch.min, ch.val)
		}
	}
	if _, err := render.ParseScope(c.Scope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := gradient.Parse(c.Gradient); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := vopl.ParseCompression(c.PackCompression); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Range resolves Begin/End against Dimension.
func (c Config) Range() (render.Range, error) {
	return render.ResolveRange(c.Dimension, c.Begin, c.End)
}

// RenderOptions builds slice rendering options from c.
func (c Config) RenderOptions() (render.Options, error) {
	opts := render.DefaultOptions()
	axis, err := hilbert.ParseAxis(c.Axis)
	if err != nil {
		return opts, err
	}
	scope, err := render.ParseScope(c.Scope)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	grad, err := gradient.Parse(c.Gradient)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	opts.Axis = axis
	opts.Scope = scope
	opts.Gradient = grad
	opts.Grid = c.Grid
	opts.Connectors = c.Connectors
	opts.TargetSize = c.TargetSize
	opts.CellSize = c.CellSize
	opts.BrickSize = c.BrickSize
	opts.LineWidth = c.LineWidth
	opts.Label = c.Label
	opts.Prefix = c.Prefix
	opts.Workers = c.Workers
	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Invert {
		opts.Invert()
	}
	return opts, nil
}

// LDrawScales returns the xz and y zoom for the LDraw export.
func (c Config) LDrawScales() (int, int) {
	sxz, sy := c.LDrawScale, c.LDrawScaleY
	if sxz < 1 {
		sxz = 1
	}
	if sy < 1 {
		sy = max(c.ScaleY, 1)
	}
	return sxz, sy
}
