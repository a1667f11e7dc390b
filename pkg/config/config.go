// Package config loads framing pipeline settings from TOML files.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/framing"
)

// Valid ranges for the caller-tunable spec values
const (
	MinScaleFactor = 0.1
	MaxScaleFactor = 100.0
	MaxPaddingPx   = 500
)

// Camera holds the studio optics
type Camera struct {
	FocalLengthMM float64 `toml:"focal_length_mm"`
	SensorWidthMM float64 `toml:"sensor_width_mm"`
	ElevationDeg  float64 `toml:"elevation_deg"`
}

// Config holds every tunable of the framing pipeline
type Config struct {
	ScaleFactor   float64 `toml:"scale_factor"` // pixels per millimeter
	PaddingPx     int     `toml:"padding_px"`
	Prefix        string  `toml:"prefix"`
	OutputFolder  string  `toml:"output_folder"`
	OverwriteMode string  `toml:"overwrite_mode"`
	Camera        Camera  `toml:"camera"`
}

// Default returns the studio defaults: 10 px/mm with 10 px padding, groups
// named RENDER_*, and the fixed 85mm lens at 12 degrees.
func Default() Config {
	return Config{
		ScaleFactor:   10.0,
		PaddingPx:     10,
		Prefix:        "RENDER_",
		OutputFolder:  "renders",
		OverwriteMode: "overwrite",
		Camera: Camera{
			FocalLengthMM: framing.DefaultFocalLength,
			SensorWidthMM: framing.DefaultSensorWidth,
			ElevationDeg:  12.0,
		},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are errors so a
// typo surfaces instead of silently keeping the default.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.ScaleFactor < MinScaleFactor || c.ScaleFactor > MaxScaleFactor {
		return fmt.Errorf("scale_factor %g outside %g-%g px/mm", c.ScaleFactor, MinScaleFactor, MaxScaleFactor)
	}
	if c.PaddingPx < 0 || c.PaddingPx > MaxPaddingPx {
		return fmt.Errorf("padding_px %d outside 0-%d", c.PaddingPx, MaxPaddingPx)
	}
	if c.OutputFolder == "" {
		return fmt.Errorf("output_folder must not be empty")
	}
	if c.Camera.FocalLengthMM <= 0 {
		return fmt.Errorf("camera focal_length_mm %g must be positive", c.Camera.FocalLengthMM)
	}
	if c.Camera.SensorWidthMM <= 0 {
		return fmt.Errorf("camera sensor_width_mm %g must be positive", c.Camera.SensorWidthMM)
	}
	if c.Camera.ElevationDeg < 0 || c.Camera.ElevationDeg >= 90 {
		return fmt.Errorf("camera elevation_deg %g outside 0-90", c.Camera.ElevationDeg)
	}
	return nil
}

// RenderSpec converts the config to the framing scale contract
func (c Config) RenderSpec() framing.RenderSpec {
	return framing.RenderSpec{
		ScalePxPerMM: c.ScaleFactor,
		PaddingPx:    c.PaddingPx,
	}
}

// Lens converts the config to the framing optics
func (c Config) Lens() framing.Lens {
	return framing.Lens{
		FocalLength: c.Camera.FocalLengthMM,
		SensorWidth: c.Camera.SensorWidthMM,
	}
}

// Elevation returns the camera elevation in radians
func (c Config) Elevation() float64 {
	return core.Radians(c.Camera.ElevationDeg)
}
