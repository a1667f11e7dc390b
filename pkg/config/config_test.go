package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10.0, cfg.ScaleFactor)
	assert.Equal(t, 10, cfg.PaddingPx)
	assert.Equal(t, "RENDER_", cfg.Prefix)
	assert.Equal(t, "renders", cfg.OutputFolder)
	assert.Equal(t, "overwrite", cfg.OverwriteMode)
	assert.Equal(t, 85.0, cfg.Camera.FocalLengthMM)
	assert.Equal(t, 36.0, cfg.Camera.SensorWidthMM)
	assert.Equal(t, 12.0, cfg.Camera.ElevationDeg)

	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scale_factor = 5.0
prefix = "SHOT_"

[camera]
elevation_deg = 20.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.ScaleFactor)
	assert.Equal(t, "SHOT_", cfg.Prefix)
	assert.Equal(t, 20.0, cfg.Camera.ElevationDeg)

	// Untouched keys keep their defaults
	assert.Equal(t, 10, cfg.PaddingPx)
	assert.Equal(t, "renders", cfg.OutputFolder)
	assert.Equal(t, 85.0, cfg.Camera.FocalLengthMM)
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	path := writeConfig(t, `scale_faktor = 5.0`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_InvalidValueFails(t *testing.T) {
	path := writeConfig(t, `scale_factor = 250.0`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale_factor")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults pass", func(c *Config) {}, ""},
		{"scale too small", func(c *Config) { c.ScaleFactor = 0.05 }, "scale_factor"},
		{"scale too large", func(c *Config) { c.ScaleFactor = 101 }, "scale_factor"},
		{"scale at lower bound", func(c *Config) { c.ScaleFactor = 0.1 }, ""},
		{"scale at upper bound", func(c *Config) { c.ScaleFactor = 100 }, ""},
		{"negative padding", func(c *Config) { c.PaddingPx = -1 }, "padding_px"},
		{"padding too large", func(c *Config) { c.PaddingPx = 501 }, "padding_px"},
		{"padding at bound", func(c *Config) { c.PaddingPx = 500 }, ""},
		{"empty output folder", func(c *Config) { c.OutputFolder = "" }, "output_folder"},
		{"zero focal length", func(c *Config) { c.Camera.FocalLengthMM = 0 }, "focal_length_mm"},
		{"negative sensor width", func(c *Config) { c.Camera.SensorWidthMM = -1 }, "sensor_width_mm"},
		{"elevation at 90", func(c *Config) { c.Camera.ElevationDeg = 90 }, "elevation_deg"},
		{"negative elevation", func(c *Config) { c.Camera.ElevationDeg = -5 }, "elevation_deg"},
		{"flat elevation", func(c *Config) { c.Camera.ElevationDeg = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()

	spec := cfg.RenderSpec()
	assert.Equal(t, 10.0, spec.ScalePxPerMM)
	assert.Equal(t, 10, spec.PaddingPx)

	lens := cfg.Lens()
	assert.Equal(t, 85.0, lens.FocalLength)
	assert.Equal(t, 36.0, lens.SensorWidth)

	assert.InDelta(t, 12.0*3.14159265358979/180.0, cfg.Elevation(), 1e-9)
}
