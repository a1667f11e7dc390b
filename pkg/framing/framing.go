// Package framing computes scale-true render framing: exact pixel
// resolutions from millimeter dimensions, camera placement that keeps a
// product fully in frame under a fixed studio elevation, and validation of
// what can actually be rendered.
package framing

import "math"

const (
	// DefaultFocalLength is the studio lens focal length in millimeters
	DefaultFocalLength = 85.0

	// DefaultSensorWidth is the full-frame sensor width in millimeters
	DefaultSensorWidth = 36.0

	// DefaultElevation is the studio camera elevation in radians (12 degrees)
	DefaultElevation = 12.0 * math.Pi / 180.0

	// MaxResolution is the hard per-axis pixel limit a render may reach
	MaxResolution = 16384

	// WarnResolution is the per-axis pixel count above which a render is
	// allowed but flagged
	WarnResolution = 8192
)

// RenderSpec is the caller's scale contract: how many pixels one millimeter
// spans in the output, and how many pixels of padding surround the object.
type RenderSpec struct {
	ScalePxPerMM float64 `json:"scalePxPerMM"`
	PaddingPx    int     `json:"paddingPx"`
}

// DefaultRenderSpec returns the studio default of 10 px/mm with 10 px padding
func DefaultRenderSpec() RenderSpec {
	return RenderSpec{
		ScalePxPerMM: 10.0,
		PaddingPx:    10,
	}
}

// Lens describes the render camera optics in millimeters
type Lens struct {
	FocalLength float64 `json:"focalLength"`
	SensorWidth float64 `json:"sensorWidth"`
}

// DefaultLens returns the fixed 85mm lens on a 36mm sensor
func DefaultLens() Lens {
	return Lens{
		FocalLength: DefaultFocalLength,
		SensorWidth: DefaultSensorWidth,
	}
}

// HalfFOVWidth returns half the horizontal field of view in radians
func (l Lens) HalfFOVWidth() float64 {
	return math.Atan(l.SensorWidth / (2 * l.FocalLength))
}

// HalfFOVHeight returns half the vertical field of view in radians for the
// given aspect ratio
func (l Lens) HalfFOVHeight(aspect float64) float64 {
	return math.Atan(math.Tan(l.HalfFOVWidth()) / aspect)
}
