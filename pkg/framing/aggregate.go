package framing

import (
	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/scene"
)

// Bounds is a group's composite world-space bounding box plus the scale
// that links scene units to millimeters. Box coordinates stay in scene
// units; millimeters appear only through the accessor methods.
type Bounds struct {
	Box       core.AABB
	MMPerUnit float64
}

// Aggregate folds the world-space corners of every framing-eligible part
// into one composite box. Lights, empties, and helper-prefixed parts are
// skipped. Returns ok=false when nothing eligible contributes.
func Aggregate(parts []scene.Part, unitScale float64) (Bounds, bool) {
	var box core.AABB
	found := false

	for _, p := range parts {
		if p.Kind() != scene.KindMesh || scene.IsHelper(p.Name()) {
			continue
		}
		corners := p.WorldCorners()
		partBox := core.NewAABBFromPoints(corners[:]...)
		if !found {
			box = partBox
			found = true
		} else {
			box = box.Union(partBox)
		}
	}

	if !found {
		return Bounds{}, false
	}
	return Bounds{Box: box, MMPerUnit: unitScale * 1000.0}, true
}

// WidthMM returns the X extent in millimeters
func (b Bounds) WidthMM() float64 {
	return b.Box.Size().X * b.MMPerUnit
}

// DepthMM returns the Y extent in millimeters
func (b Bounds) DepthMM() float64 {
	return b.Box.Size().Y * b.MMPerUnit
}

// HeightMM returns the Z extent in millimeters
func (b Bounds) HeightMM() float64 {
	return b.Box.Size().Z * b.MMPerUnit
}

// SizeMM returns all three extents in millimeters
func (b Bounds) SizeMM() core.Vec3 {
	return b.Box.Size().Multiply(b.MMPerUnit)
}

// Center returns the box center in scene units
func (b Bounds) Center() core.Vec3 {
	return b.Box.Center()
}
