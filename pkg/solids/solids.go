// Package solids models parts as signed-distance volumes using the
// github.com/deadsy/sdfx CAD library, so framing runs against real part
// geometry instead of hand-entered boxes.
package solids

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/scene"
)

// Solid wraps an sdf.SDF3 volume. Solids are centered at the local origin
// the way host meshes are, so part transforms compose the same way for
// both.
type Solid struct {
	s sdf.SDF3
}

// Box creates a box solid with the given full extents, centered at the origin
func Box(width, depth, height float64) (Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: width, Y: depth, Z: height}, 0)
	if err != nil {
		return Solid{}, fmt.Errorf("box %gx%gx%g: %w", width, depth, height, err)
	}
	return Solid{s: s}, nil
}

// RoundedBox creates a box solid with rounded edges
func RoundedBox(width, depth, height, round float64) (Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: width, Y: depth, Z: height}, round)
	if err != nil {
		return Solid{}, fmt.Errorf("rounded box %gx%gx%g: %w", width, depth, height, err)
	}
	return Solid{s: s}, nil
}

// Cylinder creates a Z-axis cylinder solid, centered at the origin
func Cylinder(height, radius float64) (Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return Solid{}, fmt.Errorf("cylinder h=%g r=%g: %w", height, radius, err)
	}
	return Solid{s: s}, nil
}

// Sphere creates a sphere solid centered at the origin
func Sphere(radius float64) (Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return Solid{}, fmt.Errorf("sphere r=%g: %w", radius, err)
	}
	return Solid{s: s}, nil
}

// Translate moves the solid by the given offset
func (s Solid) Translate(offset core.Vec3) Solid {
	m := sdf.Translate3d(v3.Vec{X: offset.X, Y: offset.Y, Z: offset.Z})
	return Solid{s: sdf.Transform3D(s.s, m)}
}

// Rotate rotates the solid by Euler angles around X, Y, Z in that order
func (s Solid) Rotate(e core.Euler) Solid {
	m := sdf.RotateZ(e.Z).Mul(sdf.RotateY(e.Y)).Mul(sdf.RotateX(e.X))
	return Solid{s: sdf.Transform3D(s.s, m)}
}

// Union combines two solids into one
func (s Solid) Union(other Solid) Solid {
	return Solid{s: sdf.Union3D(s.s, other.s)}
}

// LocalBox returns the solid's local-space bounding box
func (s Solid) LocalBox() core.AABB {
	bb := s.s.BoundingBox()
	return core.NewAABB(
		core.NewVec3(bb.Min.X, bb.Min.Y, bb.Min.Z),
		core.NewVec3(bb.Max.X, bb.Max.Y, bb.Max.Z),
	)
}

// SDF exposes the underlying volume for hosts that tessellate
func (s Solid) SDF() sdf.SDF3 {
	return s.s
}

// NewPart wraps a solid as a scene part. The solid's bounding box becomes
// the part's local box.
func NewPart(name string, s Solid, transform scene.Transform) *scene.MeshPart {
	return scene.NewMeshPart(name, s.LocalBox(), transform)
}
