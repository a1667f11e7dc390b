package scene

import (
	"strings"

	"github.com/aTanguay/scalerender/pkg/core"
)

// HelperPrefix marks parts that annotate a group (jigs, floors, guides)
// without contributing to framing.
const HelperPrefix = "_"

// IsHelper reports whether a part name marks annotation geometry.
func IsHelper(name string) bool {
	return strings.HasPrefix(name, HelperPrefix)
}

// Kind identifies what a part is to the framing engine
type Kind int

const (
	KindMesh Kind = iota // renderable geometry, contributes to framing
	KindLight            // group-owned light, suppresses the shared rig
	KindEmpty            // locators and other non-geometry
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	default:
		return "empty"
	}
}

// WorldBounded is the one capability the geometry aggregator needs from a
// part: its bounding corners in world space.
type WorldBounded interface {
	WorldCorners() [8]core.Vec3
}

// Part is what the host scene exposes for each object in a group
type Part interface {
	WorldBounded
	Name() string
	Kind() Kind
}

// Transform positions a part in world space. Corners are scaled, then
// rotated (XYZ order), then translated.
type Transform struct {
	Translation core.Vec3
	Rotation    core.Euler
	Scale       core.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged
func IdentityTransform() Transform {
	return Transform{Scale: core.NewVec3(1, 1, 1)}
}

// Apply transforms a local-space point to world space
func (t Transform) Apply(p core.Vec3) core.Vec3 {
	p = p.MultiplyVec(t.Scale)
	p = t.Rotation.Apply(p)
	return p.Add(t.Translation)
}

// MeshPart is a concrete part backed by a local-space bounding box and a
// world transform.
type MeshPart struct {
	name      string
	localBox  core.AABB
	Transform Transform
}

// NewMeshPart creates a part from its local bounding box and world transform.
// A zero Scale is treated as unit scale so a zero-value Transform is usable.
func NewMeshPart(name string, localBox core.AABB, transform Transform) *MeshPart {
	if transform.Scale == (core.Vec3{}) {
		transform.Scale = core.NewVec3(1, 1, 1)
	}
	return &MeshPart{
		name:      name,
		localBox:  localBox,
		Transform: transform,
	}
}

// NewBoxPart creates a mesh part whose local box is centered at the origin
// with the given full extents.
func NewBoxPart(name string, size core.Vec3, transform Transform) *MeshPart {
	half := size.Multiply(0.5)
	localBox := core.NewAABB(half.Negate(), half)
	return NewMeshPart(name, localBox, transform)
}

// Name returns the part name
func (p *MeshPart) Name() string { return p.name }

// Kind returns KindMesh
func (p *MeshPart) Kind() Kind { return KindMesh }

// LocalBox returns the part's local-space bounding box
func (p *MeshPart) LocalBox() core.AABB { return p.localBox }

// WorldCorners returns the 8 corners of the local box transformed to world
// space. The world-space AABB of a rotated part is the box over these
// corners, not the transformed local box.
func (p *MeshPart) WorldCorners() [8]core.Vec3 {
	corners := p.localBox.Corners()
	for i := range corners {
		corners[i] = p.Transform.Apply(corners[i])
	}
	return corners
}

// LightPart is a light owned by a group. Its presence switches the group
// from the shared rig to its own lighting.
type LightPart struct {
	name string
}

// NewLightPart creates a group-owned light marker
func NewLightPart(name string) *LightPart {
	return &LightPart{name: name}
}

// Name returns the light name
func (p *LightPart) Name() string { return p.name }

// Kind returns KindLight
func (p *LightPart) Kind() Kind { return KindLight }

// WorldCorners returns a degenerate box; lights never contribute to framing
func (p *LightPart) WorldCorners() [8]core.Vec3 {
	return [8]core.Vec3{}
}
