package solids

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/scene"
)

func TestBox_LocalBoxIsCentered(t *testing.T) {
	s, err := Box(2, 4, 6)
	require.NoError(t, err)

	box := s.LocalBox()
	assert.InDelta(t, -1, box.Min.X, 1e-9)
	assert.InDelta(t, -2, box.Min.Y, 1e-9)
	assert.InDelta(t, -3, box.Min.Z, 1e-9)
	assert.InDelta(t, 1, box.Max.X, 1e-9)
	assert.InDelta(t, 2, box.Max.Y, 1e-9)
	assert.InDelta(t, 3, box.Max.Z, 1e-9)
}

func TestCylinder_LocalBox(t *testing.T) {
	s, err := Cylinder(10, 3)
	require.NoError(t, err)

	size := s.LocalBox().Size()
	assert.InDelta(t, 6, size.X, 1e-9, "diameter along X")
	assert.InDelta(t, 6, size.Y, 1e-9, "diameter along Y")
	assert.InDelta(t, 10, size.Z, 1e-9, "height along Z")
}

func TestSolid_Translate(t *testing.T) {
	s, err := Sphere(1)
	require.NoError(t, err)

	moved := s.Translate(core.NewVec3(5, 0, -2))
	center := moved.LocalBox().Center()
	assert.InDelta(t, 5, center.X, 1e-9)
	assert.InDelta(t, 0, center.Y, 1e-9)
	assert.InDelta(t, -2, center.Z, 1e-9)
}

func TestSolid_RotateWidensBounds(t *testing.T) {
	s, err := Box(2, 2, 2)
	require.NoError(t, err)

	rotated := s.Rotate(core.NewEuler(0, 0, math.Pi/4))
	size := rotated.LocalBox().Size()

	// A unit-ish box rotated 45 degrees around Z needs sqrt(2) times the
	// footprint. SDF bounding boxes may be conservative, never tighter.
	assert.GreaterOrEqual(t, size.X, 2*math.Sqrt2-1e-6)
	assert.GreaterOrEqual(t, size.Y, 2*math.Sqrt2-1e-6)
}

func TestSolid_Union(t *testing.T) {
	a, err := Box(2, 2, 2)
	require.NoError(t, err)
	b, err := Box(2, 2, 2)
	require.NoError(t, err)

	combined := a.Union(b.Translate(core.NewVec3(3, 0, 0)))
	size := combined.LocalBox().Size()
	assert.GreaterOrEqual(t, size.X, 5.0-1e-6, "union spans both boxes")
}

func TestNewPart(t *testing.T) {
	s, err := Cylinder(0.095, 0.04)
	require.NoError(t, err)

	part := NewPart("body", s, scene.Transform{Translation: core.NewVec3(0, 0, 0.0475)})
	assert.Equal(t, "body", part.Name())
	assert.Equal(t, scene.KindMesh, part.Kind())

	corners := part.WorldCorners()
	world := core.NewAABBFromPoints(corners[:]...)
	assert.InDelta(t, 0.095, world.Size().Z, 1e-9)
	assert.InDelta(t, 0.0475, world.Center().Z, 1e-9)
}

func TestBox_InvalidDimensions(t *testing.T) {
	_, err := Box(-1, 2, 2)
	assert.Error(t, err)
}
