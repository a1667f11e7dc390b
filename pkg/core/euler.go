package core

import "math"

// Euler represents intrinsic XYZ rotation angles in radians
type Euler struct {
	X, Y, Z float64
}

// NewEuler creates a new Euler from angles in radians
func NewEuler(x, y, z float64) Euler {
	return Euler{X: x, Y: y, Z: z}
}

// EulerFromDegrees creates an Euler from angles in degrees
func EulerFromDegrees(x, y, z float64) Euler {
	return Euler{
		X: Radians(x),
		Y: Radians(y),
		Z: Radians(z),
	}
}

// Degrees returns the rotation angles converted to degrees
func (e Euler) Degrees() (x, y, z float64) {
	return e.X * 180 / math.Pi, e.Y * 180 / math.Pi, e.Z * 180 / math.Pi
}

// Apply rotates a vector by the Euler angles in XYZ order
func (e Euler) Apply(v Vec3) Vec3 {
	// Rotate around X
	cosX, sinX := math.Cos(e.X), math.Sin(e.X)
	y := v.Y*cosX - v.Z*sinX
	z := v.Y*sinX + v.Z*cosX
	v = Vec3{v.X, y, z}

	// Rotate around Y
	cosY, sinY := math.Cos(e.Y), math.Sin(e.Y)
	x := v.X*cosY + v.Z*sinY
	z = -v.X*sinY + v.Z*cosY
	v = Vec3{x, v.Y, z}

	// Rotate around Z
	cosZ, sinZ := math.Cos(e.Z), math.Sin(e.Z)
	x = v.X*cosZ - v.Y*sinZ
	y = v.X*sinZ + v.Y*cosZ
	return Vec3{x, y, v.Z}
}

// Radians converts degrees to radians
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
