package framing

import (
	"math"

	"github.com/aTanguay/scalerender/pkg/core"
)

const (
	// maxVisibilityPasses bounds the corner-visibility iteration
	maxVisibilityPasses = 20

	// growthFactor stretches the camera distance after a failed pass
	growthFactor = 1.10

	// fovMargin keeps corners 2% inside the field of view edges
	fovMargin = 0.98

	// settleMargin backs the converged camera off a final 5%
	settleMargin = 1.05
)

// CameraFrame is a solved camera pose: where the camera sits, what it looks
// at, and an up vector with no roll.
type CameraFrame struct {
	Location core.Vec3 `json:"location"`
	LookAt   core.Vec3 `json:"lookAt"`
	Up       core.Vec3 `json:"up"`
}

// Forward returns the unit view direction
func (f CameraFrame) Forward() core.Vec3 {
	return f.LookAt.Subtract(f.Location).Normalize()
}

// Rotation returns the pose as no-roll Euler angles for hosts that orient
// cameras by rotation. Zero rotation looks straight down -Z, so a level
// camera facing +Y carries a 90 degree X rotation.
func (f CameraFrame) Rotation() core.Euler {
	d := f.Forward()
	pitch := math.Acos(max(-1.0, min(1.0, -d.Z)))
	yaw := math.Atan2(-d.X, d.Y)
	return core.NewEuler(pitch, 0, yaw)
}

// SolveResult reports the solved frame and how the solve ended
type SolveResult struct {
	Frame      CameraFrame `json:"frame"`
	Distance   float64     `json:"distance"`   // final camera distance in scene units
	Converged  bool        `json:"converged"`  // false when the iteration budget ran out
	Iterations int         `json:"iterations"` // visibility passes taken
}

// SolveCamera positions the camera so every corner of the padded bounding
// box lands inside the lens field of view at the given elevation.
//
// The seed distance fits the padded frame perpendicular to the lens; the
// visibility loop then accounts for perspective on the near corners by
// growing the distance until all eight corners project inside the margins.
// Growing the distance only ever shrinks corner angles, so the loop is
// monotone: the result may frame slightly wide but never clips the object.
func SolveCamera(b Bounds, spec RenderSpec, lens Lens, elevation float64) SolveResult {
	size := b.Box.Size()
	center := b.Box.Center()

	// Padding arrives in pixels; convert through the pixel scale into
	// millimeters and on into scene units.
	padding := 0.0
	if spec.ScalePxPerMM > 0 && b.MMPerUnit > 0 {
		padding = (float64(spec.PaddingPx) / spec.ScalePxPerMM) / b.MMPerUnit
	}

	frameWidth := size.X + 2*padding
	frameHeight := size.Z + 2*padding

	aspect := Resolve(b.WidthMM(), b.HeightMM(), spec).AspectRatio()
	if aspect <= 0 {
		aspect = 1 // degenerate resolutions are rejected by validation
	}
	halfFovH := lens.HalfFOVWidth()
	halfFovV := lens.HalfFOVHeight(aspect)

	distance := math.Max(
		(frameWidth/2)/math.Tan(halfFovH),
		(frameHeight/2)/math.Tan(halfFovV),
	)
	if distance <= 0 {
		distance = 1e-6 // point-sized box with no padding
	}

	// Padding widens the frame horizontally and vertically only; depth
	// stays the measured extent.
	padded := b.Box
	padded.Min.X -= padding
	padded.Max.X += padding
	padded.Min.Z -= padding
	padded.Max.Z += padding
	corners := padded.Corners()

	var result SolveResult
	for i := 0; i < maxVisibilityPasses; i++ {
		result.Iterations = i + 1
		location := cameraLocation(b.Box, center, distance, elevation)
		if cornersVisible(corners, location, center, elevation, halfFovH, halfFovV) {
			result.Converged = true
			break
		}
		distance *= growthFactor
	}

	distance *= settleMargin
	location := cameraLocation(b.Box, center, distance, elevation)

	result.Frame = lookAtFrame(location, center)
	result.Distance = distance
	return result
}

// FallbackFrame returns the deterministic pose used when a group has no
// measurable geometry: ten units out on -Y at the given elevation, aimed
// at the origin.
func FallbackFrame(elevation float64) CameraFrame {
	const fallbackDistance = 10.0
	location := core.NewVec3(0, -fallbackDistance, fallbackDistance*math.Tan(elevation))
	return lookAtFrame(location, core.NewVec3(0, 0, 0))
}

// cameraLocation places the camera the given distance out from the box's
// near depth face, raised so the view arrives at the studio elevation.
func cameraLocation(box core.AABB, center core.Vec3, distance, elevation float64) core.Vec3 {
	return core.NewVec3(
		center.X,
		box.Min.Y-distance,
		center.Z+distance*math.Tan(elevation),
	)
}

// cornersVisible tests whether every corner projects inside the margined
// field of view from the given camera location.
func cornersVisible(corners [8]core.Vec3, location, target core.Vec3, elevation, halfFovH, halfFovV float64) bool {
	look := target.Subtract(location).Normalize()
	sinE, cosE := math.Sin(elevation), math.Cos(elevation)

	maxH, maxV := 0.0, 0.0
	for _, corner := range corners {
		offset := corner.Subtract(location)
		forward := offset.Dot(look)
		if forward <= 0 {
			return false // corner behind the camera
		}
		hAngle := math.Abs(math.Atan2(offset.X, forward))
		// Vertical angle corrected for the nominal camera tilt.
		vAngle := math.Abs(math.Atan2(offset.Z*cosE+offset.Y*sinE, forward))
		maxH = math.Max(maxH, hAngle)
		maxV = math.Max(maxV, vAngle)
	}
	return maxH <= fovMargin*halfFovH && maxV <= fovMargin*halfFovV
}

// lookAtFrame orients the camera toward the target with world +Z up and no
// roll.
func lookAtFrame(location, target core.Vec3) CameraFrame {
	forward := target.Subtract(location).Normalize()
	up := core.NewVec3(0, 0, 1)
	up = up.Subtract(forward.Multiply(up.Dot(forward))).Normalize()
	if up == (core.Vec3{}) {
		up = core.NewVec3(0, 1, 0) // looking straight along Z
	}
	return CameraFrame{Location: location, LookAt: target, Up: up}
}
