// Package lighting manages the shared three-point studio rig. The rig
// follows product size: positions scale with the object and energies grow
// with the square of the scale to hold surface brightness constant under
// inverse-square falloff.
package lighting

import (
	"fmt"
	"math"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/scene"
)

// Role identifies a light's job in the three-point rig
type Role string

const (
	RoleKey  Role = "key"
	RoleFill Role = "fill"
	RoleRim  Role = "rim"
)

// ReferenceHeightMM is the object height the rig calibration targets
const ReferenceHeightMM = 200.0

// Rig scale is clamped so pathological objects cannot push lights to
// useless extremes.
const (
	MinScale = 0.1
	MaxScale = 20.0
)

// Base energies calibrated for a 200mm tall object
const (
	baseKeyEnergy  = 1000.0
	baseFillEnergy = 300.0
	baseRimEnergy  = 500.0
)

// Per-role sizes at calibration. Fitting replaces them all with the
// uniform scaled size below.
const (
	keySize  = 2.0
	fillSize = 3.0
	rimSize  = 1.5

	scaledLightSize = 2.0
)

// AreaLight is one square area light of the rig. Offset and rotation are
// reference-relative: the host applies the rig's location and scale on top.
type AreaLight struct {
	Role       Role       `json:"role"`
	Offset     core.Vec3  `json:"offset"`
	Rotation   core.Euler `json:"rotation"`
	BaseEnergy float64    `json:"baseEnergy"`
	Energy     float64    `json:"energy"`
	Size       float64    `json:"size"`
}

// Rig is the shared studio light rig: one per scene, owned by the caller
// and repositioned in place for each group. Groups that bring their own
// lights hide it rather than delete it.
type Rig struct {
	Location core.Vec3    `json:"location"`
	Scale    float64      `json:"scale"`
	Visible  bool         `json:"visible"`
	Lights   [3]AreaLight `json:"lights"`
}

// NewThreePointRig builds the rig at its 200mm calibration: a sharp key
// front-right and high, a soft fill front-left and low, and a rim behind
// for edge separation.
func NewThreePointRig() *Rig {
	return &Rig{
		Scale:   1.0,
		Visible: true,
		Lights: [3]AreaLight{
			{
				Role:       RoleKey,
				Offset:     core.NewVec3(150, -200, 250),
				Rotation:   core.EulerFromDegrees(45, 0, 30),
				BaseEnergy: baseKeyEnergy,
				Energy:     baseKeyEnergy,
				Size:       keySize,
			},
			{
				Role:       RoleFill,
				Offset:     core.NewVec3(-200, -150, 100),
				Rotation:   core.EulerFromDegrees(60, 0, -45),
				BaseEnergy: baseFillEnergy,
				Energy:     baseFillEnergy,
				Size:       fillSize,
			},
			{
				Role:       RoleRim,
				Offset:     core.NewVec3(100, 200, 200),
				Rotation:   core.EulerFromDegrees(135, 0, 20),
				BaseEnergy: baseRimEnergy,
				Energy:     baseRimEnergy,
				Size:       rimSize,
			},
		},
	}
}

// Light returns the rig light with the given role
func (r *Rig) Light(role Role) *AreaLight {
	for i := range r.Lights {
		if r.Lights[i].Role == role {
			return &r.Lights[i]
		}
	}
	return nil
}

// FitTo centers the rig on the group and scales it to the object's height.
// Energies grow with the square of the scale; every light takes the same
// scaled size.
func (r *Rig) FitTo(b framing.Bounds) {
	scale := b.HeightMM() / ReferenceHeightMM
	scale = math.Max(MinScale, math.Min(scale, MaxScale))

	r.Location = b.Center()
	r.Scale = scale

	boost := scale * scale
	for i := range r.Lights {
		r.Lights[i].Energy = r.Lights[i].BaseEnergy * boost
		r.Lights[i].Size = scaledLightSize * scale
	}
}

// SetupForGroup applies the lighting policy for one group: a group carrying
// its own lights hides the shared rig, everything else gets the rig shown
// and fitted to the group's bounds. Returns a description for readouts.
func SetupForGroup(rig *Rig, g *scene.Group, b framing.Bounds, hasBounds bool) string {
	if count := g.LightCount(); count > 0 {
		rig.Visible = false
		return fmt.Sprintf("group lights (%d found)", count)
	}

	rig.Visible = true
	if !hasBounds {
		return "default rig (no geometry to fit)"
	}
	rig.FitTo(b)
	return fmt.Sprintf("scaled rig (%.2fx)", rig.Scale)
}
