package lighting

import (
	"math"
	"strings"
	"testing"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/scene"
)

func boundsWithHeight(heightMM float64) framing.Bounds {
	halfZ := heightMM / 2000.0 // millimeters to scene units, centered
	return framing.Bounds{
		Box:       core.NewAABB(core.NewVec3(-0.05, -0.05, -halfZ), core.NewVec3(0.05, 0.05, halfZ)),
		MMPerUnit: 1000.0,
	}
}

func TestNewThreePointRig_Calibration(t *testing.T) {
	rig := NewThreePointRig()

	if rig.Scale != 1.0 || !rig.Visible {
		t.Errorf("Expected visible rig at unit scale, got scale=%v visible=%v", rig.Scale, rig.Visible)
	}

	tests := []struct {
		role           Role
		expectedEnergy float64
		expectedSize   float64
		expectedOffset core.Vec3
	}{
		{RoleKey, 1000, 2.0, core.NewVec3(150, -200, 250)},
		{RoleFill, 300, 3.0, core.NewVec3(-200, -150, 100)},
		{RoleRim, 500, 1.5, core.NewVec3(100, 200, 200)},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			light := rig.Light(tt.role)
			if light == nil {
				t.Fatalf("Expected %s light in rig", tt.role)
			}
			if light.Energy != tt.expectedEnergy {
				t.Errorf("Expected energy %v, got %v", tt.expectedEnergy, light.Energy)
			}
			if light.Size != tt.expectedSize {
				t.Errorf("Expected size %v, got %v", tt.expectedSize, light.Size)
			}
			if light.Offset != tt.expectedOffset {
				t.Errorf("Expected offset %v, got %v", tt.expectedOffset, light.Offset)
			}
		})
	}
}

func TestRig_FitTo(t *testing.T) {
	tests := []struct {
		name          string
		heightMM      float64
		expectedScale float64
	}{
		{"Reference height keeps base energies", 200, 1.0},
		{"Double height quadruples energy", 400, 2.0},
		{"Half height quarters energy", 100, 0.5},
		{"Tiny object clamps low", 2, 0.1},
		{"Giant object clamps high", 9000, 20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := NewThreePointRig()
			rig.FitTo(boundsWithHeight(tt.heightMM))

			const tolerance = 1e-9
			if math.Abs(rig.Scale-tt.expectedScale) > tolerance {
				t.Errorf("Expected scale %v, got %v", tt.expectedScale, rig.Scale)
			}

			boost := tt.expectedScale * tt.expectedScale
			for _, light := range rig.Lights {
				if math.Abs(light.Energy-light.BaseEnergy*boost) > tolerance {
					t.Errorf("Expected %s energy %v, got %v", light.Role, light.BaseEnergy*boost, light.Energy)
				}
				if math.Abs(light.Size-2.0*tt.expectedScale) > tolerance {
					t.Errorf("Expected %s size %v, got %v", light.Role, 2.0*tt.expectedScale, light.Size)
				}
			}
		})
	}
}

func TestRig_FitToCentersOnGroup(t *testing.T) {
	rig := NewThreePointRig()
	b := framing.Bounds{
		Box:       core.NewAABB(core.NewVec3(1, 2, 3), core.NewVec3(2, 3, 4)),
		MMPerUnit: 1000.0,
	}

	rig.FitTo(b)

	if rig.Location != core.NewVec3(1.5, 2.5, 3.5) {
		t.Errorf("Expected rig at box center (1.5, 2.5, 3.5), got %v", rig.Location)
	}
}

func TestSetupForGroup_OwnLightsHideRig(t *testing.T) {
	rig := NewThreePointRig()
	g := scene.NewGroup("RENDER_lamp",
		scene.NewBoxPart("base", core.NewVec3(0.1, 0.1, 0.1), scene.Transform{}),
		scene.NewLightPart("bulb"),
		scene.NewLightPart("glow"),
	)
	b, ok := framing.Aggregate(g.Parts, 1.0)

	desc := SetupForGroup(rig, g, b, ok)

	if rig.Visible {
		t.Error("Expected rig hidden when the group has its own lights")
	}
	if !strings.Contains(desc, "2") {
		t.Errorf("Expected light count in description, got %q", desc)
	}

	// Hidden, not refitted: energies stay at calibration.
	if rig.Light(RoleKey).Energy != 1000 {
		t.Errorf("Expected untouched key energy, got %v", rig.Light(RoleKey).Energy)
	}
}

func TestSetupForGroup_ScalesRig(t *testing.T) {
	rig := NewThreePointRig()
	g := scene.NewGroup("RENDER_mug",
		scene.NewBoxPart("body", core.NewVec3(0.1, 0.1, 0.4), scene.Transform{}),
	)
	b, ok := framing.Aggregate(g.Parts, 1.0)

	desc := SetupForGroup(rig, g, b, ok)

	if !rig.Visible {
		t.Error("Expected rig visible")
	}
	if math.Abs(rig.Scale-2.0) > 1e-9 {
		t.Errorf("Expected scale 2.0 for a 400mm object, got %v", rig.Scale)
	}
	if !strings.Contains(desc, "scaled rig") {
		t.Errorf("Expected scaled rig description, got %q", desc)
	}
}

func TestSetupForGroup_NoBoundsLeavesRigAlone(t *testing.T) {
	rig := NewThreePointRig()
	rig.Visible = false // left over from a previous group
	g := scene.NewGroup("RENDER_notes", scene.NewBoxPart("_stand", core.NewVec3(1, 1, 1), scene.Transform{}))

	SetupForGroup(rig, g, framing.Bounds{}, false)

	if !rig.Visible {
		t.Error("Expected rig shown again")
	}
	if rig.Scale != 1.0 {
		t.Errorf("Expected scale untouched at 1.0, got %v", rig.Scale)
	}
}
