package framing

import (
	"math"
	"testing"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/scene"
)

func TestAggregate_CompositeBox(t *testing.T) {
	// Mug: a 100mm cylinder-ish body box plus a handle sticking out +X.
	body := scene.NewBoxPart("body", core.NewVec3(0.08, 0.08, 0.095), scene.Transform{
		Translation: core.NewVec3(0, 0, 0.0475),
	})
	handle := scene.NewBoxPart("handle", core.NewVec3(0.02, 0.06, 0.07), scene.Transform{
		Translation: core.NewVec3(0.05, 0, 0.05),
	})

	b, ok := Aggregate([]scene.Part{body, handle}, 1.0)
	if !ok {
		t.Fatal("Expected bounds for two mesh parts")
	}

	const tolerance = 1e-9
	if math.Abs(b.Box.Min.X-(-0.04)) > tolerance {
		t.Errorf("Expected min X -0.04, got %v", b.Box.Min.X)
	}
	if math.Abs(b.Box.Max.X-0.06) > tolerance {
		t.Errorf("Expected handle to extend max X to 0.06, got %v", b.Box.Max.X)
	}
	if math.Abs(b.Box.Max.Z-0.095) > tolerance {
		t.Errorf("Expected max Z 0.095, got %v", b.Box.Max.Z)
	}

	// 1.0 unit scale means 1000mm per unit.
	if math.Abs(b.WidthMM()-100.0) > 1e-6 {
		t.Errorf("Expected width 100mm, got %v", b.WidthMM())
	}
	if math.Abs(b.HeightMM()-95.0) > 1e-6 {
		t.Errorf("Expected height 95mm, got %v", b.HeightMM())
	}
}

func TestAggregate_SkipsHelpersAndLights(t *testing.T) {
	parts := []scene.Part{
		scene.NewBoxPart("body", core.NewVec3(0.1, 0.1, 0.1), scene.Transform{}),
		scene.NewBoxPart("_floor", core.NewVec3(5, 5, 0.01), scene.Transform{}),
		scene.NewLightPart("studio_key"),
	}

	b, ok := Aggregate(parts, 1.0)
	if !ok {
		t.Fatal("Expected bounds")
	}

	// The giant helper floor must not widen the box.
	size := b.Box.Size()
	if size.X > 0.1+1e-9 || size.Y > 0.1+1e-9 {
		t.Errorf("Expected 0.1 unit extents, got %v", size)
	}
}

func TestAggregate_NothingEligible(t *testing.T) {
	tests := []struct {
		name  string
		parts []scene.Part
	}{
		{"No parts", nil},
		{"Only helpers", []scene.Part{
			scene.NewBoxPart("_jig", core.NewVec3(1, 1, 1), scene.Transform{}),
		}},
		{"Only lights", []scene.Part{
			scene.NewLightPart("lamp"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Aggregate(tt.parts, 1.0); ok {
				t.Error("Expected no bounds")
			}
		})
	}
}

func TestBounds_MillimeterConversion(t *testing.T) {
	part := scene.NewBoxPart("plate", core.NewVec3(0.2, 0.1, 0.05), scene.Transform{})

	// A millimeter scene: 0.001m per unit, so dimensions come out tiny.
	b, ok := Aggregate([]scene.Part{part}, 0.001)
	if !ok {
		t.Fatal("Expected bounds")
	}

	if math.Abs(b.MMPerUnit-1.0) > 1e-12 {
		t.Errorf("Expected 1mm per unit, got %v", b.MMPerUnit)
	}
	if math.Abs(b.WidthMM()-0.2) > 1e-9 {
		t.Errorf("Expected width 0.2mm, got %v", b.WidthMM())
	}

	sizeMM := b.SizeMM()
	if math.Abs(sizeMM.Y-0.1) > 1e-9 || math.Abs(sizeMM.Z-0.05) > 1e-9 {
		t.Errorf("Expected size (0.2, 0.1, 0.05)mm, got %v", sizeMM)
	}
}

func TestAggregate_RotatedPartWidensBox(t *testing.T) {
	straight, ok := Aggregate([]scene.Part{
		scene.NewBoxPart("bar", core.NewVec3(0.2, 0.02, 0.02), scene.Transform{}),
	}, 1.0)
	if !ok {
		t.Fatal("Expected bounds")
	}

	rotated, ok := Aggregate([]scene.Part{
		scene.NewBoxPart("bar", core.NewVec3(0.2, 0.02, 0.02), scene.Transform{
			Rotation: core.NewEuler(0, 0, math.Pi/4),
		}),
	}, 1.0)
	if !ok {
		t.Fatal("Expected bounds")
	}

	if rotated.DepthMM() <= straight.DepthMM() {
		t.Errorf("Expected rotation to widen depth: straight %vmm, rotated %vmm",
			straight.DepthMM(), rotated.DepthMM())
	}
}
