package framing

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		widthMM        float64
		heightMM       float64
		spec           RenderSpec
		expectedWidth  int
		expectedHeight int
	}{
		{
			name:           "100x200mm at studio defaults",
			widthMM:        100,
			heightMM:       200,
			spec:           RenderSpec{ScalePxPerMM: 10, PaddingPx: 10},
			expectedWidth:  1020,
			expectedHeight: 2020,
		},
		{
			name:           "Fractional millimeters truncate",
			widthMM:        99.96,
			heightMM:       100.04,
			spec:           RenderSpec{ScalePxPerMM: 10, PaddingPx: 10},
			expectedWidth:  1019, // 999.6 px truncates to 999
			expectedHeight: 1020,
		},
		{
			name:           "No padding",
			widthMM:        50,
			heightMM:       50,
			spec:           RenderSpec{ScalePxPerMM: 4, PaddingPx: 0},
			expectedWidth:  200,
			expectedHeight: 200,
		},
		{
			name:           "Sub-pixel object is mostly padding",
			widthMM:        0.04,
			heightMM:       0.04,
			spec:           RenderSpec{ScalePxPerMM: 10, PaddingPx: 10},
			expectedWidth:  20,
			expectedHeight: 20,
		},
		{
			name:           "High detail scan scale",
			widthMM:        120.5,
			heightMM:       80.25,
			spec:           RenderSpec{ScalePxPerMM: 40, PaddingPx: 25},
			expectedWidth:  4870, // int(4820.0) + 50
			expectedHeight: 3260, // int(3210.0) + 50
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.widthMM, tt.heightMM, tt.spec)
			if res.Width != tt.expectedWidth {
				t.Errorf("Expected width %d, got %d", tt.expectedWidth, res.Width)
			}
			if res.Height != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, res.Height)
			}
		})
	}
}

func TestResolve_MonotoneInDimensions(t *testing.T) {
	spec := DefaultRenderSpec()

	prev := Resolve(0, 0, spec)
	for mm := 1.0; mm <= 1000; mm *= 1.7 {
		res := Resolve(mm, mm, spec)
		if res.Width < prev.Width || res.Height < prev.Height {
			t.Fatalf("Resolution shrank from %s to %s at %vmm", prev, res, mm)
		}
		prev = res
	}
}

func TestResolution_AspectRatio(t *testing.T) {
	res := Resolution{Width: 1020, Height: 2040}
	if res.AspectRatio() != 0.5 {
		t.Errorf("Expected aspect 0.5, got %v", res.AspectRatio())
	}

	degenerate := Resolution{Width: 100, Height: 0}
	if degenerate.AspectRatio() != 0 {
		t.Errorf("Expected aspect 0 for zero height, got %v", degenerate.AspectRatio())
	}
}

func TestResolution_String(t *testing.T) {
	res := Resolution{Width: 1020, Height: 2020}
	if res.String() != "1020x2020" {
		t.Errorf("Expected '1020x2020', got %q", res.String())
	}
}
