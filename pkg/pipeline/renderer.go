package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/lighting"
)

// OutputSettings is the host image configuration handed to the renderer
type OutputSettings struct {
	Format      string `json:"format"`
	ColorMode   string `json:"colorMode"`
	ColorDepth  int    `json:"colorDepth"`
	Transparent bool   `json:"transparent"`
}

// DefaultOutputSettings returns the product-shot settings: 16-bit RGBA PNG
// over transparent film.
func DefaultOutputSettings() OutputSettings {
	return OutputSettings{
		Format:      "PNG",
		ColorMode:   "RGBA",
		ColorDepth:  16,
		Transparent: true,
	}
}

// RenderJob hands one solved group to the renderer: the pose, the exact
// pixel resolution, a snapshot of the rig, and where the image goes.
type RenderJob struct {
	Group      string              `json:"group"`
	Frame      framing.CameraFrame `json:"frame"`
	Rotation   core.Euler          `json:"rotation"`
	Distance   float64             `json:"distance"`
	Resolution framing.Resolution  `json:"resolution"`
	Spec       framing.RenderSpec  `json:"spec"`
	Rig        lighting.Rig        `json:"rig"`
	Lighting   string              `json:"lighting"`
	OutputPath string              `json:"outputPath"`
	Settings   OutputSettings      `json:"settings"`
}

// Renderer synthesizes the image for a solved job. Image synthesis lives
// in the host; the pipeline only hands over the framing contract.
type Renderer interface {
	Render(ctx context.Context, job RenderJob) error
}

// FrameRenderer is the built-in renderer. It writes the framing contract
// as a JSON sidecar next to where the image would go, so batches exercise
// the full output path without an image synthesizer attached.
type FrameRenderer struct{}

// Render writes the job as an indented JSON sidecar
func (FrameRenderer) Render(ctx context.Context, job RenderJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encode frame sidecar: %w", err)
	}

	path := SidecarPath(job.OutputPath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write frame sidecar: %w", err)
	}
	return nil
}

// SidecarPath maps an image path to its framing sidecar: same name, .json
// extension.
func SidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".json"
}
