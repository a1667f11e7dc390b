// Package pipeline runs the framing engine over scene groups: Evaluate is
// the dry run that reports what a render would do, RenderAll is the batch
// that does it, group by group, against the shared light rig.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/lighting"
	"github.com/aTanguay/scalerender/pkg/scene"
)

// Evaluation is the per-group readout: what the group measures, the exact
// output resolution, the solved camera, and the lighting plan.
type Evaluation struct {
	Group      string              `json:"group"`
	WidthMM    float64             `json:"widthMM"`
	DepthMM    float64             `json:"depthMM"`
	HeightMM   float64             `json:"heightMM"`
	Resolution framing.Resolution  `json:"resolution"`
	Spec       framing.RenderSpec  `json:"spec"`
	Camera     framing.SolveResult `json:"camera"`
	Lighting   string              `json:"lighting"`
	Warning    string              `json:"warning,omitempty"`
}

// Evaluate runs the dry-run sequence for one group: aggregate, validate
// dimensions, resolve the resolution, validate it, solve the camera, plan
// lighting. The first invalid check stops the group with a
// *framing.ValidationError; warnings ride along in the readout.
//
// The returned Evaluation carries whatever was solved before a failure. A
// group with no measurable geometry keeps the fallback camera pose, which
// is what a host viewport shows for an empty group.
func Evaluate(world *scene.World, g *scene.Group, rig *lighting.Rig, spec framing.RenderSpec, lens framing.Lens, elevation float64) (Evaluation, error) {
	ev := Evaluation{Group: g.Name, Spec: spec}

	bounds, ok := framing.Aggregate(g.Parts, world.UnitScale)
	if !ok {
		ev.Camera = framing.SolveResult{Frame: framing.FallbackFrame(elevation)}
		return ev, &framing.ValidationError{
			Group:   g.Name,
			Issue:   framing.IssueNoGeometry,
			Message: "no mesh objects found",
		}
	}

	ev.WidthMM = bounds.WidthMM()
	ev.DepthMM = bounds.DepthMM()
	ev.HeightMM = bounds.HeightMM()

	if check := framing.CheckDimensions(ev.WidthMM, ev.HeightMM, ev.DepthMM); !check.OK() {
		return ev, check.Err(g.Name)
	}

	ev.Resolution = framing.Resolve(ev.WidthMM, ev.HeightMM, spec)
	check := framing.CheckResolution(ev.Resolution)
	if !check.OK() {
		return ev, check.Err(g.Name)
	}
	if check.Status == framing.StatusWarning {
		ev.Warning = check.Message
	}

	ev.Camera = framing.SolveCamera(bounds, spec, lens, elevation)
	ev.Lighting = lighting.SetupForGroup(rig, g, bounds, true)
	return ev, nil
}

// GroupError records one failed group in a batch
type GroupError struct {
	Group string
	Err   error
}

// MarshalJSON carries the error text so batch results survive encoding
func (e GroupError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Group string `json:"group"`
		Error string `json:"error"`
	}{e.Group, msg})
}

// BatchResult tallies a batch run
type BatchResult struct {
	Rendered int          `json:"rendered"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	Errors   []GroupError `json:"errors,omitempty"`
	Canceled bool         `json:"canceled,omitempty"`
}

// Summary returns the one-line batch readout
func (r BatchResult) Summary() string {
	s := fmt.Sprintf("batch complete: %d rendered", r.Rendered)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	if r.Canceled {
		s += " (canceled)"
	}
	return s
}

// Pipeline owns one batch configuration: the scale contract, the optics,
// group selection, output policy, and the collaborators that do the work.
type Pipeline struct {
	Spec      framing.RenderSpec
	Lens      framing.Lens
	Elevation float64
	Prefix    string
	OutputDir string
	Overwrite OverwriteMode
	Settings  OutputSettings
	Renderer  Renderer
	Rig       *lighting.Rig
	Logger    *slog.Logger
}

// New wires a pipeline with the studio defaults and the sidecar renderer.
// A nil logger discards.
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		Spec:      framing.DefaultRenderSpec(),
		Lens:      framing.DefaultLens(),
		Elevation: framing.DefaultElevation,
		Prefix:    "RENDER_",
		OutputDir: "renders",
		Overwrite: Overwrite,
		Settings:  DefaultOutputSettings(),
		Renderer:  FrameRenderer{},
		Rig:       lighting.NewThreePointRig(),
		Logger:    logger,
	}
}

// RenderAll renders every group matching the prefix, one at a time. The
// rig is the scene's shared singleton, so only one render is ever in
// flight. Failed groups are recorded and the batch moves on; cancellation
// is cooperative, letting the group in flight finish. The rig ends up
// visible whatever happened.
func (p *Pipeline) RenderAll(ctx context.Context, world *scene.World) BatchResult {
	var result BatchResult
	defer func() { p.Rig.Visible = true }()

	groups := scene.FilterGroups(world.Groups, p.Prefix)
	p.Logger.Info("batch start", "groups", len(groups), "prefix", p.Prefix, "out", p.OutputDir)

	for i, g := range groups {
		select {
		case <-ctx.Done():
			p.Logger.Warn("batch canceled", "rendered", result.Rendered, "remaining", len(groups)-i)
			result.Canceled = true
			return result
		default:
		}

		p.Logger.Info("rendering", "group", g.Name, "n", i+1, "of", len(groups))
		skipped, err := p.renderGroup(ctx, world, g)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, GroupError{Group: g.Name, Err: err})
			p.Logger.Error("group failed", "group", g.Name, "err", err)
		case skipped:
			result.Skipped++
			p.Logger.Info("skipped, file exists", "group", g.Name)
		default:
			result.Rendered++
		}
	}

	p.Logger.Info(result.Summary())
	return result
}

// RenderOne renders a single named group through the same isolation and
// output path as the batch. An unknown name comes back as a one-group
// failure.
func (p *Pipeline) RenderOne(ctx context.Context, world *scene.World, name string) BatchResult {
	var result BatchResult
	defer func() { p.Rig.Visible = true }()

	g, ok := world.Group(name)
	if !ok {
		result.Failed = 1
		result.Errors = append(result.Errors, GroupError{
			Group: name,
			Err:   fmt.Errorf("no group named %q", name),
		})
		return result
	}

	skipped, err := p.renderGroup(ctx, world, g)
	switch {
	case err != nil:
		result.Failed = 1
		result.Errors = append(result.Errors, GroupError{Group: g.Name, Err: err})
		p.Logger.Error("group failed", "group", g.Name, "err", err)
	case skipped:
		result.Skipped = 1
	default:
		result.Rendered = 1
	}
	return result
}

// renderGroup isolates, evaluates, and renders one group, restoring group
// visibility no matter how it exits.
func (p *Pipeline) renderGroup(ctx context.Context, world *scene.World, g *scene.Group) (skipped bool, err error) {
	restore := isolate(world, g)
	defer restore()

	ev, err := Evaluate(world, g, p.Rig, p.Spec, p.Lens, p.Elevation)
	if err != nil {
		return false, err
	}

	if err := EnsureOutputDir(p.OutputDir); err != nil {
		return false, fmt.Errorf("%s: %w", g.Name, err)
	}

	wanted := filepath.Join(p.OutputDir, OutputFilename(g.Name, p.Prefix))
	path, skip := ResolvePath(wanted, p.Overwrite)
	if skip {
		return true, nil
	}

	job := RenderJob{
		Group:      g.Name,
		Frame:      ev.Camera.Frame,
		Rotation:   ev.Camera.Frame.Rotation(),
		Distance:   ev.Camera.Distance,
		Resolution: ev.Resolution,
		Spec:       p.Spec,
		Rig:        *p.Rig,
		Lighting:   ev.Lighting,
		OutputPath: path,
		Settings:   p.Settings,
	}
	if err := p.Renderer.Render(ctx, job); err != nil {
		return false, fmt.Errorf("%s: render: %w", g.Name, err)
	}

	p.Logger.Info("rendered", "group", g.Name, "resolution", ev.Resolution.String(),
		"path", path, "lighting", ev.Lighting)
	return false, nil
}

// isolate hides every group but the target and returns the undo
func isolate(world *scene.World, target *scene.Group) func() {
	prior := make([]bool, len(world.Groups))
	for i, g := range world.Groups {
		prior[i] = g.Hidden
		g.Hidden = g != target
	}
	return func() {
		for i, g := range world.Groups {
			g.Hidden = prior[i]
		}
	}
}

// EvalResult pairs a group's readout with its evaluation error, if any
type EvalResult struct {
	Evaluation Evaluation `json:"evaluation"`
	Err        error      `json:"-"`
}

// EvalAll evaluates every matching group across a bounded worker pool.
// Evaluation is pure with respect to the scene: each worker plans against
// its own throwaway rig, so the shared rig never moves. Results come back
// in group order. workers <= 0 means one per CPU.
func (p *Pipeline) EvalAll(ctx context.Context, world *scene.World, workers int) []EvalResult {
	groups := scene.FilterGroups(world.Groups, p.Prefix)
	results := make([]EvalResult, len(groups))
	if len(groups) == 0 {
		return results
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(groups) {
		workers = len(groups)
	}

	tasks := make(chan int, len(groups))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rig := lighting.NewThreePointRig()
			for i := range tasks {
				if err := ctx.Err(); err != nil {
					results[i] = EvalResult{Evaluation: Evaluation{Group: groups[i].Name}, Err: err}
					continue
				}
				ev, err := Evaluate(world, groups[i], rig, p.Spec, p.Lens, p.Elevation)
				results[i] = EvalResult{Evaluation: ev, Err: err}
			}
		}()
	}

	for i := range groups {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	return results
}
