package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aTanguay/scalerender/pkg/config"
	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/pipeline"
	"github.com/aTanguay/scalerender/pkg/scene"
	"github.com/aTanguay/scalerender/pkg/scenescript"
)

func main() {
	scenePath := flag.String("scene", "demo", "Scene script path, or 'demo' for the built-in catalog")
	configPath := flag.String("config", "", "TOML config file")
	evalOnly := flag.Bool("eval", false, "Evaluate groups and print the readout without rendering")
	groupName := flag.String("group", "", "Render a single group by exact name")
	prefix := flag.String("prefix", "", "Group name prefix to select")
	scale := flag.Float64("scale", 0, "Pixels per millimeter")
	padding := flag.Int("padding", 0, "Padding in pixels around the object")
	out := flag.String("out", "", "Output folder")
	overwrite := flag.String("overwrite", "", "Existing file policy: overwrite, skip, or increment")
	workers := flag.Int("workers", 0, "Evaluation workers (0 = one per CPU)")
	verbose := flag.Bool("v", false, "Verbose logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Scale-true product renderer")
		fmt.Println("Usage: scalerender [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("The scene script declares product groups. Every group whose name")
		fmt.Println("carries the prefix renders to one image, framed so each millimeter")
		fmt.Println("of product covers the same number of pixels in every shot.")
		return
	}

	logger := newLogger(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "prefix":
			cfg.Prefix = *prefix
		case "scale":
			cfg.ScaleFactor = *scale
		case "padding":
			cfg.PaddingPx = *padding
		case "out":
			cfg.OutputFolder = *out
		case "overwrite":
			cfg.OverwriteMode = *overwrite
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	mode, err := pipeline.ParseOverwriteMode(cfg.OverwriteMode)
	if err != nil {
		fatal(err)
	}

	world, err := loadWorld(*scenePath)
	if err != nil {
		var serr *scenescript.ScriptError
		if errors.As(err, &serr) {
			fatal(fmt.Errorf("scene script: %s", serr))
		}
		fatal(err)
	}
	logger.Debug("scene loaded",
		"groups", len(world.Groups),
		"unitScale", world.UnitScale)

	p := pipeline.New(logger)
	p.Spec = cfg.RenderSpec()
	p.Lens = cfg.Lens()
	p.Elevation = cfg.Elevation()
	p.Prefix = cfg.Prefix
	p.OutputDir = cfg.OutputFolder
	p.Overwrite = mode

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *evalOnly {
		runEval(ctx, p, world, *workers)
		return
	}

	var result pipeline.BatchResult
	if *groupName != "" {
		result = p.RenderOne(ctx, world, *groupName)
	} else {
		result = p.RenderAll(ctx, world)
	}

	fmt.Println(result.Summary())
	for _, ge := range result.Errors {
		fmt.Fprintf(os.Stderr, "Error: %v\n", ge.Err)
	}
	if result.Failed > 0 {
		os.Exit(1)
	}
}

// runEval prints the per-group framing readout instead of rendering.
func runEval(ctx context.Context, p *pipeline.Pipeline, world *scene.World, workers int) {
	results := p.EvalAll(ctx, world, workers)
	if len(results) == 0 {
		fmt.Printf("No groups found with prefix %q\n", p.Prefix)
		os.Exit(1)
	}

	problems := 0
	for _, res := range results {
		fmt.Print(formatEvaluation(res))
		if res.Err != nil {
			problems++
		}
	}
	fmt.Printf("%d groups evaluated, %d with problems\n", len(results), problems)
	if problems > 0 {
		os.Exit(1)
	}
}

// formatEvaluation renders one group's readout as an indented block.
func formatEvaluation(res pipeline.EvalResult) string {
	ev := res.Evaluation
	s := ev.Group + "\n"
	if res.Err != nil {
		var verr *framing.ValidationError
		if errors.As(res.Err, &verr) {
			return s + fmt.Sprintf("  error:      %s\n", verr.Message)
		}
		return s + fmt.Sprintf("  error:      %v\n", res.Err)
	}

	s += fmt.Sprintf("  size:       %.1f x %.1f x %.1f mm (w x d x h)\n",
		ev.WidthMM, ev.DepthMM, ev.HeightMM)
	s += fmt.Sprintf("  resolution: %s px at %.1f px/mm\n",
		ev.Resolution, ev.Spec.ScalePxPerMM)
	if ev.Camera.Converged {
		s += fmt.Sprintf("  camera:     distance %.3f, converged in %d passes\n",
			ev.Camera.Distance, ev.Camera.Iterations)
	} else {
		s += fmt.Sprintf("  camera:     distance %.3f, stopped after %d passes\n",
			ev.Camera.Distance, ev.Camera.Iterations)
	}
	s += fmt.Sprintf("  lighting:   %s\n", ev.Lighting)
	if ev.Warning != "" {
		s += fmt.Sprintf("  warning:    %s\n", ev.Warning)
	}
	return s
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func loadWorld(path string) (*scene.World, error) {
	if path == "demo" {
		return scenescript.LoadDemo()
	}
	return scenescript.NewEngine().LoadFile(path)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
