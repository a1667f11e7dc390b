package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/aTanguay/scalerender/pkg/config"
	"github.com/aTanguay/scalerender/pkg/scene"
	"github.com/aTanguay/scalerender/pkg/scenescript"
	"github.com/aTanguay/scalerender/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenePath := flag.String("scene", "demo", "Scene script path, or 'demo' for the built-in catalog")
	configPath := flag.String("config", "", "TOML config file")
	watch := flag.Bool("watch", false, "Reload the scene script when it changes on disk")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	logger := newLogger(*verbose)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fatal(logger, err)
		}
	}

	world, err := loadWorld(*scenePath)
	if err != nil {
		fatal(logger, err)
	}

	srv := server.New(*port, cfg, logger)
	srv.SetWorld(world, *scenePath)
	logger.Info("scene loaded", "scene", *scenePath, "groups", len(world.Groups))

	if *watch {
		if *scenePath == "demo" {
			logger.Warn("nothing to watch, the demo catalog is built in")
		} else {
			watcher, err := watchScene(*scenePath, srv, logger)
			if err != nil {
				fatal(logger, err)
			}
			defer watcher.Close()
		}
	}

	if err := srv.Start(); err != nil {
		fatal(logger, err)
	}
}

// watchScene reloads the script whenever it changes on disk, keeping the
// previous world when an edit does not parse. Watches the directory because
// editors replace files on save rather than writing in place.
func watchScene(path string, srv *server.Server, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch scene: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Base(path)
	engine := scenescript.NewEngine()
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				world, err := engine.LoadFile(path)
				if err != nil {
					logger.Warn("reload failed, keeping previous scene", "scene", path, "err", err)
					continue
				}
				srv.SetWorld(world, path)
				logger.Info("scene reloaded", "scene", path, "groups", len(world.Groups))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "err", err)
			}
		}
	}()
	return watcher, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadWorld(path string) (*scene.World, error) {
	if path == "demo" {
		return scenescript.LoadDemo()
	}
	return scenescript.NewEngine().LoadFile(path)
}

func fatal(logger *slog.Logger, err error) {
	logger.Error("fatal", "err", err)
	os.Exit(1)
}
