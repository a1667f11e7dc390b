// Package server is the headless eval service: the framing pipeline behind
// a small JSON API, with batch progress streamed over SSE.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/aTanguay/scalerender/pkg/config"
	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/scene"
)

// Server serves framing evaluations for one loaded scene. The scene may be
// swapped at any time (watch mode), so reads go through the snapshot.
type Server struct {
	port   int
	cfg    config.Config
	logger *slog.Logger

	mu     sync.RWMutex
	world  *scene.World
	source string
}

// New creates a server around the given settings. A nil logger discards.
func New(port int, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{port: port, cfg: cfg, logger: logger}
}

// SetWorld swaps the served scene. Watch mode calls this on every
// successful reload.
func (s *Server) SetWorld(world *scene.World, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = world
	s.source = source
}

func (s *Server) snapshot() (*scene.World, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world, s.source
}

// Handler returns the route table. Split from Start so tests can drive the
// handlers through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/groups", s.handleGroups)
	mux.HandleFunc("POST /api/eval", s.handleEval)
	mux.HandleFunc("GET /api/batch/stream", s.handleBatchStream)
	return mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("eval service listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	world, source := s.snapshot()
	groups := 0
	if world != nil {
		groups = len(world.Groups)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"scene":  source,
		"groups": groups,
	})
}

// specFromQuery builds the render spec for one request: the server config
// with any query-string overrides applied.
func (s *Server) specFromQuery(q url.Values) (framing.RenderSpec, string, error) {
	scale, err := parseFloatParam(q, "scale", s.cfg.ScaleFactor, config.MinScaleFactor, config.MaxScaleFactor)
	if err != nil {
		return framing.RenderSpec{}, "", err
	}
	padding, err := parseIntParam(q, "padding", s.cfg.PaddingPx, 0, config.MaxPaddingPx)
	if err != nil {
		return framing.RenderSpec{}, "", err
	}
	prefix := q.Get("prefix")
	if prefix == "" {
		prefix = s.cfg.Prefix
	}
	return framing.RenderSpec{ScalePxPerMM: scale, PaddingPx: padding}, prefix, nil
}

// parseIntParam reads an integer query parameter, falling back to the
// default when absent and rejecting values outside [min, max].
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %q", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s out of range [%d, %d]: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// parseFloatParam is parseIntParam for floats
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %q", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s out of range [%g, %g]: %g", key, min, max, parsed)
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
