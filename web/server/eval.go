package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/pipeline"
	"github.com/aTanguay/scalerender/pkg/scene"
	"github.com/aTanguay/scalerender/pkg/scenescript"
)

// EvalGroup is one group's readout in an eval response. A failed group
// carries its error text plus whatever the evaluation solved before failing.
type EvalGroup struct {
	pipeline.Evaluation
	Error string `json:"error,omitempty"`
}

// EvalResponse holds the readouts for every matching group
type EvalResponse struct {
	Scene    string      `json:"scene"`
	Groups   []EvalGroup `json:"groups"`
	Problems int         `json:"problems"`
}

// Scene scripts are hand-written catalogs; anything bigger is a mistake.
const maxScriptBytes = 1 << 20

// handleEval evaluates a scene without rendering anything. A non-empty body
// is loaded as a scene script; an empty body evaluates the server's loaded
// scene. Spec overrides (scale, padding, prefix) ride in the query string.
func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	spec, prefix, err := s.specFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScriptBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read script: %v", err))
		return
	}

	world, source := s.snapshot()
	if len(bytes.TrimSpace(body)) > 0 {
		loaded, err := scenescript.NewEngine().LoadString(string(body))
		if err != nil {
			writeScriptError(w, err)
			return
		}
		world, source = loaded, "request"
	}
	if world == nil {
		writeError(w, http.StatusServiceUnavailable, "no scene loaded")
		return
	}

	writeJSON(w, http.StatusOK, s.evaluate(r.Context(), world, source, spec, prefix))
}

// evaluate runs the worker-pool evaluation and shapes the response
func (s *Server) evaluate(ctx context.Context, world *scene.World, source string, spec framing.RenderSpec, prefix string) EvalResponse {
	p := pipeline.New(s.logger)
	p.Spec = spec
	p.Prefix = prefix
	p.Lens = s.cfg.Lens()
	p.Elevation = s.cfg.Elevation()

	results := p.EvalAll(ctx, world, 0)
	resp := EvalResponse{Scene: source, Groups: make([]EvalGroup, 0, len(results))}
	for _, res := range results {
		eg := EvalGroup{Evaluation: res.Evaluation}
		if res.Err != nil {
			eg.Error = res.Err.Error()
			resp.Problems++
		}
		resp.Groups = append(resp.Groups, eg)
	}
	return resp
}

// writeScriptError reports a script that would not load, with the line
// number when the engine could pin one down.
func writeScriptError(w http.ResponseWriter, err error) {
	var serr *scenescript.ScriptError
	if !errors.As(err, &serr) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp := map[string]any{"error": serr.Message}
	if serr.Line > 0 {
		resp["line"] = serr.Line
	}
	writeJSON(w, http.StatusBadRequest, resp)
}
