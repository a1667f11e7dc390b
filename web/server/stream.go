package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aTanguay/scalerender/pkg/framing"
	"github.com/aTanguay/scalerender/pkg/lighting"
	"github.com/aTanguay/scalerender/pkg/pipeline"
	"github.com/aTanguay/scalerender/pkg/scene"
)

// SSEEvent is one server-sent event queued for the stream writer
type SSEEvent struct {
	Type string
	Data string
}

// StreamSummary closes a batch stream
type StreamSummary struct {
	Evaluated int   `json:"evaluated"`
	Problems  int   `json:"problems"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// handleBatchStream walks the matching groups and streams each readout as
// it lands: a `log` event per mirrored log line, a `group` event per
// evaluation, then one `summary`. Client disconnect cancels through the
// request context.
func (s *Server) handleBatchStream(w http.ResponseWriter, r *http.Request) {
	world, _ := s.snapshot()
	if world == nil {
		writeError(w, http.StatusServiceUnavailable, "no scene loaded")
		return
	}

	spec, prefix, err := s.specFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns the wire; everything else queues events.
	events := make(chan SSEEvent, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeEvents(w, ctx, events)
	}()

	console := make(chan ConsoleMessage, 50)
	var forward sync.WaitGroup
	forward.Add(1)
	go func() {
		defer forward.Done()
		forwardConsole(ctx, console, events)
	}()

	logger := newConsoleLogger(s.logger.Handler(), console)

	start := time.Now()
	summary := s.streamGroups(ctx, events, logger, world, spec, prefix)
	summary.ElapsedMs = time.Since(start).Milliseconds()

	if data, err := json.Marshal(summary); err == nil {
		send(ctx, events, SSEEvent{Type: "summary", Data: string(data)})
	}

	close(console)
	forward.Wait()
	close(events)
	<-writerDone
}

// streamGroups evaluates the matching groups one at a time, pushing a
// `group` event per readout. Sequential because the batch this previews is
// sequential.
func (s *Server) streamGroups(ctx context.Context, events chan<- SSEEvent, logger *slog.Logger, world *scene.World, spec framing.RenderSpec, prefix string) StreamSummary {
	var summary StreamSummary
	groups := scene.FilterGroups(world.Groups, prefix)
	logger.Info("batch stream start", "groups", len(groups), "prefix", prefix)

	rig := lighting.NewThreePointRig()
	for _, g := range groups {
		select {
		case <-ctx.Done():
			logger.Warn("batch stream canceled", "evaluated", summary.Evaluated)
			return summary
		default:
		}

		ev, err := pipeline.Evaluate(world, g, rig, spec, s.cfg.Lens(), s.cfg.Elevation())
		eg := EvalGroup{Evaluation: ev}
		if err != nil {
			eg.Error = err.Error()
			summary.Problems++
			logger.Warn("group failed", "group", g.Name, "err", err)
		} else {
			logger.Info("group evaluated", "group", g.Name, "resolution", ev.Resolution.String())
		}
		summary.Evaluated++

		data, merr := json.Marshal(eg)
		if merr != nil {
			continue
		}
		send(ctx, events, SSEEvent{Type: "group", Data: string(data)})
	}
	return summary
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeEvents drains the event channel onto the wire from a single
// goroutine. Returns when the channel closes or the client goes away.
func writeEvents(w http.ResponseWriter, ctx context.Context, events <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// forwardConsole repackages mirrored log lines as `log` events. Lines drop
// rather than block the evaluation when the stream falls behind.
func forwardConsole(ctx context.Context, console <-chan ConsoleMessage, events chan<- SSEEvent) {
	for {
		select {
		case msg, ok := <-console:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			select {
			case events <- SSEEvent{Type: "log", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
			}
		case <-ctx.Done():
			return
		}
	}
}

// send queues an event unless the client is gone
func send(ctx context.Context, events chan<- SSEEvent, ev SSEEvent) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
