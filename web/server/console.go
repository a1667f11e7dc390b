package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage is one log line mirrored into an SSE stream
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Level     string    `json:"level"` // "info", "warning", "error"
	Timestamp time.Time `json:"timestamp"`
}

// consoleHandler copies records into a console channel on top of a base
// handler, so a streaming request sees the same lines as the server log.
// Sends never block; when the channel is full the stream drops the line and
// the base handler still gets it.
type consoleHandler struct {
	base slog.Handler
	ch   chan<- ConsoleMessage
}

// newConsoleLogger builds a request-scoped logger that mirrors into ch.
// A nil channel just logs through the base handler.
func newConsoleLogger(base slog.Handler, ch chan<- ConsoleMessage) *slog.Logger {
	return slog.New(&consoleHandler{base: base, ch: ch})
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *consoleHandler) Handle(ctx context.Context, rec slog.Record) error {
	if h.ch != nil {
		select {
		case h.ch <- ConsoleMessage{
			Message:   formatRecord(rec),
			Level:     levelName(rec.Level),
			Timestamp: rec.Time,
		}:
		default:
		}
	}
	return h.base.Handle(ctx, rec)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{base: h.base.WithAttrs(attrs), ch: h.ch}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{base: h.base.WithGroup(name), ch: h.ch}
}

// formatRecord flattens a record into the single line the web console shows
func formatRecord(rec slog.Record) string {
	var b strings.Builder
	b.WriteString(rec.Message)
	rec.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	return b.String()
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}
