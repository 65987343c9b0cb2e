// Package logs builds the scheme's structured logger and its two tabular
// log sinks (iterations, convergence), fanning every record out to a
// terminal handler and any file handlers the caller wires in.
package logs

import (
	"context"
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// SpanKey tags a context value carrying the active window/iteration span,
// attached to every record that flows through Handler.
type SpanKey struct{}

// Span identifies which window and iteration a log record belongs to.
type Span struct {
	TimeWindow int
	Iteration  int
}

// Handler wraps a slog.Handler and stamps every record with the Span found
// in its context, so a participant's whole run can be filtered by window
// without threading window/iteration through every log call site.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v := ctx.Value(SpanKey{}); v != nil {
		span := v.(Span)
		record.Add(slog.Int("time_window", span.TimeWindow), slog.Int("iteration", span.Iteration))
	}
	return h.Handler.Handle(ctx, record)
}

// WithSpan returns a context carrying span, for use with a *slog.Logger
// built by New.
func WithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, SpanKey{}, span)
}

var level = new(slog.LevelVar)

// SetLevel adjusts the shared log level for every logger built by New.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// New builds a *slog.Logger that fans out to a terminal text handler over
// terminal and to every extra handler supplied (typically the two tabular
// log sinks' underlying writers wrapped as slog handlers, or a remote sink).
func New(terminal io.Writer, extra ...slog.Handler) *slog.Logger {
	handlers := make([]slog.Handler, 0, len(extra)+1)
	handlers = append(handlers, slog.NewTextHandler(terminal, &slog.HandlerOptions{Level: level}))
	handlers = append(handlers, extra...)
	return slog.New(&Handler{Handler: slogmulti.Fanout(handlers...)})
}
