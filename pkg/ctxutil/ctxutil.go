// Package ctxutil carries per-run values through contexts and into logs.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	documentKey
)

// WithRunID stores the ID of the current annotation run.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx returns the run ID, or false when it is missing or uuid.Nil.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithDocument stores the name of the document being annotated.
func WithDocument(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, documentKey, name)
}

// DocumentFromCtx returns the document name, or "".
func DocumentFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(documentKey).(string)
	return name
}

// Handler adds run_id and document attributes from the context to records
// logged through the *Context methods of slog.Logger.
type Handler struct {
	next slog.Handler
}

// NewHandler wraps next.
func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	id, hasRun := RunIDFromCtx(ctx)
	doc := DocumentFromCtx(ctx)
	if hasRun || doc != "" {
		r = r.Clone()
		if hasRun {
			r.AddAttrs(slog.String("run_id", id.String()))
		}
		if doc != "" {
			r.AddAttrs(slog.String("document", doc))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{next: h.next.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name)}
}
