package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes evaluated at log time.
type ContextProvider func() []slog.Attr

// RaceContext reports the race name and current turn on every record. Either
// callback may be nil.
func RaceContext(race func() string, turn func() int) ContextProvider {
	return func() []slog.Attr {
		var attrs []slog.Attr
		if race != nil {
			if name := race(); name != "" {
				attrs = append(attrs, slog.String("race", name))
			}
		}
		if turn != nil {
			if n := turn(); n > 0 {
				attrs = append(attrs, slog.Int("turn", n))
			}
		}
		return attrs
	}
}

// ContextHandler wraps another handler and injects dynamic context attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
