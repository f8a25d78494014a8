package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewZerolog builds the logger handed to the database and telemetry managers.
// It writes to w, or discards when w is nil.
func NewZerolog(w io.Writer, level, component string) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
}
