package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// osStdout is swapped by tests.
var osStdout io.Writer = os.Stdout

// SlogManager manages slog-based logging with optional OTel and Graylog output.
type SlogManager struct {
	logger  *slog.Logger
	service string

	graylog     *gelf.Writer
	context     ContextProvider
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager. service names the
// OTel instrumentation scope.
func NewSlogManager(service string) *SlogManager {
	return &SlogManager{service: service}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnableGraylog opens a GELF writer to addr. Must be called before Setup.
func (m *SlogManager) EnableGraylog(addr string) error {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to graylog at %s: %w", addr, err)
	}
	m.graylog = w
	return nil
}

// SetContext registers attributes appended to every record. Must be called
// before Setup.
func (m *SlogManager) SetContext(p ContextProvider) {
	m.context = p
}

// Setup initializes the logging system. Records go to file, or to stdout when
// file is nil, plus Graylog and OTel when configured. If provider is nil, OTel
// logging is disabled.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	lvl := parseLevel(level)
	m.logProvider = provider

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}
	if m.graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(m.graylog, handlerOpts))
	}
	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler(m.service, otelslog.WithLoggerProvider(provider)))
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if m.context != nil {
		h = NewContextHandler(h, m.context)
	}

	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", level, "graylog", m.graylog != nil, "otel", provider != nil)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}

// Close releases the Graylog connection.
func (m *SlogManager) Close() error {
	if m.graylog == nil {
		return nil
	}
	err := m.graylog.Close()
	m.graylog = nil
	return err
}

// WriteLog writes a log entry for component at the given level.
func (m *SlogManager) WriteLog(component, data, level string) {
	if m.logger == nil {
		return
	}
	m.logger.Log(context.Background(), parseLevel(level), data, "component", component)
}
