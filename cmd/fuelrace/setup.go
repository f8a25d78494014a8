package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/internal/logging"
	intOtel "github.com/fuelrace/fuelrace/internal/otel"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// logSetup bundles every log sink of a run.
type logSetup struct {
	slog  *logging.SlogManager
	otel  *intOtel.Provider
	file  *os.File
	level string
}

// setupLogging opens <logsDir>/fuelrace.<start>.log and wires slog, Graylog
// and OTel into it. A log file that cannot be created falls back to stdout.
func setupLogging(ctx context.Context, start time.Time, raceCtx logging.ContextProvider) *logSetup {
	ls := &logSetup{
		slog:  logging.NewSlogManager(AppName),
		level: config.GetString("logLevel"),
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logs dir %s: %v\n", logsDir, err)
	} else {
		path := logging.LogFilePath(logsDir, AppName, start)
		// keep the previous run of the same second
		if _, err := os.Stat(path); err == nil {
			os.Rename(path, path+".old")
		}
		if ls.file, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log file %s: %v\n", path, err)
			ls.file = nil
		}
	}

	gl := config.GetGraylogConfig()
	var graylogErr error
	if gl.Enabled {
		graylogErr = ls.slog.EnableGraylog(gl.Address)
	}

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(ctx, intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    ls.writer(),
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		// logging still works without OTel
		provider, _ = intOtel.New(ctx, intOtel.Config{})
	}
	ls.otel = provider

	var logProvider *sdklog.LoggerProvider
	if provider.Enabled() {
		logProvider = provider.LoggerProvider()
	}

	ls.slog.SetContext(raceCtx)
	ls.slog.Setup(ls.writer(), ls.level, logProvider)

	logger := ls.slog.Logger()
	if graylogErr != nil {
		logger.Warn("Graylog disabled", "error", graylogErr)
	}
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
	} else if otelCfg.Enabled {
		logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
	}
	return ls
}

// writer returns the log file, or nil when logging to stdout.
func (ls *logSetup) writer() io.Writer {
	if ls.file == nil {
		return nil
	}
	return ls.file
}

// zerolog builds a component logger on the same file.
func (ls *logSetup) zerolog(component string) zerolog.Logger {
	return logging.NewZerolog(ls.writer(), ls.level, component)
}

// Close flushes OTel and releases every sink.
func (ls *logSetup) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errs := []error{
		ls.slog.Flush(ctx),
		ls.otel.Shutdown(ctx),
		ls.slog.Close(),
	}
	if ls.file != nil {
		errs = append(errs, ls.file.Close())
	}
	return errors.Join(errs...)
}
