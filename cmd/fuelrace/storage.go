package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/internal/course"
	"github.com/fuelrace/fuelrace/internal/database"
	"github.com/fuelrace/fuelrace/internal/influx"
	"github.com/fuelrace/fuelrace/internal/storage"
	"github.com/fuelrace/fuelrace/internal/storage/memory"
	pgstorage "github.com/fuelrace/fuelrace/internal/storage/postgres"
	sqlitestorage "github.com/fuelrace/fuelrace/internal/storage/sqlite"
)

type storageDeps struct {
	Storage config.StorageConfig
	Influx  config.InfluxConfig
	Course  *course.Course
	Logs    *logSetup
	Start   time.Time
}

// createStorageBackend builds the configured backend plus the telemetry
// backend when influx is enabled.
func createStorageBackend(ctx context.Context, deps storageDeps) (storage.Multi, error) {
	logger := deps.Logs.slog.Logger()
	cfg := deps.Storage
	stamp := deps.Start.Format("20060102_150405")

	var backends storage.Multi
	switch cfg.Type {
	case "none":
		logger.Info("Race results are not stored")

	case "postgres":
		backends = append(backends, pgstorage.New(pgstorage.Dependencies{
			Config:     cfg.Postgres,
			DBManager:  database.NewManager(deps.Logs.zerolog("database")),
			LogManager: deps.Logs.slog,
			BatchSize:  cfg.BatchSize,
		}))
		logger.Info("Postgres storage backend initialized", "host", cfg.Postgres.Host)

	case "sqlite":
		dumpPath := filepath.Join(cfg.SQLite.OutputDir, fmt.Sprintf("%s_%s.db", AppName, stamp))
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpPath:     dumpPath,
			DumpInterval: cfg.SQLite.DumpInterval,
			BatchSize:    cfg.BatchSize,
		}, deps.Logs.slog, database.NewManager(deps.Logs.zerolog("database")))
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		backends = append(backends, backend)
		logger.Info("SQLite storage backend initialized", "path", dumpPath)

	case "memory", "":
		backends = append(backends, memory.New(cfg.Memory))
		logger.Info("Memory storage backend initialized", "outputDir", cfg.Memory.OutputDir)

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	if deps.Influx.Enabled {
		backupPath := filepath.Join(config.GetString("logsDir"), fmt.Sprintf("%s_%s.lp.gz", AppName, stamp))
		m := influx.NewManager(deps.Logs.zerolog("influx"), deps.Influx, backupPath)
		if err := m.Connect(ctx); err != nil && !errors.Is(err, influx.ErrDisabled) {
			logger.Error("Telemetry disabled", "error", err)
		} else {
			backends = append(backends, influx.NewBackend(m, deps.Course))
		}
	}

	return backends, nil
}
