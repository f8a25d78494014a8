package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/internal/course"
	"github.com/fuelrace/fuelrace/internal/logging"
	"github.com/fuelrace/fuelrace/internal/race"
	"github.com/fuelrace/fuelrace/internal/report"
	"github.com/fuelrace/fuelrace/internal/rng"
	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"

	"github.com/rs/xid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildDate can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "fuelrace"
)

func main() {
	flags := pflag.NewFlagSet(AppName, pflag.ExitOnError)
	configDir := flags.StringP("config", "c", ".", "directory holding "+config.FileName+" and .env")
	history := flags.Bool("history", true, "print every vehicle's action log")
	flags.Uint64("seed", 0, "random seed, 0 picks one")
	flags.Int("max-turns", 0, "abort after this many turns, 0 is unbounded")
	flags.String("log-level", "", "DEBUG, INFO, WARN or ERROR")
	version := flags.Bool("version", false, "print the version and exit")
	_ = flags.Parse(os.Args[1:])

	if *version {
		fmt.Printf("%s %s (%s)\n", AppName, Version, BuildDate)
		return
	}

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config, using defaults: %v\n", err)
	}
	bindFlags(flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *history); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bindFlags lets flags that were set on the command line win over the config
// file and environment.
func bindFlags(flags *pflag.FlagSet) {
	for flag, key := range map[string]string{
		"seed":      "race.seed",
		"max-turns": "race.maxTurns",
		"log-level": "logLevel",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func run(ctx context.Context, history bool) error {
	start := time.Now()

	rc, err := config.GetRaceConfig()
	if err != nil {
		return err
	}

	var current *race.Race
	logs := setupLogging(ctx, start, logging.RaceContext(
		func() string {
			if current == nil {
				return ""
			}
			return current.ID()
		},
		func() int {
			if current == nil {
				return 0
			}
			return current.Turn()
		},
	))
	defer logs.Close()
	logger := logs.slog.Logger()
	logger.Info("Starting up", "version", Version, "buildDate", BuildDate)

	var route *course.Course
	if len(rc.Course) > 0 {
		if route, err = course.FromPairs(rc.Course); err != nil {
			return fmt.Errorf("invalid course: %w", err)
		}
		logger.Info("Course loaded", "waypoints", len(rc.Course), "km", route.Length())
	}

	field, err := buildField(vehicle.NewRegistry(), rc.Vehicles)
	if err != nil {
		return err
	}

	id := xid.New().String()
	backend, err := createStorageBackend(ctx, storageDeps{
		Storage: config.GetStorageConfig(),
		Influx:  config.GetInfluxConfig(),
		Course:  route,
		Logs:    logs,
		Start:   start,
	})
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	current, err = race.New(rc.Name, raceDistance(rc, route), field,
		race.WithID(id),
		race.WithSource(rng.New(rc.Seed)),
		race.WithLogger(logger),
		race.WithRecorder(backend),
		race.WithMaxTurns(rc.MaxTurns),
		race.WithMeter(logs.otel.Meter("github.com/fuelrace/fuelrace/internal/race")),
	)
	if err != nil {
		return err
	}

	info := current.Info()
	info.StartTime = start
	states := make([]core.VehicleState, 0, len(field))
	for _, v := range field {
		states = append(states, v.Snapshot())
	}
	if err := backend.StartRace(&info, states); err != nil {
		logger.Error("Failed to record race start", "error", err)
	}

	raceErr := current.Start(ctx)
	switch {
	case raceErr == nil:
	case errors.Is(raceErr, context.Canceled), errors.Is(raceErr, race.ErrTurnLimit):
		logger.Warn("Race stopped early", "reason", raceErr)
	default:
		return raceErr
	}

	summary, err := current.Summary()
	if err != nil {
		return err
	}
	if err := backend.EndRace(summary); err != nil {
		logger.Error("Failed to record race end", "error", err)
	}

	if err := report.Render(os.Stdout, info, summary, report.Options{
		History: history,
		Exports: backend.ExportedFiles(),
	}); err != nil {
		return err
	}

	logger.Info("Shutting down", "turns", summary.Turns, "elapsed", time.Since(start).Round(time.Millisecond))
	return raceErr
}

// raceDistance picks the configured distance, then the course length, then
// the shortest race allowed.
func raceDistance(rc config.RaceConfig, route *course.Course) float64 {
	switch {
	case rc.TotalDistance > 0:
		return rc.TotalDistance
	case route != nil:
		return route.Length()
	default:
		return race.MinDistance
	}
}
