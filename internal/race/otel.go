package race

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/fuelrace/fuelrace/internal/race"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	turns    metric.Int64Counter
	segments metric.Int64Counter
	refuels  metric.Int64Counter
	stunts   metric.Int64Counter
	boxes    metric.Int64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	var (
		out metrics
		err error
	)

	if out.turns, err = m.Int64Counter("race.turns",
		metric.WithDescription("Engine iterations run")); err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}
	if out.segments, err = m.Int64Counter("race.segments",
		metric.WithDescription("Segments completed")); err != nil {
		return nil, fmt.Errorf("creating segments counter: %w", err)
	}
	if out.refuels, err = m.Int64Counter("race.refuels",
		metric.WithDescription("Refueling stops")); err != nil {
		return nil, fmt.Errorf("creating refuels counter: %w", err)
	}
	if out.stunts, err = m.Int64Counter("race.stunts",
		metric.WithDescription("Stunts attempted")); err != nil {
		return nil, fmt.Errorf("creating stunts counter: %w", err)
	}
	if out.boxes, err = m.Int64Counter("race.box.outcomes",
		metric.WithDescription("Surprise boxes opened")); err != nil {
		return nil, fmt.Errorf("creating box counter: %w", err)
	}

	return &out, nil
}
