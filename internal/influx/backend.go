package influx

import (
	"errors"
	"strings"
	"time"

	"github.com/fuelrace/fuelrace/internal/course"
	"github.com/fuelrace/fuelrace/pkg/core"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementVehicle = "vehicle_state"
	MeasurementAction  = "vehicle_action"
	MeasurementRace    = "race_summary"
)

// ErrNotStarted is returned by recording calls before StartRace.
var ErrNotStarted = errors.New("influx backend: race not started")

// Backend records one point per vehicle and turn, one per action and a
// summary point. It satisfies storage.Backend.
type Backend struct {
	manager *Manager
	course  *course.Course // optional, adds lon/lat fields
	info    *core.RaceInfo
}

// NewBackend wraps a manager. c may be nil.
func NewBackend(m *Manager, c *course.Course) *Backend {
	return &Backend{manager: m, course: c}
}

// Init is a no-op; the manager is connected by the caller so that a disabled
// or unreachable server can be reported before the race starts.
func (b *Backend) Init() error { return nil }

func (b *Backend) Close() error { return b.manager.Close() }

func (b *Backend) StartRace(info *core.RaceInfo, _ []core.VehicleState) error {
	b.info = info
	return nil
}

func (b *Backend) RecordAction(a core.Action) error {
	if b.info == nil {
		return ErrNotStarted
	}
	p := influxdb2_write.NewPoint(MeasurementAction,
		map[string]string{"race": b.info.ID, "vehicle": a.Vehicle, "kind": string(a.Kind)},
		map[string]any{"seq": int64(a.Seq), "turn": a.Turn, "text": a.Text},
		pointTime(a.Time),
	)
	return b.manager.WritePoint(p)
}

// RecordTurn writes the state of every vehicle at the end of the turn.
func (b *Backend) RecordTurn(t core.Turn) error {
	if b.info == nil {
		return ErrNotStarted
	}

	position := make(map[string]int, len(t.Standings))
	for i, s := range t.Standings {
		position[s.Name] = i + 1
	}

	var errs []error
	for _, s := range t.States {
		fields := map[string]any{
			"turn":     t.Number,
			"distance": s.Distance,
			"fuel":     s.FuelLevel,
			"range":    s.Range,
			"position": position[s.Name],
		}
		if b.course != nil {
			wp := b.course.PositionAt(s.Distance)
			fields["lon"] = wp.Lon
			fields["lat"] = wp.Lat
		}
		p := influxdb2_write.NewPoint(MeasurementVehicle,
			map[string]string{"race": b.info.ID, "vehicle": s.Name, "kind": string(s.Kind)},
			fields,
			pointTime(t.Time),
		)
		if err := b.manager.WritePoint(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Backend) EndRace(summary core.Summary) error {
	if b.info == nil {
		return ErrNotStarted
	}
	p := influxdb2_write.NewPoint(MeasurementRace,
		map[string]string{"race": b.info.ID, "name": b.info.Name},
		map[string]any{
			"turns":   summary.Turns,
			"refuels": summary.RefuelCount,
			"winners": strings.Join(summary.Winners, ","),
		},
		pointTime(summary.EndTime),
	)
	return b.manager.WritePoint(p)
}

func pointTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
