// Package race drives a point-to-point race among fuel burning vehicles.
//
// A Race is single threaded: Start runs every turn synchronously on the
// calling goroutine, and the query methods must not be called concurrently
// with it.
package race

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fuelrace/fuelrace/internal/rng"
	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// MinDistance is the shortest race allowed.
	MinDistance = 1000.0
	// SegmentLength is the chunk a vehicle advances between surprise boxes.
	SegmentLength = 20.0

	minAdvance = 10
	maxAdvance = 200
	minStunts  = 1
	maxStunts  = 2
)

// State is the lifecycle position of a race.
type State int

const (
	NotStarted State = iota
	Running
	Finished
	// Aborted means the race stopped without a winner, either on context
	// cancellation or on the turn limit.
	Aborted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Recorder receives every action and turn as soon as it happens.
type Recorder interface {
	RecordAction(a core.Action) error
	RecordTurn(t core.Turn) error
}

// Option configures a Race.
type Option func(*Race)

// WithSource sets the randomness source. Defaults to a randomly seeded PCG.
func WithSource(src rng.Source) Option {
	return func(r *Race) { r.src = src }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Race) { r.log = l }
}

// WithRecorder forwards actions and turns to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Race) { r.recorder = rec }
}

// WithMaxTurns bounds the number of turns. Zero means unbounded.
func WithMaxTurns(n int) Option {
	return func(r *Race) { r.maxTurns = n }
}

// WithMeter overrides the meter used for engine counters.
func WithMeter(m metric.Meter) Option {
	return func(r *Race) { r.meter = m }
}

// WithID sets the race run id. Defaults to a fresh xid.
func WithID(id string) Option {
	return func(r *Race) { r.id = id }
}

// WithClock overrides the time source of log entries.
func WithClock(now func() time.Time) Option {
	return func(r *Race) { r.now = now }
}

// Race is one run of the simulation.
type Race struct {
	id            string
	name          string
	totalDistance float64
	participants  []*vehicle.Vehicle
	byName        map[string]*vehicle.Vehicle

	src      rng.Source
	log      *slog.Logger
	recorder Recorder
	maxTurns int
	meter    metric.Meter
	metrics  *metrics
	now      func() time.Time

	state     State
	running   bool
	turn      int
	startTime time.Time
	standings []core.Standing
	actions   *ActionLog
	refuels   map[string]int
	refuelSum int
}

// New validates the race parameters and builds a race in the NotStarted state.
// The participant slice is copied; its membership is fixed from here on.
func New(name string, totalDistance float64, participants []*vehicle.Vehicle, opts ...Option) (*Race, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &InvalidConfigError{Field: "race name", Reason: "must not be empty"}
	}
	if totalDistance < MinDistance {
		return nil, &InvalidConfigError{
			Field:  "total distance",
			Reason: fmt.Sprintf("%.2f is below the minimum of %.0f", totalDistance, MinDistance),
		}
	}
	if len(participants) == 0 {
		return nil, &InvalidConfigError{Field: "participants", Reason: "at least one vehicle is required"}
	}

	r := &Race{
		id:            xid.New().String(),
		name:          name,
		totalDistance: vehicle.Round(totalDistance),
		participants:  make([]*vehicle.Vehicle, 0, len(participants)),
		byName:        make(map[string]*vehicle.Vehicle, len(participants)),
		actions:       NewActionLog(),
		refuels:       make(map[string]int, len(participants)),
		now:           time.Now,
	}
	for _, v := range participants {
		if v == nil {
			return nil, &InvalidConfigError{Field: "participants", Reason: "nil vehicle"}
		}
		if _, ok := r.byName[v.Name()]; ok {
			return nil, &DuplicateNameError{Name: v.Name()}
		}
		r.byName[v.Name()] = v
		r.participants = append(r.participants, v)
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.src == nil {
		r.src = rng.New(0)
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	if r.meter == nil {
		r.meter = meter()
	}

	m, err := newMetrics(r.meter)
	if err != nil {
		return nil, err
	}
	r.metrics = m

	r.updateStandings()
	return r, nil
}

// ID returns the race run id.
func (r *Race) ID() string { return r.id }

// Name returns the race name.
func (r *Race) Name() string { return r.name }

// TotalDistance returns the finish distance.
func (r *Race) TotalDistance() float64 { return r.totalDistance }

// State returns the lifecycle state.
func (r *Race) State() State { return r.state }

// Running reports whether the race loop is still going.
func (r *Race) Running() bool { return r.running }

// Turn returns the number of turns started so far.
func (r *Race) Turn() int { return r.turn }

// RefuelCount returns the refueling stops of all vehicles together.
func (r *Race) RefuelCount() int { return r.refuelSum }

// RefuelStops returns the refueling stops of one vehicle.
func (r *Race) RefuelStops(name string) int { return r.refuels[name] }

// Participants returns the participants in construction order.
func (r *Race) Participants() []*vehicle.Vehicle {
	return append([]*vehicle.Vehicle(nil), r.participants...)
}

// ActionLog exposes the read side of the action log.
func (r *Race) ActionLog() *ActionLog { return r.actions }

// Info describes the race for storage backends.
func (r *Race) Info() core.RaceInfo {
	return core.RaceInfo{
		ID:            r.id,
		Name:          r.name,
		TotalDistance: r.totalDistance,
		StartTime:     r.startTime,
	}
}

// Start runs the race to completion. It returns nil once a winner is found,
// ctx.Err() when ctx is cancelled between turns and ErrTurnLimit when the
// turn budget is exhausted.
func (r *Race) Start(ctx context.Context) error {
	if r.state != NotStarted {
		return ErrAlreadyStarted
	}
	r.state = Running
	r.running = true
	r.startTime = r.now()

	r.log.Info("Race started",
		"race", r.name,
		"distance", r.totalDistance,
		"participants", len(r.participants),
	)

	for r.running {
		if err := ctx.Err(); err != nil {
			r.abort("context cancelled")
			return err
		}
		if r.maxTurns > 0 && r.turn >= r.maxTurns {
			r.abort("turn limit reached")
			return ErrTurnLimit
		}

		r.turn++
		r.metrics.turns.Add(ctx, 1)

		v := r.participants[r.src.Intn(len(r.participants))]
		r.advance(ctx, v)
		r.updateStandings()
		r.recordTurn(v)
		r.Winners()
	}

	r.state = Finished
	r.log.Info("Race finished",
		"race", r.name,
		"turns", r.turn,
		"winners", strings.Join(r.candidates(), ", "),
		"refuels", r.refuelSum,
	)
	return nil
}

func (r *Race) abort(reason string) {
	r.running = false
	r.state = Aborted
	r.log.Warn("Race aborted", "race", r.name, "turn", r.turn, "reason", reason)
}

// plannedAdvance draws the distance of one turn, never past the finish.
func (r *Race) plannedAdvance(v *vehicle.Vehicle) float64 {
	d := float64(rng.Between(r.src, minAdvance, maxAdvance))
	if gap := r.gap(v); d > gap {
		return gap
	}
	return d
}

func (r *Race) gap(v *vehicle.Vehicle) float64 {
	g := vehicle.Round(r.totalDistance - v.Distance())
	if g < 0 {
		return 0
	}
	return g
}

// advance moves v through one turn: the planned distance in segments, a
// surprise box after every segment and the closing stunts.
func (r *Race) advance(ctx context.Context, v *vehicle.Vehicle) {
	planned := r.plannedAdvance(v)
	r.record(v, core.ActionTripStart, fmt.Sprintf(
		"Trip start: %.2f km to go (%.2f km, %.2f L)", planned, v.Distance(), v.FuelLevel()))

	left := planned
	for left > 0 {
		seg := min(SegmentLength, left, r.gap(v))
		if seg <= 0 {
			break
		}
		r.segment(ctx, v, seg)
		r.openBox(ctx, v)
		left = vehicle.Round(left - seg)
	}

	for range rng.Between(r.src, minStunts, maxStunts) {
		r.stunt(ctx, v)
	}

	r.record(v, core.ActionTripEnd, fmt.Sprintf(
		"Trip end: %.2f km planned (%.2f km, %.2f L)", planned, v.Distance(), v.FuelLevel()))
}

// segment travels seg km, refueling to a full tank every time v runs dry.
func (r *Race) segment(ctx context.Context, v *vehicle.Vehicle, seg float64) {
	remaining := v.Travel(seg)
	r.record(v, core.ActionSegment, fmt.Sprintf("Segment: covered %.2f km", seg-remaining))

	for remaining > 0 {
		added := v.Refuel(v.FuelCapacity())
		r.refuels[v.Name()]++
		r.refuelSum++
		r.metrics.refuels.Add(ctx, 1, metric.WithAttributes(attribute.String("vehicle", v.Name())))
		r.record(v, core.ActionRefuel, fmt.Sprintf("Refuel: %.2f L added, tank at %.2f L", added, v.FuelLevel()))
		if v.Range() <= 0 {
			// zero capacity tank
			r.record(v, core.ActionSegment, fmt.Sprintf("Segment: stranded %.2f km short", remaining))
			break
		}

		want := remaining
		remaining = v.Travel(want)
		r.record(v, core.ActionSegment, fmt.Sprintf("Segment: covered %.2f km", want-remaining))
	}

	// Rounding each partial leg can leave the vehicle a hundredth past the line.
	if v.Distance() > r.totalDistance {
		v.SetDistance(r.totalDistance)
	}
	r.metrics.segments.Add(ctx, 1)
}

// record appends to the action log and forwards the entry to the recorder.
func (r *Race) record(v *vehicle.Vehicle, kind core.ActionKind, text string) {
	a := r.actions.Append(r.turn, v.Name(), kind, text, r.now())
	r.log.Debug(text, "vehicle", v.Name(), "kind", string(kind), "turn", r.turn)

	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordAction(a); err != nil {
		r.log.Warn("Failed to record action", "error", err, "vehicle", v.Name(), "seq", a.Seq)
	}
}

func (r *Race) recordTurn(v *vehicle.Vehicle) {
	if r.recorder == nil {
		return
	}
	t := core.Turn{
		Number:    r.turn,
		Vehicle:   v.Name(),
		Time:      r.now(),
		Standings: r.Standings(),
		States:    make([]core.VehicleState, len(r.participants)),
	}
	for i, p := range r.participants {
		t.States[i] = p.Snapshot()
	}
	if err := r.recorder.RecordTurn(t); err != nil {
		r.log.Warn("Failed to record turn", "error", err, "turn", r.turn)
	}
}
