package race

import (
	"context"
	"fmt"

	"github.com/fuelrace/fuelrace/internal/rng"
	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome is the content of a surprise box.
type Outcome int

const (
	OutcomeAward Outcome = iota + 1
	OutcomeTeleport
	OutcomeSabotage
	OutcomeRandomReset
	OutcomeSelfReset
	OutcomeFuelPenalty
	OutcomeEmpty
)

const (
	boxFaces = 10

	// awardFactor turns the fuel level into bonus kilometers.
	awardFactor = 10.0

	teleportKm   = 100.0
	sabotageKm   = 100.0
	fuelPenaltyL = 5.0
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAward:
		return "award"
	case OutcomeTeleport:
		return "teleport"
	case OutcomeSabotage:
		return "sabotage"
	case OutcomeRandomReset:
		return "random reset"
	case OutcomeSelfReset:
		return "self reset"
	case OutcomeFuelPenalty:
		return "fuel penalty"
	case OutcomeEmpty:
		return "empty"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// boxTable maps a draw in [1,10] to its outcome. Index 0 is unused.
var boxTable = [boxFaces + 1]Outcome{
	0:  0,
	1:  OutcomeAward,
	2:  OutcomeTeleport,
	3:  OutcomeSabotage,
	4:  OutcomeRandomReset,
	5:  OutcomeSelfReset,
	6:  OutcomeFuelPenalty,
	7:  OutcomeEmpty,
	8:  OutcomeEmpty,
	9:  OutcomeEmpty,
	10: OutcomeEmpty,
}

// OutcomeFor returns the outcome of draw, or OutcomeEmpty for draws outside
// [1,10].
func OutcomeFor(draw int) Outcome {
	if draw < 1 || draw > boxFaces {
		return OutcomeEmpty
	}
	return boxTable[draw]
}

type boxEffect func(r *Race, v *vehicle.Vehicle) string

var boxEffects = map[Outcome]boxEffect{
	OutcomeAward:       (*Race).award,
	OutcomeTeleport:    (*Race).teleport,
	OutcomeSabotage:    (*Race).sabotage,
	OutcomeRandomReset: (*Race).randomReset,
	OutcomeSelfReset:   (*Race).selfReset,
	OutcomeFuelPenalty: (*Race).fuelPenalty,
	OutcomeEmpty: func(*Race, *vehicle.Vehicle) string {
		return "Surprise box: empty"
	},
}

// openBox draws one surprise box for v and applies it.
func (r *Race) openBox(ctx context.Context, v *vehicle.Vehicle) Outcome {
	o := OutcomeFor(rng.Between(r.src, 1, boxFaces))
	r.metrics.boxes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", o.String())))
	r.record(v, core.ActionBox, boxEffects[o](r, v))
	return o
}

// award adds fuelLevel × 10 km, never past the finish.
func (r *Race) award(v *vehicle.Vehicle) string {
	bonus := min(vehicle.Round(v.FuelLevel()*awardFactor), r.gap(v))
	v.AddDistance(bonus)
	return fmt.Sprintf("Surprise box: award, +%.2f km (now %.2f km)", bonus, v.Distance())
}

func (r *Race) teleport(v *vehicle.Vehicle) string {
	jump := min(teleportKm, r.gap(v))
	v.AddDistance(jump)
	return fmt.Sprintf("Surprise box: teleport, +%.2f km (now %.2f km)", jump, v.Distance())
}

func (r *Race) sabotage(v *vehicle.Vehicle) string {
	for _, other := range r.participants {
		if other == v {
			continue
		}
		setback := min(sabotageKm, other.Distance())
		other.AddDistance(-setback)
		r.record(other, core.ActionBox, fmt.Sprintf(
			"Sabotaged by %s: -%.2f km (now %.2f km)", v.Name(), setback, other.Distance()))
	}
	return fmt.Sprintf("Surprise box: sabotage, every rival set back up to %.0f km", sabotageKm)
}

func (r *Race) randomReset(v *vehicle.Vehicle) string {
	target := r.participants[r.src.Intn(len(r.participants))]
	target.SetDistance(0)
	if target == v {
		return "Surprise box: random reset, drew itself and went back to the start"
	}
	r.record(target, core.ActionBox, fmt.Sprintf("Sent back to the start by %s", v.Name()))
	return fmt.Sprintf("Surprise box: random reset, %s went back to the start", target.Name())
}

func (r *Race) selfReset(v *vehicle.Vehicle) string {
	v.SetDistance(0)
	return "Surprise box: back to the start"
}

func (r *Race) fuelPenalty(v *vehicle.Vehicle) string {
	lost := v.Drain(fuelPenaltyL)
	return fmt.Sprintf("Surprise box: fuel penalty, -%.2f L (now %.2f L)", lost, v.FuelLevel())
}
