package race

import (
	"context"
	"fmt"

	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Stunt performs the kind specific stunt of v: a skid for cars, a wheelie for
// motorcycles. It burns fuel without moving the vehicle and returns the fuel
// left. Without enough fuel the stunt is skipped and ok is false.
func Stunt(v *vehicle.Vehicle) (fuelLeft float64, ok bool) {
	ok = v.Burn(v.Profile().StuntFuel())
	return v.FuelLevel(), ok
}

func (r *Race) stunt(ctx context.Context, v *vehicle.Vehicle) {
	label := v.Profile().StuntLabel()
	fuel, ok := Stunt(v)
	r.metrics.stunts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stunt", label),
		attribute.Bool("performed", ok),
	))

	if !ok {
		r.record(v, core.ActionStunt, fmt.Sprintf("Stunt %s skipped: not enough fuel (%.2f L)", label, fuel))
		return
	}
	r.record(v, core.ActionStunt, fmt.Sprintf("Stunt %s: %.2f L left", label, fuel))
}
