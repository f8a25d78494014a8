package main

import (
	"fmt"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"
)

// buildField registers every configured vehicle. Vehicles without a name get
// a generated one.
func buildField(reg *vehicle.Registry, cfgs []config.VehicleConfig) ([]*vehicle.Vehicle, error) {
	field := make([]*vehicle.Vehicle, 0, len(cfgs))
	for i, c := range cfgs {
		name := c.Name
		if name == "" {
			name = reg.Generate()
		}
		spec := vehicle.Spec{
			Name:         name,
			Brand:        c.Brand,
			Model:        c.Model,
			FuelCapacity: c.FuelCapacity,
			FuelLevel:    c.StartingFuel(),
			Distance:     c.Distance,
		}

		var (
			v   *vehicle.Vehicle
			err error
		)
		switch core.Kind(c.Kind) {
		case core.KindCar, "":
			v, err = reg.NewCar(vehicle.CarSpec{Spec: spec, Hybrid: c.Hybrid})
		case core.KindMotorcycle:
			v, err = reg.NewMotorcycle(vehicle.MotorcycleSpec{Spec: spec, Displacement: c.Displacement})
		default:
			err = &vehicle.InvalidConfigError{Field: "kind", Reason: fmt.Sprintf("unknown vehicle kind %q", c.Kind)}
		}
		if err != nil {
			return nil, fmt.Errorf("vehicle %d (%s): %w", i+1, name, err)
		}
		field = append(field, v)
	}
	return field, nil
}
