package vehicle

import "github.com/fuelrace/fuelrace/pkg/core"

const (
	// CarKmPerLiter is the efficiency of a regular car.
	CarKmPerLiter = 10.0
	// HybridKmPerLiter adds 5 km per liter for hybrids.
	HybridKmPerLiter = CarKmPerLiter + 5

	// MotorcycleKmPerLiter is the efficiency of a motorcycle with no displacement penalty.
	MotorcycleKmPerLiter = 20.0
	// MinMotorcycleKmPerLiter is the floor of the displacement penalty.
	MinMotorcycleKmPerLiter = 10.0
	// displacementPenalty is the km per liter lost per cc.
	displacementPenalty = 1.0 / 1000

	skidKm       = 7.5
	hybridSkidKm = 6.25
	// skidKmPerLiter converts a skid to liters whatever the car's own efficiency.
	skidKmPerLiter = HybridKmPerLiter
	wheelieKm      = 6.5
)

// Car is the profile of an automobile.
type Car struct {
	Hybrid bool
}

func (Car) Kind() core.Kind { return core.KindCar }

func (c Car) Efficiency() float64 {
	if c.Hybrid {
		return HybridKmPerLiter
	}
	return CarKmPerLiter
}

func (Car) StuntLabel() string { return "skid" }

// StuntFuel converts the skid's distance equivalent into liters at the
// fixed skid rate of 15 km/L.
func (c Car) StuntFuel() float64 {
	km := skidKm
	if c.Hybrid {
		km = hybridSkidKm
	}
	return km / skidKmPerLiter
}

// Motorcycle is the profile of a motorbike. Bigger engines cover less distance
// per liter.
type Motorcycle struct {
	Displacement int // cc
}

func (Motorcycle) Kind() core.Kind { return core.KindMotorcycle }

func (m Motorcycle) Efficiency() float64 {
	eff := Round(MotorcycleKmPerLiter - float64(m.Displacement)*displacementPenalty)
	if eff < MinMotorcycleKmPerLiter {
		return MinMotorcycleKmPerLiter
	}
	return eff
}

func (Motorcycle) StuntLabel() string { return "wheelie" }

func (m Motorcycle) StuntFuel() float64 {
	return wheelieKm / m.Efficiency()
}
