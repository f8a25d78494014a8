// Package vehicle implements the fuel, distance and range accounting shared by
// every race participant. Kind specific behavior lives behind Profile.
package vehicle

import (
	"math"

	"github.com/fuelrace/fuelrace/pkg/core"
)

// Profile is the kind specific capability set of a vehicle.
type Profile interface {
	Kind() core.Kind
	// Efficiency is the distance covered per liter of fuel.
	Efficiency() float64
	StuntLabel() string
	// StuntFuel is the liters one stunt burns.
	StuntFuel() float64
}

// Vehicle is a race participant. The zero value is not usable; build vehicles
// through a Registry so names stay unique.
type Vehicle struct {
	name  string
	brand string
	model string

	fuelCapacity float64
	fuelLevel    float64
	distance     float64

	profile Profile
}

// roundingSlack absorbs binary representation error so that values such as
// 2.675 round up like their decimal spelling says.
const roundingSlack = 1e-9

// Round rounds half up to two decimals.
func Round(v float64) float64 {
	return math.Floor(v*100+0.5+roundingSlack) / 100
}

func (v *Vehicle) Name() string          { return v.name }
func (v *Vehicle) Brand() string         { return v.brand }
func (v *Vehicle) Model() string         { return v.model }
func (v *Vehicle) Profile() Profile      { return v.profile }
func (v *Vehicle) Kind() core.Kind       { return v.profile.Kind() }
func (v *Vehicle) FuelCapacity() float64 { return v.fuelCapacity }
func (v *Vehicle) FuelLevel() float64    { return v.fuelLevel }
func (v *Vehicle) Distance() float64     { return v.distance }

func (v *Vehicle) setFuel(f float64) {
	f = Round(f)
	if f < 0 {
		f = 0
	}
	if f > v.fuelCapacity {
		f = v.fuelCapacity
	}
	v.fuelLevel = f
}

func (v *Vehicle) setDistance(d float64) {
	d = Round(d)
	if d < 0 {
		d = 0
	}
	v.distance = d
}

// Range returns the distance coverable without refueling.
func (v *Vehicle) Range() float64 {
	return v.profile.Efficiency() * v.fuelLevel
}

// Travel advances the vehicle by distance. It returns the part of distance the
// fuel could not cover; a positive result means the tank ran dry and the
// vehicle must refuel before going on.
func (v *Vehicle) Travel(distance float64) float64 {
	if distance <= 0 {
		return 0
	}

	maxRange := v.Range()
	if distance <= maxRange {
		v.setFuel(v.fuelLevel - distance/v.profile.Efficiency())
		v.setDistance(v.distance + distance)
		return 0
	}

	v.setFuel(0)
	v.setDistance(v.distance + maxRange)
	return Round(distance - maxRange)
}

// Refuel adds up to amount liters and returns what actually went into the tank.
func (v *Vehicle) Refuel(amount float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount+v.fuelLevel >= v.fuelCapacity {
		added := Round(v.fuelCapacity - v.fuelLevel)
		v.setFuel(v.fuelCapacity)
		return added
	}
	v.setFuel(v.fuelLevel + amount)
	return amount
}

// Burn consumes liters without moving. With less fuel than requested
// nothing is burnt and false is returned.
func (v *Vehicle) Burn(liters float64) bool {
	if liters < 0 || Round(liters) > v.fuelLevel {
		return false
	}
	v.setFuel(v.fuelLevel - liters)
	return true
}

// Drain removes up to liters of fuel, stopping at an empty tank, and returns
// the liters removed.
func (v *Vehicle) Drain(liters float64) float64 {
	if liters <= 0 {
		return 0
	}
	before := v.fuelLevel
	v.setFuel(v.fuelLevel - liters)
	return Round(before - v.fuelLevel)
}

// AddDistance moves the vehicle by delta, saturating at zero.
func (v *Vehicle) AddDistance(delta float64) {
	v.setDistance(v.distance + delta)
}

// SetDistance places the vehicle at d, saturating at zero.
func (v *Vehicle) SetDistance(d float64) {
	v.setDistance(d)
}

// Snapshot returns a value copy of the vehicle state.
func (v *Vehicle) Snapshot() core.VehicleState {
	s := core.VehicleState{
		Name:         v.name,
		Brand:        v.brand,
		Model:        v.model,
		Kind:         v.profile.Kind(),
		FuelCapacity: v.fuelCapacity,
		FuelLevel:    v.fuelLevel,
		Distance:     v.distance,
		Efficiency:   v.profile.Efficiency(),
		Range:        Round(v.Range()),
	}
	switch p := v.profile.(type) {
	case Car:
		s.Hybrid = p.Hybrid
	case Motorcycle:
		s.Displacement = p.Displacement
	}
	return s
}
