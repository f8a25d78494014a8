// pkg/core/vehicle.go
package core

// Kind identifies a vehicle variant.
type Kind string

const (
	KindCar        Kind = "car"
	KindMotorcycle Kind = "motorcycle"
)

// VehicleState is a point-in-time copy of a participant's accounting.
type VehicleState struct {
	Name         string
	Brand        string
	Model        string
	Kind         Kind
	Hybrid       bool // cars only
	Displacement int  // motorcycles only, cc
	FuelCapacity float64
	FuelLevel    float64
	Distance     float64
	Efficiency   float64 // km per liter
	Range        float64
}
