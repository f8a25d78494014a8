package vehicle

import (
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

// Registry reserves vehicle names. A name stays reserved for the lifetime of
// the registry, even after the vehicle holding it is gone.
type Registry struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Spec holds the parameters common to every vehicle kind.
type Spec struct {
	Name         string
	Brand        string
	Model        string
	FuelCapacity float64
	FuelLevel    float64
	Distance     float64
}

// CarSpec describes a car to build.
type CarSpec struct {
	Spec
	Hybrid bool
}

// MotorcycleSpec describes a motorcycle to build.
type MotorcycleSpec struct {
	Spec
	Displacement int
}

// NewCar validates spec, reserves its name and returns the car.
func (r *Registry) NewCar(spec CarSpec) (*Vehicle, error) {
	return r.build(spec.Spec, Car{Hybrid: spec.Hybrid})
}

// NewMotorcycle validates spec, reserves its name and returns the motorcycle.
func (r *Registry) NewMotorcycle(spec MotorcycleSpec) (*Vehicle, error) {
	if spec.Displacement < 0 {
		return nil, &InvalidConfigError{Field: "displacement", Reason: "must not be negative"}
	}
	return r.build(spec.Spec, Motorcycle{Displacement: spec.Displacement})
}

func (r *Registry) build(spec Spec, profile Profile) (*Vehicle, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if err := r.Reserve(spec.Name); err != nil {
		return nil, err
	}

	v := &Vehicle{
		name:         spec.Name,
		brand:        spec.Brand,
		model:        spec.Model,
		fuelCapacity: Round(spec.FuelCapacity),
		profile:      profile,
	}
	v.setFuel(spec.FuelLevel)
	v.setDistance(spec.Distance)
	return v, nil
}

func (s Spec) validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return &InvalidConfigError{Field: "name", Reason: "must not be empty"}
	case Round(s.FuelCapacity) < 0:
		return &InvalidConfigError{Field: "fuel capacity", Reason: "must not be negative"}
	case s.FuelLevel < 0:
		return &InvalidConfigError{Field: "fuel level", Reason: "must not be negative"}
	case Round(s.FuelLevel) > Round(s.FuelCapacity):
		return &InvalidConfigError{Field: "fuel level", Reason: "exceeds fuel capacity"}
	case s.Distance < 0:
		return &InvalidConfigError{Field: "distance", Reason: "must not be negative"}
	}
	return nil
}

// Reserve claims name, failing with a *DuplicateNameError if it was ever
// claimed before.
func (r *Registry) Reserve(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	r.names[name] = struct{}{}
	return nil
}

// InUse reports whether name has been reserved.
func (r *Registry) InUse(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.names[name]
	return ok
}

// Generate proposes a name that is not reserved yet. The name is not claimed.
func (r *Registry) Generate() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for words := 2; ; words++ {
		for range 16 {
			name := petname.Generate(words, "-")
			if _, ok := r.names[name]; !ok {
				return name
			}
		}
	}
}
