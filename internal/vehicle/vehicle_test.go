package vehicle

import (
	"errors"
	"testing"

	"github.com/fuelrace/fuelrace/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCar(t *testing.T, r *Registry, name string, capacity, fuel float64, hybrid bool) *Vehicle {
	t.Helper()
	v, err := r.NewCar(CarSpec{
		Spec:   Spec{Name: name, Brand: "Seat", Model: "Panda", FuelCapacity: capacity, FuelLevel: fuel},
		Hybrid: hybrid,
	})
	require.NoError(t, err)
	return v
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.235, 1.24},
		{2.675, 2.68},
		{0.004, 0},
		{10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in), "Round(%v)", tt.in)
	}
}

func TestRange(t *testing.T) {
	r := NewRegistry()
	car := newCar(t, r, "car", 50, 5, false)
	hybrid := newCar(t, r, "hybrid", 50, 5, true)

	assert.Equal(t, 50.0, car.Range())
	assert.Equal(t, 75.0, hybrid.Range())
}

func TestTravel_WithinRange(t *testing.T) {
	v := newCar(t, NewRegistry(), "Aurora", 50, 5, false)

	remaining := v.Travel(20)

	assert.Zero(t, remaining)
	assert.Equal(t, 20.0, v.Distance())
	assert.Equal(t, 3.0, v.FuelLevel())
}

func TestTravel_ExactRange(t *testing.T) {
	v := newCar(t, NewRegistry(), "Aurora", 50, 2, false)

	assert.Zero(t, v.Travel(20))
	assert.Equal(t, 20.0, v.Distance())
	assert.Zero(t, v.FuelLevel())
}

func TestTravel_RunsDry(t *testing.T) {
	v := newCar(t, NewRegistry(), "Aurora", 50, 1.5, false)
	before := v.Range()

	remaining := v.Travel(20)

	assert.InDelta(t, 20-before, remaining, 0.001)
	assert.Equal(t, before, v.Distance())
	assert.Zero(t, v.FuelLevel())
}

func TestTravel_NonPositiveIsNoop(t *testing.T) {
	v := newCar(t, NewRegistry(), "Aurora", 50, 5, false)

	assert.Zero(t, v.Travel(0))
	assert.Zero(t, v.Travel(-5))
	assert.Zero(t, v.Distance())
	assert.Equal(t, 5.0, v.FuelLevel())
}

func TestRefuel(t *testing.T) {
	t.Run("negative adds nothing", func(t *testing.T) {
		v := newCar(t, NewRegistry(), "a", 50, 5, false)
		assert.Zero(t, v.Refuel(-1))
		assert.Equal(t, 5.0, v.FuelLevel())
	})

	t.Run("partial", func(t *testing.T) {
		v := newCar(t, NewRegistry(), "a", 50, 5, false)
		assert.Equal(t, 10.0, v.Refuel(10))
		assert.Equal(t, 15.0, v.FuelLevel())
	})

	t.Run("overflow tops up to capacity", func(t *testing.T) {
		v := newCar(t, NewRegistry(), "a", 50, 45.5, false)
		assert.Equal(t, 4.5, v.Refuel(10))
		assert.Equal(t, 50.0, v.FuelLevel())
	})

	t.Run("full tank returns zero after first", func(t *testing.T) {
		v := newCar(t, NewRegistry(), "a", 50, 5, false)
		assert.Equal(t, 45.0, v.Refuel(v.FuelCapacity()))
		for range 3 {
			assert.Zero(t, v.Refuel(v.FuelCapacity()))
		}
		assert.Equal(t, 50.0, v.FuelLevel())
	})
}

func TestBurn(t *testing.T) {
	v := newCar(t, NewRegistry(), "a", 50, 1, false)

	assert.True(t, v.Burn(0.75))
	assert.Equal(t, 0.25, v.FuelLevel())

	assert.False(t, v.Burn(0.75), "insufficient fuel aborts")
	assert.Equal(t, 0.25, v.FuelLevel())
}

func TestDrain(t *testing.T) {
	v := newCar(t, NewRegistry(), "a", 50, 3, false)

	assert.Equal(t, 3.0, v.Drain(5))
	assert.Zero(t, v.FuelLevel())
	assert.Zero(t, v.Drain(5))
}

func TestDistanceSaturates(t *testing.T) {
	v := newCar(t, NewRegistry(), "a", 50, 3, false)
	v.AddDistance(50)
	v.AddDistance(-100)
	assert.Zero(t, v.Distance())

	v.SetDistance(-3)
	assert.Zero(t, v.Distance())
}

func TestInvariantsHoldUnderMixedOperations(t *testing.T) {
	v := newCar(t, NewRegistry(), "a", 37.33, 3.1, true)
	ops := []func(){
		func() { v.Travel(20) },
		func() { v.Refuel(7.77) },
		func() { v.Travel(133.3) },
		func() { v.Burn(0.42) },
		func() { v.Drain(5) },
		func() { v.Refuel(100) },
		func() { v.Travel(999) },
		func() { v.Refuel(-4) },
	}
	for i := 0; i < 200; i++ {
		ops[i%len(ops)]()
		require.GreaterOrEqual(t, v.FuelLevel(), 0.0)
		require.LessOrEqual(t, v.FuelLevel(), v.FuelCapacity())
		require.GreaterOrEqual(t, v.Distance(), 0.0)
		require.Equal(t, Round(v.FuelLevel()), v.FuelLevel())
		require.Equal(t, Round(v.Distance()), v.Distance())
	}
}

func TestProfiles(t *testing.T) {
	tests := []struct {
		name       string
		profile    Profile
		kind       core.Kind
		efficiency float64
		label      string
		stuntFuel  float64
	}{
		{"car", Car{}, core.KindCar, 10, "skid", 0.5},
		{"hybrid car", Car{Hybrid: true}, core.KindCar, 15, "skid", 6.25 / 15},
		{"small motorcycle", Motorcycle{Displacement: 250}, core.KindMotorcycle, 19.75, "wheelie", 6.5 / 19.75},
		{"big motorcycle", Motorcycle{Displacement: 500}, core.KindMotorcycle, 19.5, "wheelie", 6.5 / 19.5},
		{"huge motorcycle", Motorcycle{Displacement: 50000}, core.KindMotorcycle, MinMotorcycleKmPerLiter, "wheelie", 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.profile.Kind())
			assert.InDelta(t, tt.efficiency, tt.profile.Efficiency(), 1e-9)
			assert.Equal(t, tt.label, tt.profile.StuntLabel())
			assert.InDelta(t, tt.stuntFuel, tt.profile.StuntFuel(), 1e-9)
		})
	}
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry()
	moto, err := r.NewMotorcycle(MotorcycleSpec{
		Spec:         Spec{Name: "Fénix", Brand: "Honda", Model: "Vital", FuelCapacity: 20, FuelLevel: 2},
		Displacement: 250,
	})
	require.NoError(t, err)

	s := moto.Snapshot()
	assert.Equal(t, "Fénix", s.Name)
	assert.Equal(t, core.KindMotorcycle, s.Kind)
	assert.Equal(t, 250, s.Displacement)
	assert.False(t, s.Hybrid)
	assert.Equal(t, 39.5, s.Range)

	moto.Travel(10)
	assert.Zero(t, s.Distance, "snapshot is a copy")
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	newCar(t, r, "Aurora", 50, 5, true)

	_, err := r.NewMotorcycle(MotorcycleSpec{Spec: Spec{Name: "Aurora", FuelCapacity: 15}})

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Aurora", dup.Name)
}

func TestRegistry_IndependentRegistries(t *testing.T) {
	newCar(t, NewRegistry(), "Aurora", 50, 5, true)
	newCar(t, NewRegistry(), "Aurora", 50, 5, true)
}

func TestRegistry_InvalidSpec(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		field string
	}{
		{"empty name", Spec{Name: " ", FuelCapacity: 10}, "name"},
		{"negative capacity", Spec{Name: "a", FuelCapacity: -1}, "fuel capacity"},
		{"negative fuel", Spec{Name: "a", FuelCapacity: 10, FuelLevel: -1}, "fuel level"},
		{"overfull", Spec{Name: "a", FuelCapacity: 10, FuelLevel: 11}, "fuel level"},
		{"negative distance", Spec{Name: "a", FuelCapacity: 10, Distance: -1}, "distance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			_, err := r.NewCar(CarSpec{Spec: tt.spec})

			var invalid *InvalidConfigError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
			assert.False(t, r.InUse(tt.spec.Name), "rejected spec must not reserve its name")
		})
	}

	_, err := NewRegistry().NewMotorcycle(MotorcycleSpec{Spec: Spec{Name: "m", FuelCapacity: 10}, Displacement: -1})
	var invalid *InvalidConfigError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "displacement", invalid.Field)
}

func TestRegistry_Generate(t *testing.T) {
	r := NewRegistry()
	for range 20 {
		name := r.Generate()
		require.NotEmpty(t, name)
		require.NoError(t, r.Reserve(name))
	}
}

func TestRegistry_ZeroCapacity(t *testing.T) {
	v := newCar(t, NewRegistry(), "tankless", 0, 0, false)

	assert.Zero(t, v.Range())
	assert.Zero(t, v.Refuel(10))
	assert.Equal(t, 5.0, v.Travel(5), "nothing to burn, nothing covered")
	assert.Zero(t, v.Distance())
}
