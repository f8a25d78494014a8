package race

import (
	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"
)

// Result is the final classification row of one vehicle.
type Result struct {
	Vehicle     *vehicle.Vehicle
	Rank        int
	Distance    float64
	RefuelStops int
	Log         []string
}

// BuildResults ranks the vehicles in standings order, starting at 1.
func (r *Race) BuildResults() ([]Result, error) {
	results := make([]Result, 0, len(r.standings))
	for i, s := range r.standings {
		v, ok := r.byName[s.Name]
		if !ok {
			return nil, &MissingVehicleError{Name: s.Name}
		}
		results = append(results, Result{
			Vehicle:     v,
			Rank:        i + 1,
			Distance:    float64(s.Distance),
			RefuelStops: r.refuels[s.Name],
			Log:         r.actions.Lines(s.Name),
		})
	}
	return results, nil
}

// Summary packs the outcome of the race for storage backends.
func (r *Race) Summary() (core.Summary, error) {
	results, err := r.BuildResults()
	if err != nil {
		return core.Summary{}, err
	}

	s := core.Summary{
		RaceID:      r.id,
		EndTime:     r.now(),
		Turns:       r.turn,
		RefuelCount: r.refuelSum,
		Winners:     r.candidates(),
		Results:     make([]core.Result, len(results)),
	}
	for i, res := range results {
		s.Results[i] = core.Result{
			Vehicle:     res.Vehicle.Snapshot(),
			Rank:        res.Rank,
			Distance:    res.Distance,
			RefuelStops: res.RefuelStops,
			Log:         res.Log,
		}
	}
	return s, nil
}
