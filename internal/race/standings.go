package race

import (
	"math"
	"slices"

	"github.com/fuelrace/fuelrace/internal/vehicle"
	"github.com/fuelrace/fuelrace/pkg/core"
)

// updateStandings rebuilds the standings, farthest first. Ties keep the
// participant order.
func (r *Race) updateStandings() {
	sorted := slices.Clone(r.participants)
	slices.SortStableFunc(sorted, func(a, b *vehicle.Vehicle) int {
		switch {
		case a.Distance() > b.Distance():
			return -1
		case a.Distance() < b.Distance():
			return 1
		default:
			return 0
		}
	})

	standings := make([]core.Standing, len(sorted))
	for i, v := range sorted {
		standings[i] = core.Standing{Name: v.Name(), Distance: int(math.Floor(v.Distance()))}
	}
	r.standings = standings
}

// Standings returns a copy of the standings as of the last completed turn.
func (r *Race) Standings() []core.Standing {
	return slices.Clone(r.standings)
}

// Winners returns every participant at or past the finish, in participant
// order. Finding one stops the race loop.
func (r *Race) Winners() []string {
	winners := r.candidates()
	if len(winners) > 0 {
		r.running = false
	}
	return winners
}

func (r *Race) candidates() []string {
	var names []string
	for _, v := range r.participants {
		if v.Distance() >= r.totalDistance {
			names = append(names, v.Name())
		}
	}
	return names
}
