// pkg/core/race.go
package core

import "time"

// RaceInfo describes a race run for storage backends.
type RaceInfo struct {
	ID            string
	Name          string
	TotalDistance float64
	StartTime     time.Time
}

// Result is the final classification row of one participant.
type Result struct {
	Vehicle     VehicleState
	Rank        int
	Distance    float64
	RefuelStops int
	Log         []string
}

// Summary is handed to storage backends when a race ends.
type Summary struct {
	RaceID      string
	EndTime     time.Time
	Turns       int
	RefuelCount int
	Winners     []string
	Results     []Result
}
