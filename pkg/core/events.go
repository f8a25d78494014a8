// pkg/core/events.go
package core

import (
	"time"
)

// ActionKind classifies an action log entry.
type ActionKind string

const (
	ActionTripStart ActionKind = "trip_start"
	ActionSegment   ActionKind = "segment"
	ActionRefuel    ActionKind = "refuel"
	ActionBox       ActionKind = "box"
	ActionStunt     ActionKind = "stunt"
	ActionTripEnd   ActionKind = "trip_end"
)

// Action is one entry of a vehicle's action log.
// Seq is race-wide and strictly increasing.
type Action struct {
	Seq     uint64
	Turn    int
	Vehicle string
	Kind    ActionKind
	Text    string
	Time    time.Time
}

// Standing is one row of the standings, distance floored to whole km.
type Standing struct {
	Name     string
	Distance int
}

// Turn is emitted after every completed engine iteration.
type Turn struct {
	Number    int
	Vehicle   string // the participant that advanced
	Time      time.Time
	Standings []Standing
	States    []VehicleState
}
