package model

import (
	"encoding/json"

	"github.com/fuelrace/fuelrace/pkg/core"
	"gorm.io/datatypes"
)

// RaceRunFromInfo converts the race description into its row.
func RaceRunFromInfo(info core.RaceInfo) RaceRun {
	return RaceRun{
		RunID:         info.ID,
		Name:          info.Name,
		TotalDistance: info.TotalDistance,
		StartTime:     info.StartTime,
	}
}

func ParticipantFromState(runID uint, s core.VehicleState) Participant {
	return Participant{
		RaceRunID:    runID,
		Name:         s.Name,
		Brand:        s.Brand,
		Model:        s.Model,
		Kind:         string(s.Kind),
		Hybrid:       s.Hybrid,
		Displacement: s.Displacement,
		FuelCapacity: s.FuelCapacity,
		FuelLevel:    s.FuelLevel,
		Distance:     s.Distance,
		Efficiency:   s.Efficiency,
	}
}

func ActionEntryFromAction(runID uint, a core.Action) ActionEntry {
	return ActionEntry{
		RaceRunID: runID,
		Seq:       a.Seq,
		Turn:      a.Turn,
		Vehicle:   a.Vehicle,
		Kind:      string(a.Kind),
		Text:      a.Text,
		Time:      a.Time,
	}
}

// StandingsFromTurn flattens a turn into one row per standings entry. Fuel
// levels are looked up in the turn's vehicle states.
func StandingsFromTurn(runID uint, t core.Turn) []StandingSnapshot {
	fuel := make(map[string]float64, len(t.States))
	for _, s := range t.States {
		fuel[s.Name] = s.FuelLevel
	}

	rows := make([]StandingSnapshot, len(t.Standings))
	for i, s := range t.Standings {
		rows[i] = StandingSnapshot{
			RaceRunID: runID,
			Turn:      t.Number,
			Position:  i + 1,
			Vehicle:   s.Name,
			Distance:  s.Distance,
			FuelLevel: fuel[s.Name],
			Time:      t.Time,
		}
	}
	return rows
}

func RaceResultFromResult(runID uint, r core.Result) (RaceResult, error) {
	log, err := toJSON(r.Log)
	if err != nil {
		return RaceResult{}, err
	}
	return RaceResult{
		RaceRunID:   runID,
		Rank:        r.Rank,
		Vehicle:     r.Vehicle.Name,
		Distance:    r.Distance,
		RefuelStops: r.RefuelStops,
		FuelLevel:   r.Vehicle.FuelLevel,
		Log:         log,
	}, nil
}

// WinnersJSON encodes the winner names. A race without winners stores [].
func WinnersJSON(names []string) (datatypes.JSON, error) {
	return toJSON(names)
}

func toJSON(lines []string) (datatypes.JSON, error) {
	if lines == nil {
		lines = []string{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
