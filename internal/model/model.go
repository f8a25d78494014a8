// Package model holds the gorm tables a race run is persisted to.
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists every table, in migration order.
var DatabaseModels = []any{
	&RaceRun{},
	&Participant{},
	&ActionEntry{},
	&StandingSnapshot{},
	&RaceResult{},
}

// RaceRun is one execution of a race. The summary columns are filled in when
// the race ends.
type RaceRun struct {
	ID            uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID         string         `json:"runId" gorm:"size:32;uniqueIndex"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	Name          string         `json:"name" gorm:"size:128"`
	TotalDistance float64        `json:"totalDistance"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       *time.Time     `json:"endTime"`
	Turns         int            `json:"turns"`
	RefuelCount   int            `json:"refuelCount"`
	Winners       datatypes.JSON `json:"winners"` // array of vehicle names
}

func (*RaceRun) TableName() string {
	return "race_runs"
}

// Participant is a vehicle as it stood on the starting line.
type Participant struct {
	ID           uint    `json:"id" gorm:"primarykey;autoIncrement;"`
	RaceRunID    uint    `json:"raceRunId" gorm:"uniqueIndex:idx_participant_run_name"`
	RaceRun      RaceRun `json:"-" gorm:"foreignkey:RaceRunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name         string  `json:"name" gorm:"size:64;uniqueIndex:idx_participant_run_name"`
	Brand        string  `json:"brand" gorm:"size:64"`
	Model        string  `json:"model" gorm:"size:64"`
	Kind         string  `json:"kind" gorm:"size:16"`
	Hybrid       bool    `json:"hybrid"`
	Displacement int     `json:"displacement"`
	FuelCapacity float64 `json:"fuelCapacity"`
	FuelLevel    float64 `json:"fuelLevel"`
	Distance     float64 `json:"distance"`
	Efficiency   float64 `json:"efficiency"`
}

func (*Participant) TableName() string {
	return "participants"
}

// ActionEntry is one line of a vehicle history.
type ActionEntry struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	RaceRunID uint      `json:"raceRunId" gorm:"index:idx_action_run_seq"`
	RaceRun   RaceRun   `json:"-" gorm:"foreignkey:RaceRunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Seq       uint64    `json:"seq" gorm:"index:idx_action_run_seq"`
	Turn      int       `json:"turn"`
	Vehicle   string    `json:"vehicle" gorm:"size:64;index"`
	Kind      string    `json:"kind" gorm:"size:16"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
}

func (*ActionEntry) TableName() string {
	return "action_entries"
}

// StandingSnapshot is the position of one vehicle at the end of a turn.
type StandingSnapshot struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	RaceRunID uint      `json:"raceRunId" gorm:"index:idx_standing_run_turn"`
	RaceRun   RaceRun   `json:"-" gorm:"foreignkey:RaceRunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Turn      int       `json:"turn" gorm:"index:idx_standing_run_turn"`
	Position  int       `json:"position"`
	Vehicle   string    `json:"vehicle" gorm:"size:64"`
	Distance  int       `json:"distance"`
	FuelLevel float64   `json:"fuelLevel"`
	Time      time.Time `json:"time"`
}

func (*StandingSnapshot) TableName() string {
	return "standing_snapshots"
}

// RaceResult is a final classification row.
type RaceResult struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	RaceRunID   uint           `json:"raceRunId" gorm:"index"`
	RaceRun     RaceRun        `json:"-" gorm:"foreignkey:RaceRunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Rank        int            `json:"rank"`
	Vehicle     string         `json:"vehicle" gorm:"size:64"`
	Distance    float64        `json:"distance"`
	RefuelStops int            `json:"refuelStops"`
	FuelLevel   float64        `json:"fuelLevel"`
	Log         datatypes.JSON `json:"log"` // array of history lines
}

func (*RaceResult) TableName() string {
	return "race_results"
}
