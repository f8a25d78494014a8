// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"slices"
	"sync"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/pkg/core"
)

// ErrNotStarted is returned by recording calls before StartRace.
var ErrNotStarted = errors.New("memory backend: race not started")

// VehicleRecord groups a participant with its history.
type VehicleRecord struct {
	Start   core.VehicleState
	Actions []core.Action
}

// Backend keeps a whole race in memory and exports it to JSON when it ends.
type Backend struct {
	cfg  config.MemoryConfig
	info *core.RaceInfo

	order    []string
	vehicles map[string]*VehicleRecord
	turns    []core.Turn
	summary  *core.Summary

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend. An empty OutputDir disables the export.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		vehicles: make(map[string]*VehicleRecord),
	}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Close() error { return nil }

// StartRace resets the backend and registers the participants.
func (b *Backend) StartRace(info *core.RaceInfo, participants []core.VehicleState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.info = info
	b.order = b.order[:0]
	b.vehicles = make(map[string]*VehicleRecord, len(participants))
	b.turns = nil
	b.summary = nil
	b.lastExportPath = ""

	for _, p := range participants {
		b.order = append(b.order, p.Name)
		b.vehicles[p.Name] = &VehicleRecord{Start: p}
	}
	return nil
}

// RecordAction appends a to its vehicle. Actions of unknown vehicles are
// kept too; they get a record without a starting state.
func (b *Backend) RecordAction(a core.Action) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNotStarted
	}
	rec, ok := b.vehicles[a.Vehicle]
	if !ok {
		rec = &VehicleRecord{Start: core.VehicleState{Name: a.Vehicle}}
		b.vehicles[a.Vehicle] = rec
		b.order = append(b.order, a.Vehicle)
	}
	rec.Actions = append(rec.Actions, a)
	return nil
}

func (b *Backend) RecordTurn(t core.Turn) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNotStarted
	}
	b.turns = append(b.turns, t)
	return nil
}

// EndRace stores the summary and writes the export file.
func (b *Backend) EndRace(summary core.Summary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNotStarted
	}
	b.summary = &summary

	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

// ExportedFilePath returns the path of the last export, or "".
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// Vehicle returns a copy of the record of name.
func (b *Backend) Vehicle(name string) (VehicleRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.vehicles[name]
	if !ok {
		return VehicleRecord{}, false
	}
	return VehicleRecord{Start: rec.Start, Actions: slices.Clone(rec.Actions)}, true
}

// Turns returns a copy of the recorded turns.
func (b *Backend) Turns() []core.Turn {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.turns)
}

// Summary returns the summary handed to EndRace, if any.
func (b *Backend) Summary() (core.Summary, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.summary == nil {
		return core.Summary{}, false
	}
	return *b.summary, true
}
