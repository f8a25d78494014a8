// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/fuelrace/fuelrace/pkg/core"
)

// Backend is the interface all storage implementations must satisfy. The race
// engine calls RecordAction and RecordTurn synchronously from its own
// goroutine.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Race management
	StartRace(info *core.RaceInfo, participants []core.VehicleState) error
	EndRace(summary core.Summary) error

	// Recording
	RecordAction(a core.Action) error
	RecordTurn(t core.Turn) error
}

// Exporter is an optional interface for backends that write a file per race.
type Exporter interface {
	ExportedFilePath() string
}

// Multi fans every call out to several backends. All backends are called even
// when one fails; the errors are joined.
type Multi []Backend

func (m Multi) each(fn func(Backend) error) error {
	var errs []error
	for _, b := range m {
		if err := fn(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Init() error  { return m.each(Backend.Init) }
func (m Multi) Close() error { return m.each(Backend.Close) }

func (m Multi) StartRace(info *core.RaceInfo, participants []core.VehicleState) error {
	return m.each(func(b Backend) error { return b.StartRace(info, participants) })
}

func (m Multi) EndRace(summary core.Summary) error {
	return m.each(func(b Backend) error { return b.EndRace(summary) })
}

func (m Multi) RecordAction(a core.Action) error {
	return m.each(func(b Backend) error { return b.RecordAction(a) })
}

func (m Multi) RecordTurn(t core.Turn) error {
	return m.each(func(b Backend) error { return b.RecordTurn(t) })
}

// ExportedFiles collects the export paths of every Exporter in m.
func (m Multi) ExportedFiles() []string {
	var paths []string
	for _, b := range m {
		if e, ok := b.(Exporter); ok {
			if p := e.ExportedFilePath(); p != "" {
				paths = append(paths, p)
			}
		}
	}
	return paths
}
