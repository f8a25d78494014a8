// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RaceExport is the root JSON document.
type RaceExport struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	TotalDistance float64       `json:"totalDistance"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       time.Time     `json:"endTime"`
	Turns         int           `json:"turns"`
	RefuelCount   int           `json:"refuelCount"`
	Winners       []string      `json:"winners"`
	Vehicles      []VehicleJSON `json:"vehicles"`
	Standings     [][]any       `json:"standings"` // [turn, name, distance] per row
}

// VehicleJSON is one participant with its result and history.
type VehicleJSON struct {
	Name         string   `json:"name"`
	Brand        string   `json:"brand,omitempty"`
	Model        string   `json:"model,omitempty"`
	Kind         string   `json:"kind"`
	Hybrid       bool     `json:"hybrid,omitempty"`
	Displacement int      `json:"displacement,omitempty"`
	FuelCapacity float64  `json:"fuelCapacity"`
	Rank         int      `json:"rank,omitempty"`
	Distance     float64  `json:"distance"`
	FuelLevel    float64  `json:"fuelLevel"`
	RefuelStops  int      `json:"refuelStops"`
	History      []string `json:"history"`
}

// exportFileName builds <race>_<start>.json[.gz] with spaces and colons
// replaced.
func exportFileName(name string, start time.Time, gz bool) string {
	name = strings.NewReplacer(" ", "_", ":", "_", string(filepath.Separator), "_").Replace(name)
	ext := ".json"
	if gz {
		ext += ".gz"
	}
	return fmt.Sprintf("%s_%s%s", name, start.Format("20060102_150405"), ext)
}

// exportJSON writes the race to cfg.OutputDir. Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := b.buildExport()
	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(b.info.Name, b.info.StartTime, b.cfg.CompressOutput))

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() RaceExport {
	export := RaceExport{
		ID:            b.info.ID,
		Name:          b.info.Name,
		TotalDistance: b.info.TotalDistance,
		StartTime:     b.info.StartTime,
		Winners:       []string{},
		Vehicles:      make([]VehicleJSON, 0, len(b.order)),
		Standings:     make([][]any, 0),
	}

	results := map[string]int{}
	if b.summary != nil {
		export.EndTime = b.summary.EndTime
		export.Turns = b.summary.Turns
		export.RefuelCount = b.summary.RefuelCount
		if b.summary.Winners != nil {
			export.Winners = b.summary.Winners
		}
		for i, r := range b.summary.Results {
			results[r.Vehicle.Name] = i
		}
	}

	for _, name := range b.order {
		rec := b.vehicles[name]
		v := VehicleJSON{
			Name:         rec.Start.Name,
			Brand:        rec.Start.Brand,
			Model:        rec.Start.Model,
			Kind:         string(rec.Start.Kind),
			Hybrid:       rec.Start.Hybrid,
			Displacement: rec.Start.Displacement,
			FuelCapacity: rec.Start.FuelCapacity,
			Distance:     rec.Start.Distance,
			FuelLevel:    rec.Start.FuelLevel,
			History:      make([]string, len(rec.Actions)),
		}
		for i, a := range rec.Actions {
			v.History[i] = a.Text
		}
		if i, ok := results[name]; ok {
			r := b.summary.Results[i]
			v.Rank = r.Rank
			v.Distance = r.Distance
			v.FuelLevel = r.Vehicle.FuelLevel
			v.RefuelStops = r.RefuelStops
		}
		export.Vehicles = append(export.Vehicles, v)
	}

	for _, t := range b.turns {
		for _, s := range t.Standings {
			export.Standings = append(export.Standings, []any{t.Number, s.Name, s.Distance})
		}
	}

	return export
}

func writeJSON(path string, data RaceExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(data)
}

func writeGzipJSON(path string, data RaceExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
