// Package report renders the outcome of a race for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fuelrace/fuelrace/pkg/core"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options controls which sections Render writes.
type Options struct {
	// History prints every vehicle's action log after the results.
	History bool
	// Exports lists files written by storage backends.
	Exports []string
}

// Render writes the banner, winners, classification and optionally the
// history of the race to w.
func Render(w io.Writer, info core.RaceInfo, summary core.Summary, opts Options) error {
	rw := &errWriter{w: w}

	banner(rw, info.Name)
	rw.printf("%.0f km · %d turns · %d refuels\n\n", info.TotalDistance, summary.Turns, summary.RefuelCount)

	switch len(summary.Winners) {
	case 0:
		rw.printf("No winner.\n\n")
	case 1:
		rw.printf("Winner: %s\n\n", summary.Winners[0])
	default:
		rw.printf("Tie between %s\n\n", strings.Join(summary.Winners, ", "))
	}

	if rw.err == nil {
		classification(rw, summary.Results)
	}

	if opts.History {
		for _, r := range summary.Results {
			rw.printf("\n%s\n", r.Vehicle.Name)
			for _, line := range r.Log {
				rw.printf("  %s\n", line)
			}
		}
	}

	if len(opts.Exports) > 0 {
		rw.printf("\nWritten:\n")
		for _, p := range opts.Exports {
			rw.printf("  %s\n", p)
		}
	}
	return rw.err
}

func banner(w *errWriter, name string) {
	title := cases.Title(language.Spanish).String(strings.TrimSpace(name))
	rule := strings.Repeat("=", len([]rune(title))+4)
	w.printf("%s\n  %s\n%s\n", rule, title, rule)
}

func classification(w *errWriter, results []core.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Vehicle", "Kind", "Km", "Fuel", "Stops"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		table.Append([]string{
			fmt.Sprintf("%d", r.Rank),
			describe(r.Vehicle),
			string(r.Vehicle.Kind),
			fmt.Sprintf("%.0f", r.Distance),
			fmt.Sprintf("%.2f", r.Vehicle.FuelLevel),
			fmt.Sprintf("%d", r.RefuelStops),
		})
	}
	table.Render()
}

func describe(v core.VehicleState) string {
	model := strings.TrimSpace(v.Brand + " " + v.Model)
	if model == "" {
		return v.Name
	}
	return fmt.Sprintf("%s (%s)", v.Name, model)
}

// errWriter keeps the first write error and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
