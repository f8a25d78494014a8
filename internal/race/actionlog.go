package race

import (
	"time"

	"github.com/fuelrace/fuelrace/pkg/core"
)

// ActionLog is the append-only, per-vehicle history of a race.
type ActionLog struct {
	seq     uint64
	order   []string
	entries map[string][]core.Action
}

// NewActionLog creates an empty log.
func NewActionLog() *ActionLog {
	return &ActionLog{entries: make(map[string][]core.Action)}
}

// Append records an entry for vehicle and returns it with its sequence number.
func (l *ActionLog) Append(turn int, vehicle string, kind core.ActionKind, text string, at time.Time) core.Action {
	l.seq++
	a := core.Action{
		Seq:     l.seq,
		Turn:    turn,
		Vehicle: vehicle,
		Kind:    kind,
		Text:    text,
		Time:    at,
	}
	if _, ok := l.entries[vehicle]; !ok {
		l.order = append(l.order, vehicle)
	}
	l.entries[vehicle] = append(l.entries[vehicle], a)
	return a
}

// Names lists vehicles in the order their first entry was logged.
func (l *ActionLog) Names() []string {
	return append([]string(nil), l.order...)
}

// Entries returns a copy of the typed entries of vehicle.
func (l *ActionLog) Entries(vehicle string) []core.Action {
	return append([]core.Action(nil), l.entries[vehicle]...)
}

// Lines returns the entry texts of vehicle in chronological order.
func (l *ActionLog) Lines(vehicle string) []string {
	src := l.entries[vehicle]
	lines := make([]string, len(src))
	for i, a := range src {
		lines[i] = a.Text
	}
	return lines
}

// Snapshot returns a deep copy mapping vehicle name to its lines.
func (l *ActionLog) Snapshot() map[string][]string {
	out := make(map[string][]string, len(l.entries))
	for name := range l.entries {
		out[name] = l.Lines(name)
	}
	return out
}

// Len returns the total number of entries.
func (l *ActionLog) Len() int {
	return int(l.seq)
}
