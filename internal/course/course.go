// Package course maps race kilometers onto a geographic route.
//
// Waypoints come in as EPSG:4326 longitude/latitude and are stored projected
// to EPSG:3857. Web mercator stretches distances by 1/cos(latitude), so every
// leg is scaled back by the cosine of its mean latitude before it is summed.
package course

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// ErrTooFewWaypoints is returned when a course has fewer than two waypoints.
var ErrTooFewWaypoints = errors.New("course needs at least 2 waypoints")

// Waypoint is a WGS84 position.
type Waypoint struct {
	Lon float64
	Lat float64
}

// Course is an immutable route.
type Course struct {
	line geom.LineString
	// cum[i] is the ground distance in km from the start to vertex i.
	cum []float64
}

// New projects waypoints to EPSG:3857 and builds the course.
func New(waypoints []Waypoint) (*Course, error) {
	if len(waypoints) < 2 {
		return nil, ErrTooFewWaypoints
	}

	toMercator := wgs84.EPSG().Transform(4326, 3857)
	flat := make([]float64, 0, len(waypoints)*2)
	for i, w := range waypoints {
		if w.Lat <= -90 || w.Lat >= 90 || w.Lon < -180 || w.Lon > 180 {
			return nil, fmt.Errorf("waypoint %d (%v,%v) is out of range", i, w.Lon, w.Lat)
		}
		x, y, _ := toMercator(w.Lon, w.Lat, 0)
		flat = append(flat, x, y)
	}

	line, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return nil, fmt.Errorf("invalid course: %w", err)
	}

	c := &Course{
		line: line,
		cum:  make([]float64, len(waypoints)),
	}
	for i := 1; i < len(waypoints); i++ {
		meanLat := (waypoints[i-1].Lat + waypoints[i].Lat) / 2
		c.cum[i] = c.cum[i-1] + c.legMercator(i)*math.Cos(meanLat*math.Pi/180)/1000
	}
	return c, nil
}

// FromPairs builds a course from [lon, lat] pairs as they appear in config.
func FromPairs(pairs [][]float64) (*Course, error) {
	waypoints := make([]Waypoint, len(pairs))
	for i, p := range pairs {
		if len(p) < 2 {
			return nil, fmt.Errorf("waypoint %d has insufficient values", i)
		}
		waypoints[i] = Waypoint{Lon: p[0], Lat: p[1]}
	}
	return New(waypoints)
}

func (c *Course) legMercator(i int) float64 {
	seq := c.line.Coordinates()
	a, b := seq.GetXY(i-1), seq.GetXY(i)
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Length returns the ground length of the course in km.
func (c *Course) Length() float64 {
	return c.cum[len(c.cum)-1]
}

// Line returns the projected route.
func (c *Course) Line() geom.LineString {
	return c.line
}

// PositionAt returns the position km kilometers from the start. Distances
// outside the course clamp to its ends.
func (c *Course) PositionAt(km float64) Waypoint {
	seq := c.line.Coordinates()
	last := seq.Length() - 1

	var xy geom.XY
	switch {
	case km <= 0:
		xy = seq.GetXY(0)
	case km >= c.Length():
		xy = seq.GetXY(last)
	default:
		i := 1
		for c.cum[i] < km {
			i++
		}
		leg := c.cum[i] - c.cum[i-1]
		t := 0.0
		if leg > 0 {
			t = (km - c.cum[i-1]) / leg
		}
		a, b := seq.GetXY(i-1), seq.GetXY(i)
		xy = geom.XY{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
	}

	lon, lat, _ := wgs84.EPSG().Transform(3857, 4326)(xy.X, xy.Y, 0)
	return Waypoint{Lon: lon, Lat: lat}
}
