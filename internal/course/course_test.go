package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One degree of longitude on the equator.
const degreeKm = 111.319

func TestNew_TooFewWaypoints(t *testing.T) {
	_, err := New([]Waypoint{{Lon: 0, Lat: 0}})
	assert.ErrorIs(t, err, ErrTooFewWaypoints)

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrTooFewWaypoints)
}

func TestNew_OutOfRange(t *testing.T) {
	_, err := New([]Waypoint{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 95}})
	assert.Error(t, err)
}

func TestNew_AllWaypointsEqual(t *testing.T) {
	_, err := New([]Waypoint{{Lon: 2, Lat: 41}, {Lon: 2, Lat: 41}, {Lon: 2, Lat: 41}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid course")
}

func TestNew_RepeatedWaypoint(t *testing.T) {
	c, err := New([]Waypoint{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}})
	require.NoError(t, err)

	assert.InDelta(t, degreeKm, c.Length(), 0.01)
	assert.InDelta(t, 0.5, c.PositionAt(c.Length()/2).Lon, 1e-6)
}

func TestLength_Equator(t *testing.T) {
	c, err := New([]Waypoint{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 3, Lat: 0}})
	require.NoError(t, err)

	assert.InDelta(t, 3*degreeKm, c.Length(), 0.01)
}

func TestLength_HighLatitudeIsCorrected(t *testing.T) {
	// Mercator draws a degree of longitude at 60°N as long as one on the
	// equator, on the ground it is half of it.
	c, err := New([]Waypoint{{Lon: 10, Lat: 60}, {Lon: 11, Lat: 60}})
	require.NoError(t, err)

	assert.InDelta(t, degreeKm/2, c.Length(), 0.5)
}

func TestPositionAt(t *testing.T) {
	c, err := New([]Waypoint{{Lon: 0, Lat: 0}, {Lon: 2, Lat: 0}})
	require.NoError(t, err)

	mid := c.PositionAt(c.Length() / 2)
	assert.InDelta(t, 1.0, mid.Lon, 1e-6)
	assert.InDelta(t, 0.0, mid.Lat, 1e-6)

	start := c.PositionAt(-10)
	assert.InDelta(t, 0.0, start.Lon, 1e-6)

	end := c.PositionAt(c.Length() + 50)
	assert.InDelta(t, 2.0, end.Lon, 1e-6)
}

func TestFromPairs(t *testing.T) {
	c, err := FromPairs([][]float64{{-3.70, 40.41}, {-3.60, 40.41}, {-3.60, 40.50}})
	require.NoError(t, err)
	assert.Greater(t, c.Length(), 0.0)
	assert.Equal(t, 3, c.Line().Coordinates().Length())

	_, err = FromPairs([][]float64{{1}, {2, 3}})
	assert.Error(t, err)
}
