package race

import (
	"errors"
	"fmt"

	"github.com/fuelrace/fuelrace/internal/vehicle"
)

// Configuration errors are shared with the vehicle package.
type (
	InvalidConfigError = vehicle.InvalidConfigError
	DuplicateNameError = vehicle.DuplicateNameError
)

var (
	// ErrAlreadyStarted is returned by Start on a race that is not NotStarted.
	ErrAlreadyStarted = errors.New("race already started")
	// ErrTurnLimit is returned by Start when the configured turn budget runs
	// out before any vehicle reaches the finish.
	ErrTurnLimit = errors.New("race turn limit reached")
)

// MissingVehicleError means a standings entry names no participant. It can
// only come from a bug in the engine.
type MissingVehicleError struct {
	Name string
}

func (e *MissingVehicleError) Error() string {
	return fmt.Sprintf("standings entry %q does not match any participant", e.Name)
}
