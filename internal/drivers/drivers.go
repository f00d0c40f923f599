// Package drivers supplies the transducer implementations behind the sensor
// channels and the lamp refresher.
//
// Two modes exist: "sim" runs in-process simulations so the full pipeline can
// be exercised on any machine, and "hardware" is reserved for builds shipping
// real transducer drivers. Selecting hardware mode without such a build is a
// startup error rather than a silent fallback.
package drivers

import (
	"errors"
	"fmt"

	"github.com/nerrad567/mood-node/internal/actuator"
	"github.com/nerrad567/mood-node/internal/infrastructure/config"
	"github.com/nerrad567/mood-node/internal/infrastructure/logging"
	"github.com/nerrad567/mood-node/internal/sensor"
)

// ErrHardwareUnavailable is returned when hardware mode is configured but no
// hardware driver implementation is compiled in.
var ErrHardwareUnavailable = errors.New("drivers: hardware drivers not available in this build")

// Set holds one driver per transducer the node owns.
type Set struct {
	Lux       sensor.Driver
	Audio     sensor.Driver
	Occupancy sensor.BinaryDriver
	Lamp      actuator.Driver
}

// New builds the driver set for the configured mode.
func New(cfg config.DriversConfig, logger *logging.Logger) (*Set, error) {
	switch cfg.Mode {
	case "sim":
		return &Set{
			Lux:       NewRandomWalk(120, 0, 1000, 15),
			Audio:     NewRandomWalk(40, 0, 120, 5),
			Occupancy: NewOccupancyCycle(occupancyCyclePeriod),
			Lamp:      NewLoggingLamp(logger),
		}, nil
	case "hardware":
		return nil, ErrHardwareUnavailable
	default:
		return nil, fmt.Errorf("drivers: unknown mode %q", cfg.Mode)
	}
}
