package drivers

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nerrad567/mood-node/internal/actuator"
	"github.com/nerrad567/mood-node/internal/infrastructure/logging"
)

// occupancyCyclePeriod is how long the simulated desk stays occupied or
// vacant before flipping.
const occupancyCyclePeriod = 45 * time.Second

// RandomWalk is a simulated numeric sensor. Each read nudges the value by a
// random amount within ±step and clamps it to [min, max], which produces
// plausible drifting readings that cross a deadband now and then.
type RandomWalk struct {
	mu    sync.Mutex
	value float64
	min   float64
	max   float64
	step  float64
}

// NewRandomWalk creates a RandomWalk starting at initial.
func NewRandomWalk(initial, min, max, step float64) *RandomWalk {
	return &RandomWalk{value: initial, min: min, max: max, step: step}
}

// Read returns the next simulated sample.
func (d *RandomWalk) Read() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.value += (rand.Float64()*2 - 1) * d.step
	if d.value < d.min {
		d.value = d.min
	}
	if d.value > d.max {
		d.value = d.max
	}
	return d.value, nil
}

// OccupancyCycle is a simulated occupancy sensor that alternates between
// occupied and vacant on a fixed period.
type OccupancyCycle struct {
	period time.Duration
	start  time.Time
	now    func() time.Time
}

// NewOccupancyCycle creates an OccupancyCycle with the given flip period.
func NewOccupancyCycle(period time.Duration) *OccupancyCycle {
	return &OccupancyCycle{
		period: period,
		start:  time.Now(),
		now:    time.Now,
	}
}

// Read reports whether the simulated desk is currently occupied.
func (d *OccupancyCycle) Read() (bool, error) {
	elapsed := d.now().Sub(d.start)
	return (elapsed/d.period)%2 == 1, nil
}

// LoggingLamp is a simulated lamp driver that records applied state in the
// log instead of driving pixels.
type LoggingLamp struct {
	logger *logging.Logger

	mu      sync.Mutex
	last    actuator.Color
	lastOn  bool
	applied bool
}

// NewLoggingLamp creates a LoggingLamp.
func NewLoggingLamp(logger *logging.Logger) *LoggingLamp {
	return &LoggingLamp{logger: logger}
}

// Apply records the lamp state, logging only when it changes so the refresh
// loop does not flood the log.
func (d *LoggingLamp) Apply(powerOn bool, color actuator.Color) error {
	d.mu.Lock()
	changed := !d.applied || powerOn != d.lastOn || color != d.last
	d.lastOn = powerOn
	d.last = color
	d.applied = true
	d.mu.Unlock()

	if changed && d.logger != nil {
		d.logger.Info("lamp state applied",
			"on", powerOn,
			"r", color.R,
			"g", color.G,
			"b", color.B,
		)
	}
	return nil
}
