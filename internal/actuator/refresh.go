package actuator

import (
	"context"
	"time"
)

// Driver applies power and colour to the physical lamp.
//
// Apply is called once per refresh tick with a copy of the current state.
// Implementations bound their own hardware timeout; errors are logged and
// the tick is skipped.
type Driver interface {
	Apply(powerOn bool, color Color) error
}

// Logger is the logging interface used by the Refresher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Refresher periodically copies the state mirror out to the physical driver.
//
// It is a pure reader of State; inbound notifications mutate the mirror and
// the next refresh tick makes the hardware catch up. When the lamp is off
// the driver is applied with the off state and the colour it will resume
// with.
type Refresher struct {
	state    *State
	driver   Driver
	interval time.Duration
	logger   Logger
}

// NewRefresher creates the refresh task.
func NewRefresher(state *State, driver Driver, interval time.Duration) *Refresher {
	return &Refresher{
		state:    state,
		driver:   driver,
		interval: interval,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the refresher.
func (r *Refresher) SetLogger(logger Logger) {
	r.logger = logger
}

// Run drives the physical lamp until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info("actuator refresh started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("actuator refresh stopped")
			return
		case <-ticker.C:
			on, color := r.state.Get()
			if err := r.driver.Apply(on, color); err != nil {
				r.logger.Warn("actuator driver apply failed", "error", err)
			}
		}
	}
}
