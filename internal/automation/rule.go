package automation

import (
	"context"

	"github.com/nerrad567/mood-node/internal/onem2m"
)

// Updater pushes attribute updates to the remote store.
// Satisfied by *onem2m.Client.
type Updater interface {
	Update(ctx context.Context, path string, body onem2m.Body) onem2m.Result
}

// Logger is the logging interface used by the rule.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// OccupancyLampRule maps an occupancy state directly to the lamp's switch.
type OccupancyLampRule struct {
	updater    Updater
	switchPath string
	logger     Logger
}

// NewOccupancyLampRule creates the rule targeting the given binarySwitch path.
func NewOccupancyLampRule(updater Updater, switchPath string) *OccupancyLampRule {
	return &OccupancyLampRule{
		updater:    updater,
		switchPath: switchPath,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the rule.
func (r *OccupancyLampRule) SetLogger(logger Logger) {
	r.logger = logger
}

// Apply pushes the derived switch command. Best-effort: the outcome is
// logged but not propagated, so a failed lamp update cannot disturb the
// occupancy channel that triggered it.
func (r *OccupancyLampRule) Apply(ctx context.Context, occupied bool) {
	res := r.updater.Update(ctx, r.switchPath, onem2m.SwitchState(occupied))
	if !res.OK {
		r.logger.Warn("lamp switch update failed", "occupied", occupied, "result", res.String())
		return
	}
	r.logger.Info("lamp switch updated", "occupied", occupied)
}
