// Package provision creates the node's resource tree on the remote CSE at
// startup.
//
// The sequence is strictly ordered: readiness probe, room container, desk
// container, one flex-container per sensor, lamp device with its switch and
// colour sub-resources, then subscriptions pointing the switch and colour
// paths back at the node's own notification listener.
//
// Every create is idempotent (an existing resource counts as success), so
// the node can reboot into an already provisioned tree. Individual resource
// failures are logged and recorded but do not abort the sequence; only probe
// exhaustion is fatal, since nothing works without a reachable CSE.
package provision

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/mood-node/internal/infrastructure/config"
	"github.com/nerrad567/mood-node/internal/onem2m"
)

// ErrNotReady is returned by Run when the readiness probe exhausts its
// attempts without the CSE ever responding.
var ErrNotReady = errors.New("provision: cse not ready")

// Client is the subset of the sync client the provisioner drives.
type Client interface {
	ProbeReady(ctx context.Context, maxAttempts int, retryDelay time.Duration) bool
	CreateIfAbsent(ctx context.Context, parentPath string, resourceType int, body onem2m.Body) onem2m.Result
	Update(ctx context.Context, path string, body onem2m.Body) onem2m.Result
	Subscribe(ctx context.Context, path, name, notifyURL string, events []int) onem2m.Result
	Paths() onem2m.Paths
}

// Logger is the minimal logging interface the provisioner needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Subscription resource names on the lamp sub-resources.
const (
	SubLampSwitch = "subLampSwitch"
	SubLampColor  = "subLampColor"
)

// sensorSpec binds one sensor channel to its oneM2M flex-container identity.
type sensorSpec struct {
	key       string // short-name wrapper, e.g. "mio:luxSr"
	cnd       string // container definition
	role      string // label, e.g. "sensor:lux"
	valueAttr string // announced value attribute
	initial   any    // initial value written at creation
}

// Provisioner builds the resource tree for one node.
type Provisioner struct {
	client    Client
	cse       config.CSEConfig
	sensors   config.SensorsConfig
	actuator  config.ActuatorConfig
	notifyURL string
	logger    Logger
}

// New creates a Provisioner. notifyURL is the externally reachable address of
// this node's POST /notify endpoint.
func New(client Client, cse config.CSEConfig, sensors config.SensorsConfig, act config.ActuatorConfig, notifyURL string) *Provisioner {
	return &Provisioner{
		client:    client,
		cse:       cse,
		sensors:   sensors,
		actuator:  act,
		notifyURL: notifyURL,
		logger:    noopLogger{},
	}
}

// SetLogger installs a logger. Passing nil restores the no-op logger.
func (p *Provisioner) SetLogger(logger Logger) {
	if logger == nil {
		p.logger = noopLogger{}
		return
	}
	p.logger = logger
}

// Run executes the provisioning sequence and returns a step-by-step report.
//
// The only error condition is readiness-probe exhaustion (ErrNotReady) or
// context cancellation; resource-level failures are recorded in the report
// and left for steady-state retries to repair.
func (p *Provisioner) Run(ctx context.Context) (*Report, error) {
	report := newReport()

	ready := p.client.ProbeReady(ctx, p.cse.Readiness.MaxAttempts, p.cse.Readiness.GetRetryDelay())
	report.recordBool("probe", ready)
	if !ready {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		return report, ErrNotReady
	}

	paths := p.client.Paths()
	acp := paths.AccessControlPolicy(p.cse.Name)

	// Containers: room under the AE, desk under the room.
	report.record("room", p.client.CreateIfAbsent(ctx,
		paths.AE, onem2m.ResourceTypeContainer, onem2m.Container(p.cse.Room, acp)))
	report.record("desk", p.client.CreateIfAbsent(ctx,
		paths.Room, onem2m.ResourceTypeContainer, onem2m.Container(p.cse.Desk, acp)))

	// Sensor flex-containers.
	p.provisionSensor(ctx, report, p.sensors.Lux.Name, sensorSpec{
		key: onem2m.KeyLuxSensor, cnd: onem2m.CndLuxSensor,
		role: "sensor:lux", valueAttr: "lux", initial: 0.0,
	})
	p.provisionSensor(ctx, report, p.sensors.Audio.Name, sensorSpec{
		key: onem2m.KeyAcousticSensor, cnd: onem2m.CndAcousticSensor,
		role: "sensor:acoustic", valueAttr: "louds", initial: 0.0,
	})
	p.provisionSensor(ctx, report, p.sensors.Occupancy.Name, sensorSpec{
		key: onem2m.KeyOccupancySensor, cnd: onem2m.CndOccupancySensor,
		role: "sensor:occupancy", valueAttr: "occ", initial: false,
	})

	p.provisionLamp(ctx, report, paths, acp)

	// Subscriptions deliver switch and colour changes back to this node.
	lamp := p.actuator.Name
	report.record(SubLampSwitch, p.client.Subscribe(ctx,
		paths.LampSwitch(lamp), SubLampSwitch, p.notifyURL, onem2m.DefaultSubscriptionEvents))
	report.record(SubLampColor, p.client.Subscribe(ctx,
		paths.LampColor(lamp), SubLampColor, p.notifyURL, onem2m.DefaultSubscriptionEvents))

	for _, step := range report.Steps() {
		if !step.OK {
			p.logger.Warn("provisioning step failed", "step", step.Name, "result", step.Result.String())
		}
	}
	p.logger.Info("provisioning complete", "ok", report.AllOK())

	return report, nil
}

// provisionSensor creates one sensor flex-container and, when an announce
// target is configured, follows up with the announcement attributes so the
// value propagates to the IN-CSE. A failed announcement does not mark the
// sensor as unprovisioned; the local tree is still usable.
func (p *Provisioner) provisionSensor(ctx context.Context, report *Report, name string, spec sensorSpec) {
	paths := p.client.Paths()
	acp := paths.AccessControlPolicy(p.cse.Name)
	labels := onem2m.Labels(p.cse.Room, p.cse.Desk, spec.role)

	res := p.client.CreateIfAbsent(ctx, paths.Desk, onem2m.ResourceTypeFlexContainer,
		onem2m.SensorDevice(spec.key, name, spec.cnd, acp, labels, spec.valueAttr, spec.initial))
	report.record(name, res)
	if !res.OK {
		return
	}

	if p.cse.AnnounceTarget == "" {
		return
	}
	annRes := p.client.Update(ctx, paths.Device(name),
		onem2m.Announcement(spec.key, p.cse.AnnounceTarget, []string{spec.valueAttr}))
	report.record(name+":announce", annRes)
}

// provisionLamp creates the lamp device, its switch and colour sub-resources,
// and initialises both to a known state (off, black). Sub-resources are only
// attempted when the lamp device itself exists.
func (p *Provisioner) provisionLamp(ctx context.Context, report *Report, paths onem2m.Paths, acp string) {
	lamp := p.actuator.Name
	labels := onem2m.Labels(p.cse.Room, p.cse.Desk, "actuator:lamp")

	res := p.client.CreateIfAbsent(ctx, paths.Desk, onem2m.ResourceTypeFlexContainer,
		onem2m.LampDevice(lamp, acp, labels))
	report.record(lamp, res)
	if !res.OK {
		return
	}

	swRes := p.client.CreateIfAbsent(ctx, paths.Device(lamp), onem2m.ResourceTypeFlexContainer,
		onem2m.BinarySwitch(acp))
	report.record("binarySwitch", swRes)
	if swRes.OK {
		p.client.Update(ctx, paths.LampSwitch(lamp), onem2m.SwitchState(false))
	}

	colRes := p.client.CreateIfAbsent(ctx, paths.Device(lamp), onem2m.ResourceTypeFlexContainer,
		onem2m.Colour(acp))
	report.record("color", colRes)
	if colRes.OK {
		p.client.Update(ctx, paths.LampColor(lamp), onem2m.ColourValue(0, 0, 0))
	}
}
