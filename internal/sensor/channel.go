package sensor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nerrad567/mood-node/internal/infrastructure/config"
)

// PushFunc reports a numeric value upstream and returns whether the push
// was confirmed by the remote store.
type PushFunc func(ctx context.Context, value float64) bool

// BinaryPushFunc reports a boolean state upstream.
type BinaryPushFunc func(ctx context.Context, on bool) bool

// Channel samples a numeric driver on a fixed cadence and pushes values
// through a deadband filter.
//
// The value cell is guarded by a mutex so a status query can read it while
// the tick goroutine runs. lastReported advances only after a confirmed
// push; until the first confirmed push the channel is in the "never
// reported" state and the first successful read always reports.
type Channel struct {
	name      string
	driver    Driver
	threshold float64
	cadence   time.Duration
	push      PushFunc
	logger    Logger
	recorder  Recorder

	mu           sync.Mutex
	current      float64
	lastReported float64
	reported     bool // false until the first confirmed push
}

// NewChannel creates a numeric sensor channel.
func NewChannel(cfg config.ChannelConfig, driver Driver, push PushFunc) *Channel {
	return &Channel{
		name:      cfg.Name,
		driver:    driver,
		threshold: cfg.Threshold,
		cadence:   cfg.GetCadence(),
		push:      push,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the channel.
func (c *Channel) SetLogger(logger Logger) {
	c.logger = logger
}

// SetRecorder sets an optional telemetry recorder receiving every raw sample.
func (c *Channel) SetRecorder(recorder Recorder) {
	c.recorder = recorder
}

// Name returns the channel's resource name.
func (c *Channel) Name() string {
	return c.name
}

// Run executes the sampling loop until ctx is cancelled.
//
// The cadence is a strict period: a tick fires every cadence interval
// regardless of how long the previous tick took, and ticks never overlap
// because they all run on this goroutine. A slow push therefore delays only
// this channel's next tick.
func (c *Channel) Run(ctx context.Context) {
	c.logger.Info("sensor channel started", "cadence", c.cadence, "threshold", c.threshold)

	ticker := time.NewTicker(c.cadence)
	defer ticker.Stop()

	c.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("sensor channel stopped")
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick performs one read-filter-push cycle.
func (c *Channel) tick(ctx context.Context) {
	value, err := c.driver.Read()
	if err != nil {
		// Skip the tick entirely; no partial state update.
		c.logger.Warn("driver read failed", "error", err)
		return
	}

	c.mu.Lock()
	c.current = value
	lastReported := c.lastReported
	reported := c.reported
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.RecordSample(c.name, value)
	}

	shouldReport := !reported || math.Abs(value-lastReported) >= c.threshold
	if !shouldReport {
		return
	}

	// Push with no lock held.
	if !c.push(ctx, value) {
		// Baseline stays put: the next reading is compared against the same
		// stale value, which retries the report as soon as the value drifts.
		c.logger.Warn("push failed, keeping previous baseline", "value", value)
		return
	}

	c.mu.Lock()
	c.lastReported = value
	c.reported = true
	c.mu.Unlock()

	c.logger.Info("value reported", "value", value)
}

// Snapshot is a point-in-time view of a numeric channel for status queries.
type Snapshot struct {
	Name         string   `json:"name"`
	Current      float64  `json:"current"`
	LastReported *float64 `json:"last_reported,omitempty"`
}

// Snapshot returns the channel's current state.
func (c *Channel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{Name: c.name, Current: c.current}
	if c.reported {
		v := c.lastReported
		snap.LastReported = &v
	}
	return snap
}

// BinaryChannel samples a boolean driver on a fixed cadence and pushes on
// every state change.
//
// Equality replaces the deadband comparison: the channel reports when the
// state differs from the last confirmed report, or on the first successful
// read ever.
type BinaryChannel struct {
	name     string
	driver   BinaryDriver
	cadence  time.Duration
	push     BinaryPushFunc
	logger   Logger
	recorder Recorder

	// onReported fires after a confirmed push, outside the lock.
	onReported func(ctx context.Context, on bool)

	mu           sync.Mutex
	current      bool
	lastReported bool
	reported     bool
}

// NewBinaryChannel creates a boolean sensor channel.
func NewBinaryChannel(cfg config.ChannelConfig, driver BinaryDriver, push BinaryPushFunc) *BinaryChannel {
	return &BinaryChannel{
		name:    cfg.Name,
		driver:  driver,
		cadence: cfg.GetCadence(),
		push:    push,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the channel.
func (c *BinaryChannel) SetLogger(logger Logger) {
	c.logger = logger
}

// SetRecorder sets an optional telemetry recorder (samples recorded as 0/1).
func (c *BinaryChannel) SetRecorder(recorder Recorder) {
	c.recorder = recorder
}

// SetOnReported registers a hook invoked after each confirmed push, with the
// reported state. Used to drive cross-channel automation; hook failures are
// the hook's own problem and never affect the report itself.
func (c *BinaryChannel) SetOnReported(hook func(ctx context.Context, on bool)) {
	c.onReported = hook
}

// Name returns the channel's resource name.
func (c *BinaryChannel) Name() string {
	return c.name
}

// Run executes the sampling loop until ctx is cancelled.
func (c *BinaryChannel) Run(ctx context.Context) {
	c.logger.Info("sensor channel started", "cadence", c.cadence)

	ticker := time.NewTicker(c.cadence)
	defer ticker.Stop()

	c.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("sensor channel stopped")
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick performs one read-compare-push cycle.
func (c *BinaryChannel) tick(ctx context.Context) {
	state, err := c.driver.Read()
	if err != nil {
		c.logger.Warn("driver read failed", "error", err)
		return
	}

	c.mu.Lock()
	c.current = state
	lastReported := c.lastReported
	reported := c.reported
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.RecordSample(c.name, boolToFloat(state))
	}

	shouldReport := !reported || state != lastReported
	if !shouldReport {
		return
	}

	if !c.push(ctx, state) {
		c.logger.Warn("push failed, keeping previous baseline", "state", state)
		return
	}

	c.mu.Lock()
	c.lastReported = state
	c.reported = true
	c.mu.Unlock()

	c.logger.Info("state reported", "state", state)

	if c.onReported != nil {
		c.onReported(ctx, state)
	}
}

// BinarySnapshot is a point-in-time view of a boolean channel.
type BinarySnapshot struct {
	Name         string `json:"name"`
	Current      bool   `json:"current"`
	LastReported *bool  `json:"last_reported,omitempty"`
}

// Snapshot returns the channel's current state.
func (c *BinaryChannel) Snapshot() BinarySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := BinarySnapshot{Name: c.name, Current: c.current}
	if c.reported {
		v := c.lastReported
		snap.LastReported = &v
	}
	return snap
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
