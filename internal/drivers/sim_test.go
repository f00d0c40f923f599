package drivers

import (
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/mood-node/internal/actuator"
	"github.com/nerrad567/mood-node/internal/infrastructure/config"
)

func TestNew_SimModeBuildsFullSet(t *testing.T) {
	set, err := New(config.DriversConfig{Mode: "sim"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if set.Lux == nil || set.Audio == nil || set.Occupancy == nil || set.Lamp == nil {
		t.Errorf("incomplete driver set: %+v", set)
	}
}

func TestNew_HardwareModeUnavailable(t *testing.T) {
	if _, err := New(config.DriversConfig{Mode: "hardware"}, nil); !errors.Is(err, ErrHardwareUnavailable) {
		t.Errorf("err = %v, want ErrHardwareUnavailable", err)
	}
}

func TestNew_UnknownModeRejected(t *testing.T) {
	if _, err := New(config.DriversConfig{Mode: "emulated"}, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRandomWalk_StaysWithinBounds(t *testing.T) {
	d := NewRandomWalk(5, 0, 10, 8)
	for i := 0; i < 1000; i++ {
		v, err := d.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if v < 0 || v > 10 {
			t.Fatalf("value %v escaped [0,10] on read %d", v, i)
		}
	}
}

func TestOccupancyCycle_FlipsEachPeriod(t *testing.T) {
	d := NewOccupancyCycle(time.Minute)
	base := d.start

	cases := []struct {
		elapsed time.Duration
		want    bool
	}{
		{0, false},
		{30 * time.Second, false},
		{time.Minute, true},
		{90 * time.Second, true},
		{2 * time.Minute, false},
		{3 * time.Minute, true},
	}
	for _, tc := range cases {
		d.now = func() time.Time { return base.Add(tc.elapsed) }
		got, err := d.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got != tc.want {
			t.Errorf("elapsed %v: occupied = %v, want %v", tc.elapsed, got, tc.want)
		}
	}
}

func TestLoggingLamp_AcceptsState(t *testing.T) {
	d := NewLoggingLamp(nil)
	if err := d.Apply(true, actuator.Color{R: 1, G: 2, B: 3}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Re-applying the same state is a no-op but still succeeds.
	if err := d.Apply(true, actuator.Color{R: 1, G: 2, B: 3}); err != nil {
		t.Fatalf("Apply (repeat): %v", err)
	}
}
