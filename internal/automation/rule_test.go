package automation

import (
	"context"
	"testing"

	"github.com/nerrad567/mood-node/internal/onem2m"
)

// mockUpdater captures Update calls and answers with a scripted result.
type mockUpdater struct {
	paths  []string
	bodies []onem2m.Body
	result onem2m.Result
}

func (m *mockUpdater) Update(_ context.Context, path string, body onem2m.Body) onem2m.Result {
	m.paths = append(m.paths, path)
	m.bodies = append(m.bodies, body)
	return m.result
}

func TestRule_MapsOccupancyToSwitch(t *testing.T) {
	updater := &mockUpdater{result: onem2m.Result{OK: true, Status: 200}}
	rule := NewOccupancyLampRule(updater, "/room-mn-cse/moodMonitorAE/Room01/Desk01/lamp/binarySwitch")

	rule.Apply(context.Background(), true)
	rule.Apply(context.Background(), false)

	if len(updater.paths) != 2 {
		t.Fatalf("updates = %d, want 2", len(updater.paths))
	}
	for _, p := range updater.paths {
		if p != "/room-mn-cse/moodMonitorAE/Room01/Desk01/lamp/binarySwitch" {
			t.Errorf("update path = %q", p)
		}
	}

	for i, want := range []bool{true, false} {
		rep, ok := updater.bodies[i][onem2m.KeyBinarySwitch].(map[string]any)
		if !ok {
			t.Fatalf("body[%d] missing switch wrapper: %v", i, updater.bodies[i])
		}
		if rep["state"] != want {
			t.Errorf("body[%d] state = %v, want %v", i, rep["state"], want)
		}
	}
}

func TestRule_FailureIsSwallowed(t *testing.T) {
	updater := &mockUpdater{result: onem2m.Result{Status: onem2m.StatusNoResponse}}
	rule := NewOccupancyLampRule(updater, "/switch")

	// Apply must not panic or propagate anything on failure.
	rule.Apply(context.Background(), true)

	if len(updater.paths) != 1 {
		t.Fatalf("updates = %d, want 1", len(updater.paths))
	}
}
