package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nerrad567/mood-node/internal/actuator"
	"github.com/nerrad567/mood-node/internal/infrastructure/config"
	"github.com/nerrad567/mood-node/internal/infrastructure/logging"
	"github.com/nerrad567/mood-node/internal/sensor"
)

func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")
}

// fixedDriver always returns the same reading.
type fixedDriver struct{ value float64 }

func (d fixedDriver) Read() (float64, error) { return d.value, nil }

type fixedBinaryDriver struct{ value bool }

func (d fixedBinaryDriver) Read() (bool, error) { return d.value, nil }

type fakeProvision map[string]string

func (p fakeProvision) Summary() map[string]string { return p }

// recordedLamp is one lamp state handed to the recording sink.
type recordedLamp struct {
	name    string
	on      bool
	r, g, b uint8
}

type recordingLampSink struct {
	states []recordedLamp
}

func (s *recordingLampSink) RecordLampState(name string, on bool, r, g, b uint8) {
	s.states = append(s.states, recordedLamp{name: name, on: on, r: r, g: g, b: b})
}

func newTestServer(t *testing.T) (*Server, *actuator.State) {
	t.Helper()

	lamp := actuator.NewState()
	lux := sensor.NewChannel(
		config.ChannelConfig{Name: "luxSensor", Cadence: 10, Threshold: 1.0},
		fixedDriver{value: 120},
		func(context.Context, float64) bool { return true },
	)
	occ := sensor.NewBinaryChannel(
		config.ChannelConfig{Name: "occupancySensor", Cadence: 10},
		fixedBinaryDriver{},
		func(context.Context, bool) bool { return true },
	)

	s, err := New(Deps{
		Config: config.ListenerConfig{
			Port: 8088,
			WebSocket: config.WebSocketConfig{
				MaxMessageSize: 4096,
				PingInterval:   30,
				PongTimeout:    10,
			},
		},
		Logger:    testLogger(),
		Lamp:      lamp,
		Lux:       lux,
		Occupancy: occ,
		Provision: fakeProvision{"probe": "ok"},
		LampName:  "lamp",
		NodeID:    "moodnode-test",
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, lamp
}

func postNotify(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

// ─── Notification handling ──────────────────────────────────────────────────

func TestNotify_MalformedBodyRejectedWithoutStateChange(t *testing.T) {
	s, lamp := newTestServer(t)
	lamp.SetColor(actuator.Color{R: 10, G: 20, B: 30})

	rec := postNotify(t, s, `{"m2m:sgn": not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	on, c := lamp.Get()
	if on || c != (actuator.Color{R: 10, G: 20, B: 30}) {
		t.Errorf("state changed on malformed body: on=%v colour=%+v", on, c)
	}
}

func TestNotify_VerificationHandshakeShortCircuits(t *testing.T) {
	s, lamp := newTestServer(t)

	// A representation alongside vrq must not be processed.
	body := `{"m2m:sgn":{"vrq":true,"sur":"subLampSwitch","nev":{"rep":{"cod:binSh":{"state":true}}}}}`
	rec := postNotify(t, s, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if on, _ := lamp.Get(); on {
		t.Error("verification request must not touch actuator state")
	}
}

func TestNotify_VerificationWithUnexpectedEventAcknowledged(t *testing.T) {
	s, lamp := newTestServer(t)

	// A CSE may pack anything into nev on a verification delivery; the
	// handshake must still succeed on the verification flag alone.
	rec := postNotify(t, s, `{"m2m:sgn":{"vrq":true,"nev":"unexpected-string"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	on, c := lamp.Get()
	if on || c != (actuator.Color{}) {
		t.Errorf("verification request must not touch actuator state: on=%v colour=%+v", on, c)
	}
}

func TestNotify_MalformedEventRejectedWithoutStateChange(t *testing.T) {
	s, lamp := newTestServer(t)
	lamp.SetColor(actuator.Color{R: 10, G: 20, B: 30})

	// Without the verification flag a malformed nev is a client error.
	rec := postNotify(t, s, `{"m2m:sgn":{"nev":"unexpected-string"}}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	on, c := lamp.Get()
	if on || c != (actuator.Color{R: 10, G: 20, B: 30}) {
		t.Errorf("state changed on malformed event: on=%v colour=%+v", on, c)
	}
}

func TestNotify_SwitchUpdatePreservesColour(t *testing.T) {
	s, lamp := newTestServer(t)
	lamp.SetColor(actuator.Color{R: 255, G: 0, B: 128})

	rec := postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"cod:binSh":{"state":true}}}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	on, c := lamp.Get()
	if !on {
		t.Error("power should be on")
	}
	if c != (actuator.Color{R: 255, G: 0, B: 128}) {
		t.Errorf("colour changed by switch update: %+v", c)
	}
}

func TestNotify_ColourUpdatePreservesPower(t *testing.T) {
	s, lamp := newTestServer(t)
	lamp.SetPower(true)

	rec := postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"cod:color":{"red":12,"green":34,"blue":56}}}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	on, c := lamp.Get()
	if !on {
		t.Error("power should still be on")
	}
	if c != (actuator.Color{R: 12, G: 34, B: 56}) {
		t.Errorf("colour = %+v, want {12 34 56}", c)
	}
}

func TestNotify_CombinedRepresentationUpdatesBoth(t *testing.T) {
	s, lamp := newTestServer(t)

	body := `{"m2m:sgn":{"nev":{"rep":{"cod:binSh":{"state":true},"cod:color":{"red":1,"green":2,"blue":3}}}}}`
	rec := postNotify(t, s, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	on, c := lamp.Get()
	if !on || c != (actuator.Color{R: 1, G: 2, B: 3}) {
		t.Errorf("got on=%v colour=%+v", on, c)
	}
}

func TestNotify_UnknownRepresentationAcknowledged(t *testing.T) {
	s, lamp := newTestServer(t)

	rec := postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"mio:luxSr":{"lux":42.5}}}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	on, c := lamp.Get()
	if on || c != (actuator.Color{}) {
		t.Errorf("unmatched representation must not change state: on=%v colour=%+v", on, c)
	}
}

func TestNotify_NonSignalBodyAcknowledged(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postNotify(t, s, `{"hello":"world"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestNotify_ColourComponentsClamped(t *testing.T) {
	s, lamp := newTestServer(t)

	rec := postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"cod:color":{"red":999,"green":-4,"blue":255}}}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	_, c := lamp.Get()
	if c != (actuator.Color{R: 255, G: 0, B: 255}) {
		t.Errorf("colour = %+v, want {255 0 255}", c)
	}
}

func TestNotify_LampChangesReachRecorder(t *testing.T) {
	s, _ := newTestServer(t)
	sink := &recordingLampSink{}
	s.SetLampRecorder(sink)

	// Verification and unmatched representations record nothing.
	postNotify(t, s, `{"m2m:sgn":{"vrq":true}}`)
	postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"mio:luxSr":{"lux":42.5}}}}}`)
	if len(sink.states) != 0 {
		t.Fatalf("recorded %d states before any lamp change", len(sink.states))
	}

	postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"cod:binSh":{"state":true}}}}}`)
	postNotify(t, s, `{"m2m:sgn":{"nev":{"rep":{"cod:color":{"red":1,"green":2,"blue":3}}}}}`)

	if len(sink.states) != 2 {
		t.Fatalf("recorded %d states, want 2", len(sink.states))
	}
	if got := sink.states[0]; got.name != "lamp" || !got.on {
		t.Errorf("first record = %+v, want lamp on", got)
	}
	if got := sink.states[1]; !got.on || got.r != 1 || got.g != 2 || got.b != 3 {
		t.Errorf("second record = %+v, want on with colour {1 2 3}", got)
	}
}

// ─── Diagnostic surface ─────────────────────────────────────────────────────

func TestRoot_Identification(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "mood-node notification listener") {
		t.Errorf("unexpected identification body: %q", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestStatus_SnapshotShape(t *testing.T) {
	s, lamp := newTestServer(t)
	lamp.SetPower(true)
	lamp.SetColor(actuator.Color{R: 7, G: 8, B: 9})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode status body: %v", err)
	}
	if body.NodeID != "moodnode-test" {
		t.Errorf("node_id = %q", body.NodeID)
	}
	if !body.Lamp.PowerOn || body.Lamp.Color != (actuator.Color{R: 7, G: 8, B: 9}) {
		t.Errorf("lamp snapshot = %+v", body.Lamp)
	}
	if len(body.Channels) != 1 || body.Channels[0].Name != "luxSensor" {
		t.Errorf("channels = %+v", body.Channels)
	}
	if body.Occupancy == nil || body.Occupancy.Name != "occupancySensor" {
		t.Errorf("occupancy = %+v", body.Occupancy)
	}
	if body.Provision["probe"] != "ok" {
		t.Errorf("provision summary = %+v", body.Provision)
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(Deps{Lamp: actuator.NewState()}); err == nil {
		t.Error("expected error when logger missing")
	}
	if _, err := New(Deps{Logger: testLogger()}); err == nil {
		t.Error("expected error when actuator state missing")
	}
}
