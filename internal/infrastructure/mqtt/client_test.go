package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/mood-node/internal/infrastructure/config"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "moodnode-desk01",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

// ─── Topics ─────────────────────────────────────────────────────────────────

func TestTopics(t *testing.T) {
	topics := Topics{}

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"system status", topics.SystemStatus(), "moodnode/system/status"},
		{"channel state", topics.ChannelState("luxSensor"), "moodnode/state/luxSensor"},
		{"actuator state", topics.ActuatorState("lamp"), "moodnode/event/lamp"},
		{"provisioning", topics.Provisioning(), "moodnode/system/provisioning"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s topic = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

// ─── Options ────────────────────────────────────────────────────────────────

func TestBuildClientOptions_BrokerURL(t *testing.T) {
	opts := buildClientOptions(testMQTTConfig())

	if len(opts.Servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://localhost:1883" {
		t.Errorf("broker URL = %q", got)
	}
	if opts.ClientID != "moodnode-desk01" {
		t.Errorf("client ID = %q", opts.ClientID)
	}
}

func TestBuildClientOptions_TLSScheme(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)
	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
}

func TestBuildClientOptions_Credentials(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "node", Password: "secret"}

	opts := buildClientOptions(cfg)
	if opts.Username != "node" || opts.Password != "secret" {
		t.Errorf("credentials not applied: %q/%q", opts.Username, opts.Password)
	}
}

// ─── Status payloads ────────────────────────────────────────────────────────

func TestStatusPayloads(t *testing.T) {
	cases := []struct {
		name       string
		payload    string
		wantStatus string
		wantReason string
	}{
		{"online", buildOnlinePayload("moodnode-desk01"), "online", ""},
		{"offline", buildOfflinePayload("moodnode-desk01"), "offline", "graceful_shutdown"},
	}

	for _, tc := range cases {
		var decoded map[string]string
		if err := json.Unmarshal([]byte(tc.payload), &decoded); err != nil {
			t.Fatalf("%s payload is not valid JSON: %v", tc.name, err)
		}
		if decoded["status"] != tc.wantStatus {
			t.Errorf("%s status = %q", tc.name, decoded["status"])
		}
		if decoded["client_id"] != "moodnode-desk01" {
			t.Errorf("%s client_id = %q", tc.name, decoded["client_id"])
		}
		if tc.wantReason != "" && decoded["reason"] != tc.wantReason {
			t.Errorf("%s reason = %q", tc.name, decoded["reason"])
		}
	}
}

// ─── Publish validation ─────────────────────────────────────────────────────

func TestPublish_Validation(t *testing.T) {
	// A zero client is never connected, so validation errors are reachable
	// without a broker.
	c := &Client{cfg: testMQTTConfig()}

	if err := c.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: err = %v", err)
	}
	if err := c.Publish("moodnode/state/lux", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad QoS: err = %v", err)
	}
	big := []byte(strings.Repeat("x", maxPayloadSize+1))
	if err := c.Publish("moodnode/state/lux", big, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload: err = %v", err)
	}
	if err := c.Publish("moodnode/state/lux", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: err = %v", err)
	}
}

func TestClose_NilClientIsNoop(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close on unconnected client: %v", err)
	}
}
