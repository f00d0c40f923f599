package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTempConfig writes YAML content to a temp file and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempConfig(t, "node:\n  id: test-node\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Node.ID != "test-node" {
		t.Errorf("node.id = %q, want %q", cfg.Node.ID, "test-node")
	}
	if cfg.CSE.Name != "room-mn-cse" {
		t.Errorf("cse.name default = %q, want %q", cfg.CSE.Name, "room-mn-cse")
	}
	if cfg.CSE.Readiness.MaxAttempts != 30 {
		t.Errorf("readiness.max_attempts default = %d, want 30", cfg.CSE.Readiness.MaxAttempts)
	}
	if cfg.Sensors.Lux.Threshold != 1.0 {
		t.Errorf("sensors.lux.threshold default = %v, want 1.0", cfg.Sensors.Lux.Threshold)
	}
	if !cfg.Sensors.SyncOccupancyToLamp {
		t.Error("sensors.sync_occupancy_to_lamp default = false, want true")
	}
	if cfg.Drivers.Mode != "sim" {
		t.Errorf("drivers.mode default = %q, want %q", cfg.Drivers.Mode, "sim")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
cse:
  host: 192.168.0.38
  port: 8081
sensors:
  lux:
    cadence: 5
    threshold: 2.5
listener:
  port: 9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.CSE.Host != "192.168.0.38" {
		t.Errorf("cse.host = %q, want %q", cfg.CSE.Host, "192.168.0.38")
	}
	if cfg.Sensors.Lux.Cadence != 5 {
		t.Errorf("sensors.lux.cadence = %d, want 5", cfg.Sensors.Lux.Cadence)
	}
	if cfg.Sensors.Lux.Threshold != 2.5 {
		t.Errorf("sensors.lux.threshold = %v, want 2.5", cfg.Sensors.Lux.Threshold)
	}
	if cfg.Listener.Port != 9090 {
		t.Errorf("listener.port = %d, want 9090", cfg.Listener.Port)
	}
	// Untouched sections keep defaults
	if cfg.Sensors.Audio.Threshold != 2.0 {
		t.Errorf("sensors.audio.threshold = %v, want default 2.0", cfg.Sensors.Audio.Threshold)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "cse:\n  host: from-file\n")

	t.Setenv("MOODNODE_CSE_HOST", "from-env")
	t.Setenv("MOODNODE_LISTENER_PORT", "8099")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.CSE.Host != "from-env" {
		t.Errorf("cse.host = %q, want env override %q", cfg.CSE.Host, "from-env")
	}
	if cfg.Listener.Port != 8099 {
		t.Errorf("listener.port = %d, want env override 8099", cfg.Listener.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "cse: [not a mapping")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "missing node id",
			mutate:  func(c *Config) { c.Node.ID = "" },
			wantSub: "node.id is required",
		},
		{
			name:    "bad cse port",
			mutate:  func(c *Config) { c.CSE.Port = 0 },
			wantSub: "cse.port",
		},
		{
			name:    "missing originator",
			mutate:  func(c *Config) { c.CSE.Originator = "" },
			wantSub: "cse.originator is required",
		},
		{
			name:    "zero cadence",
			mutate:  func(c *Config) { c.Sensors.Audio.Cadence = 0 },
			wantSub: "sensors.audio.cadence",
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.Sensors.Lux.Threshold = -1 },
			wantSub: "sensors.lux.threshold",
		},
		{
			name:    "zero readiness attempts",
			mutate:  func(c *Config) { c.CSE.Readiness.MaxAttempts = 0 },
			wantSub: "max_attempts",
		},
		{
			name:    "unknown driver mode",
			mutate:  func(c *Config) { c.Drivers.Mode = "emulated" },
			wantSub: "drivers.mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.CSE.GetRequestTimeout(); got != 5*time.Second {
		t.Errorf("GetRequestTimeout = %v, want 5s", got)
	}
	if got := cfg.CSE.Readiness.GetRetryDelay(); got != 2*time.Second {
		t.Errorf("GetRetryDelay = %v, want 2s", got)
	}
	if got := cfg.Sensors.Lux.GetCadence(); got != 10*time.Second {
		t.Errorf("GetCadence = %v, want 10s", got)
	}
	if got := cfg.Actuator.GetRefreshInterval(); got != 100*time.Millisecond {
		t.Errorf("GetRefreshInterval = %v, want 100ms", got)
	}
	if got := cfg.Listener.Timeouts.GetReadTimeout(); got != 10*time.Second {
		t.Errorf("GetReadTimeout = %v, want 10s", got)
	}
	if got := cfg.Listener.Timeouts.GetWriteTimeout(); got != 10*time.Second {
		t.Errorf("GetWriteTimeout = %v, want 10s", got)
	}
	if got := cfg.Listener.Timeouts.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout = %v, want 60s", got)
	}
}
