package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the mood-node.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Node     NodeConfig     `yaml:"node"`
	CSE      CSEConfig      `yaml:"cse"`
	Sensors  SensorsConfig  `yaml:"sensors"`
	Actuator ActuatorConfig `yaml:"actuator"`
	Listener ListenerConfig `yaml:"listener"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Drivers  DriversConfig  `yaml:"drivers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NodeConfig identifies this node.
type NodeConfig struct {
	ID string `yaml:"id"`
}

// CSEConfig contains the remote CSE connection and naming settings.
//
// The naming fields define the resource hierarchy this node provisions:
// /{cse}/{ae}/{room}/{desk}/{device}.
type CSEConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	Originator string `yaml:"originator"`
	AE         string `yaml:"ae"`
	Room       string `yaml:"room"`
	Desk       string `yaml:"desk"`

	// AnnounceTarget is the IN-CSE identifier announced attributes point at.
	// Empty disables announcement updates.
	AnnounceTarget string `yaml:"announce_target"`

	// RequestTimeout is the per-request HTTP timeout in seconds.
	RequestTimeout int `yaml:"request_timeout"`

	// Readiness probe settings applied at boot.
	Readiness ReadinessConfig `yaml:"readiness"`
}

// ReadinessConfig bounds the startup readiness probe against the CSE.
type ReadinessConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	RetryDelay  int `yaml:"retry_delay"` // seconds between attempts
}

// SensorsConfig holds per-channel sampling settings.
type SensorsConfig struct {
	Lux       ChannelConfig `yaml:"lux"`
	Audio     ChannelConfig `yaml:"audio"`
	Occupancy ChannelConfig `yaml:"occupancy"`

	// SyncOccupancyToLamp enables the occupancy→lamp automation rule.
	SyncOccupancyToLamp bool `yaml:"sync_occupancy_to_lamp"`
}

// ChannelConfig contains one sensor channel's resource name, cadence and deadband.
type ChannelConfig struct {
	Name      string  `yaml:"name"`
	Cadence   int     `yaml:"cadence"`   // seconds between samples
	Threshold float64 `yaml:"threshold"` // minimum change to report (ignored for boolean channels)
}

// ActuatorConfig contains lamp refresh settings.
type ActuatorConfig struct {
	Name            string `yaml:"name"`
	RefreshInterval int    `yaml:"refresh_interval"` // milliseconds between driver refreshes
}

// ListenerConfig contains the inbound notification listener settings.
type ListenerConfig struct {
	Host        string                `yaml:"host"`
	Port        int                   `yaml:"port"`
	AdvertiseIP string                `yaml:"advertise_ip"` // address the CSE calls back on
	Timeouts    ListenerTimeoutConfig `yaml:"timeouts"`
	WebSocket   WebSocketConfig       `yaml:"websocket"`
}

// ListenerTimeoutConfig contains HTTP timeout settings in seconds.
type ListenerTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains the diagnostic stream settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains optional MQTT diagnostics settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains optional local telemetry sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// DriversConfig selects the sensor/actuator driver implementations.
type DriversConfig struct {
	// Mode is "sim" for in-process simulated drivers or "hardware" for
	// real transducer drivers supplied by a hardware build.
	Mode string `yaml:"mode"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MOODNODE_SECTION_KEY
// For example: MOODNODE_CSE_HOST, MOODNODE_LISTENER_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
//
// The naming defaults match the reference deployment (one desk in one room
// under a single monitoring AE).
func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			ID: "mood-node-01",
		},
		CSE: CSEConfig{
			Host:           "localhost",
			Port:           8081,
			Name:           "room-mn-cse",
			Originator:     "CMoodMonitor",
			AE:             "moodMonitorAE",
			Room:           "Room01",
			Desk:           "Desk01",
			RequestTimeout: 5,
			Readiness: ReadinessConfig{
				MaxAttempts: 30,
				RetryDelay:  2,
			},
		},
		Sensors: SensorsConfig{
			Lux: ChannelConfig{
				Name:      "luxSensor",
				Cadence:   10,
				Threshold: 1.0,
			},
			Audio: ChannelConfig{
				Name:      "acousticSensor",
				Cadence:   10,
				Threshold: 2.0,
			},
			Occupancy: ChannelConfig{
				Name:    "occupancySensor",
				Cadence: 10,
			},
			SyncOccupancyToLamp: true,
		},
		Actuator: ActuatorConfig{
			Name:            "lamp",
			RefreshInterval: 100,
		},
		Listener: ListenerConfig{
			Host: "0.0.0.0",
			Port: 8088,
			Timeouts: ListenerTimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
			WebSocket: WebSocketConfig{
				Path:           "/ws",
				MaxMessageSize: 8192,
				PingInterval:   30,
				PongTimeout:    10,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "mood-node",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Drivers: DriversConfig{
			Mode: "sim",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: MOODNODE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// CSE
	if v := os.Getenv("MOODNODE_CSE_HOST"); v != "" {
		cfg.CSE.Host = v
	}
	if v := os.Getenv("MOODNODE_CSE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.CSE.Port = port
		}
	}
	if v := os.Getenv("MOODNODE_CSE_ORIGINATOR"); v != "" {
		cfg.CSE.Originator = v
	}

	// Listener
	if v := os.Getenv("MOODNODE_LISTENER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Listener.Port = port
		}
	}
	if v := os.Getenv("MOODNODE_LISTENER_ADVERTISE_IP"); v != "" {
		cfg.Listener.AdvertiseIP = v
	}

	// MQTT
	if v := os.Getenv("MOODNODE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MOODNODE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("MOODNODE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("MOODNODE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Node.ID == "" {
		errs = append(errs, "node.id is required")
	}

	// CSE validation
	if c.CSE.Host == "" {
		errs = append(errs, "cse.host is required")
	}
	if c.CSE.Port <= 0 || c.CSE.Port > 65535 {
		errs = append(errs, "cse.port must be between 1 and 65535")
	}
	if c.CSE.Name == "" {
		errs = append(errs, "cse.name is required")
	}
	if c.CSE.Originator == "" {
		errs = append(errs, "cse.originator is required")
	}
	if c.CSE.AE == "" {
		errs = append(errs, "cse.ae is required")
	}
	if c.CSE.Room == "" {
		errs = append(errs, "cse.room is required")
	}
	if c.CSE.Desk == "" {
		errs = append(errs, "cse.desk is required")
	}
	if c.CSE.Readiness.MaxAttempts <= 0 {
		errs = append(errs, "cse.readiness.max_attempts must be positive")
	}

	// Sensor validation
	for _, ch := range []struct {
		section string
		cfg     ChannelConfig
	}{
		{"sensors.lux", c.Sensors.Lux},
		{"sensors.audio", c.Sensors.Audio},
		{"sensors.occupancy", c.Sensors.Occupancy},
	} {
		if ch.cfg.Name == "" {
			errs = append(errs, ch.section+".name is required")
		}
		if ch.cfg.Cadence <= 0 {
			errs = append(errs, ch.section+".cadence must be positive")
		}
		if ch.cfg.Threshold < 0 {
			errs = append(errs, ch.section+".threshold must be non-negative")
		}
	}

	// Listener validation
	if c.Listener.Port <= 0 || c.Listener.Port > 65535 {
		errs = append(errs, "listener.port must be between 1 and 65535")
	}

	// Actuator validation
	if c.Actuator.RefreshInterval <= 0 {
		errs = append(errs, "actuator.refresh_interval must be positive")
	}

	// Driver mode validation
	switch c.Drivers.Mode {
	case "sim", "hardware":
	default:
		errs = append(errs, "drivers.mode must be \"sim\" or \"hardware\"")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GetRequestTimeout returns the CSE per-request timeout as a duration.
func (c *CSEConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetRetryDelay returns the readiness probe retry delay as a duration.
func (r *ReadinessConfig) GetRetryDelay() time.Duration {
	return time.Duration(r.RetryDelay) * time.Second
}

// GetCadence returns the channel's sampling interval as a duration.
func (c *ChannelConfig) GetCadence() time.Duration {
	return time.Duration(c.Cadence) * time.Second
}

// GetRefreshInterval returns the actuator refresh interval as a duration.
func (a *ActuatorConfig) GetRefreshInterval() time.Duration {
	return time.Duration(a.RefreshInterval) * time.Millisecond
}

// GetReadTimeout returns the listener read timeout as a duration.
func (t *ListenerTimeoutConfig) GetReadTimeout() time.Duration {
	return time.Duration(t.Read) * time.Second
}

// GetWriteTimeout returns the listener write timeout as a duration.
func (t *ListenerTimeoutConfig) GetWriteTimeout() time.Duration {
	return time.Duration(t.Write) * time.Second
}

// GetIdleTimeout returns the listener idle timeout as a duration.
func (t *ListenerTimeoutConfig) GetIdleTimeout() time.Duration {
	return time.Duration(t.Idle) * time.Second
}
