// Mood Node - oneM2M multi-sensor edge node
//
// This is the main entry point for the mood node. The node samples a desk's
// light, sound and occupancy, pushes significant changes into a oneM2M CSE
// resource tree, and drives a desk lamp from subscription notifications the
// CSE delivers back.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/mood-node/internal/actuator"
	"github.com/nerrad567/mood-node/internal/automation"
	"github.com/nerrad567/mood-node/internal/drivers"
	"github.com/nerrad567/mood-node/internal/infrastructure/config"
	"github.com/nerrad567/mood-node/internal/infrastructure/influxdb"
	"github.com/nerrad567/mood-node/internal/infrastructure/logging"
	"github.com/nerrad567/mood-node/internal/infrastructure/mqtt"
	"github.com/nerrad567/mood-node/internal/notify"
	"github.com/nerrad567/mood-node/internal/onem2m"
	"github.com/nerrad567/mood-node/internal/provision"
	"github.com/nerrad567/mood-node/internal/sensor"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting mood node",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build transducer drivers
	driverSet, err := drivers.New(cfg.Drivers, log)
	if err != nil {
		return fmt.Errorf("building drivers: %w", err)
	}
	log.Info("drivers initialised", "mode", cfg.Drivers.Mode)

	// oneM2M sync client
	paths := onem2m.BuildPaths(cfg.CSE)
	syncClient := onem2m.NewClient(cfg.CSE, paths)
	syncClient.SetLogger(log)
	log.Info("sync client initialised",
		"cse", paths.Base+paths.CSE,
		"originator", cfg.CSE.Originator,
	)

	// Connect to MQTT broker (optional diagnostics channel)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional telemetry sink)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Provision the CSE resource tree. A CSE that never becomes reachable is
	// fatal; individual resource failures are logged and retried by drift.
	notifyURL := fmt.Sprintf("http://%s:%d/notify", cfg.Listener.AdvertiseIP, cfg.Listener.Port)
	provisioner := provision.New(syncClient, cfg.CSE, cfg.Sensors, cfg.Actuator, notifyURL)
	provisioner.SetLogger(log)

	report, err := provisioner.Run(ctx)
	if err != nil {
		return fmt.Errorf("provisioning: %w", err)
	}
	log.Info("resource tree provisioned", "ok", report.AllOK(), "notify_url", notifyURL)
	publishProvisioningReport(mqttClient, report, log)

	// Shared actuator state and physical refresh loop
	lampState := actuator.NewState()
	refresher := actuator.NewRefresher(lampState, driverSet.Lamp, cfg.Actuator.GetRefreshInterval())
	refresher.SetLogger(log)

	// Sensor channels, each pushing to its own flex-container
	luxChannel := sensor.NewChannel(cfg.Sensors.Lux, driverSet.Lux,
		func(ctx context.Context, value float64) bool {
			return syncClient.Update(ctx, paths.Device(cfg.Sensors.Lux.Name),
				onem2m.AttributeUpdate(onem2m.KeyLuxSensor, "lux", value)).OK
		})
	audioChannel := sensor.NewChannel(cfg.Sensors.Audio, driverSet.Audio,
		func(ctx context.Context, value float64) bool {
			return syncClient.Update(ctx, paths.Device(cfg.Sensors.Audio.Name),
				onem2m.AttributeUpdate(onem2m.KeyAcousticSensor, "louds", value)).OK
		})
	occupancyChannel := sensor.NewBinaryChannel(cfg.Sensors.Occupancy, driverSet.Occupancy,
		func(ctx context.Context, on bool) bool {
			return syncClient.Update(ctx, paths.Device(cfg.Sensors.Occupancy.Name),
				onem2m.AttributeUpdate(onem2m.KeyOccupancySensor, "occ", on)).OK
		})

	for _, ch := range []interface{ SetLogger(sensor.Logger) }{luxChannel, audioChannel, occupancyChannel} {
		ch.SetLogger(log)
	}

	// Occupancy→lamp automation
	if cfg.Sensors.SyncOccupancyToLamp {
		rule := automation.NewOccupancyLampRule(syncClient, paths.LampSwitch(cfg.Actuator.Name))
		rule.SetLogger(log)
		occupancyChannel.SetOnReported(rule.Apply)
		log.Info("occupancy to lamp automation enabled")
	}

	// Notification listener
	listener, err := notify.New(notify.Deps{
		Config:    cfg.Listener,
		Logger:    log,
		Lamp:      lampState,
		Lux:       luxChannel,
		Audio:     audioChannel,
		Occupancy: occupancyChannel,
		Provision: report,
		LampName:  cfg.Actuator.Name,
		NodeID:    cfg.Node.ID,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating notification listener: %w", err)
	}
	if err := listener.Start(ctx); err != nil {
		return fmt.Errorf("starting notification listener: %w", err)
	}
	defer func() {
		if closeErr := listener.Close(); closeErr != nil {
			log.Error("error closing notification listener", "error", closeErr)
		}
	}()

	// Diagnostic fan-out: every raw sample goes to InfluxDB, MQTT and the
	// WebSocket stream, none of which may affect the oneM2M pipeline.
	recorder := buildRecorder(influxClient, mqttClient, listener)
	luxChannel.SetRecorder(recorder)
	audioChannel.SetRecorder(recorder)
	occupancyChannel.SetRecorder(recorder)

	// Lamp changes applied by inbound notifications get the same treatment.
	listener.SetLampRecorder(buildLampRecorder(influxClient, mqttClient))

	// Run the periodic tasks
	go luxChannel.Run(ctx)
	go audioChannel.Run(ctx)
	go occupancyChannel.Run(ctx)
	go refresher.Run(ctx)

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Notification listener
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)

	log.Info("mood node stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MOODNODE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MOODNODE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// publishProvisioningReport publishes the startup report to the diagnostics
// broker, when one is connected.
func publishProvisioningReport(client *mqtt.Client, report *provision.Report, log *logging.Logger) {
	if client == nil {
		return
	}

	payload, err := json.Marshal(report.Summary())
	if err != nil {
		log.Error("marshalling provisioning report", "error", err)
		return
	}
	if err := client.PublishRetained(mqtt.Topics{}.Provisioning(), payload); err != nil {
		log.Warn("publishing provisioning report", "error", err)
	}
}

// fanoutRecorder forwards each raw sample to every configured sink.
type fanoutRecorder struct {
	sinks []sensor.Recorder
}

func (f *fanoutRecorder) RecordSample(channel string, value float64) {
	for _, sink := range f.sinks {
		sink.RecordSample(channel, value)
	}
}

// mqttRecorder publishes samples as retained channel-state messages.
type mqttRecorder struct {
	client *mqtt.Client
	topics mqtt.Topics
}

func (r *mqttRecorder) RecordSample(channel string, value float64) {
	payload, err := json.Marshal(map[string]any{"channel": channel, "value": value})
	if err != nil {
		return
	}
	// Best effort: a disconnected broker must not slow down sampling.
	//nolint:errcheck // diagnostics only
	r.client.PublishRetained(r.topics.ChannelState(channel), payload)
}

// wsRecorder streams samples to connected WebSocket clients.
type wsRecorder struct {
	listener *notify.Server
}

func (r *wsRecorder) RecordSample(channel string, value float64) {
	r.listener.Broadcast("sensor.sample", map[string]any{"channel": channel, "value": value})
}

// buildRecorder assembles the diagnostic sample fan-out from whichever sinks
// are configured.
func buildRecorder(influxClient *influxdb.Client, mqttClient *mqtt.Client, listener *notify.Server) sensor.Recorder {
	fanout := &fanoutRecorder{}
	if influxClient != nil {
		fanout.sinks = append(fanout.sinks, influxClient)
	}
	if mqttClient != nil {
		fanout.sinks = append(fanout.sinks, &mqttRecorder{client: mqttClient})
	}
	fanout.sinks = append(fanout.sinks, &wsRecorder{listener: listener})
	return fanout
}

// lampFanout forwards each lamp state change to every configured sink.
type lampFanout struct {
	sinks []notify.LampRecorder
}

func (f *lampFanout) RecordLampState(name string, on bool, r, g, b uint8) {
	for _, sink := range f.sinks {
		sink.RecordLampState(name, on, r, g, b)
	}
}

// mqttLampRecorder publishes lamp changes as retained actuator-event messages.
type mqttLampRecorder struct {
	client *mqtt.Client
	topics mqtt.Topics
}

func (r *mqttLampRecorder) RecordLampState(name string, on bool, red, green, blue uint8) {
	payload, err := json.Marshal(map[string]any{"on": on, "r": red, "g": green, "b": blue})
	if err != nil {
		return
	}
	// Best effort: a disconnected broker must not delay the acknowledgment.
	//nolint:errcheck // diagnostics only
	r.client.PublishRetained(r.topics.ActuatorState(name), payload)
}

// buildLampRecorder assembles the lamp state fan-out from whichever sinks are
// configured. Returns nil when neither telemetry sink is enabled.
func buildLampRecorder(influxClient *influxdb.Client, mqttClient *mqtt.Client) notify.LampRecorder {
	fanout := &lampFanout{}
	if influxClient != nil {
		fanout.sinks = append(fanout.sinks, influxClient)
	}
	if mqttClient != nil {
		fanout.sinks = append(fanout.sinks, &mqttLampRecorder{client: mqttClient})
	}
	if len(fanout.sinks) == 0 {
		return nil
	}
	return fanout
}
