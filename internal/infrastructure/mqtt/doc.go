// Package mqtt publishes the mood node's diagnostic telemetry to an MQTT
// broker.
//
// The node is a oneM2M device first; MQTT is a purely optional side channel
// for local monitoring. When enabled, the node announces its own liveness on
// a retained system status topic (with a Last Will for crash detection) and
// publishes sensor samples and actuator state changes as they happen. Nothing
// in the node subscribes to MQTT: commands arrive only via oneM2M
// notifications.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil { ... }
//	defer client.Close()
//
//	topics := mqtt.Topics{}
//	client.PublishRetained(topics.ChannelState("luxSensor"), payload)
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package mqtt
