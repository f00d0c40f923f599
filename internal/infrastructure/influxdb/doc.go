// Package influxdb records the mood node's local telemetry in InfluxDB v2.
//
// Like MQTT, this is an optional diagnostics sink layered beside the oneM2M
// pipeline: raw sensor samples (before deadband filtering) and lamp state
// changes are recorded so a local dashboard can plot them. The CSE remains
// the system of record; disabling this package changes nothing about node
// behaviour.
//
// Writes are non-blocking and batched by the underlying client, so recording
// a sample never delays a sensor tick.
package influxdb
