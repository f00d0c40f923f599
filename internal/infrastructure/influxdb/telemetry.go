package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordSample records one raw sensor reading.
//
// Every tick is recorded, including readings the deadband later suppresses,
// so a dashboard shows the true signal rather than the filtered one. The
// write is non-blocking; data is batched and sent asynchronously.
//
// This method satisfies the sensor package's Recorder interface.
//
// Parameters:
//   - channel: Sensor channel name (e.g., "luxSensor")
//   - value: The raw sample (booleans arrive as 0/1)
func (c *Client) RecordSample(channel string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor_samples",
		map[string]string{
			"channel": channel,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordLampState records a lamp state change driven by an inbound
// notification.
//
// Parameters:
//   - name: Actuator name (e.g., "lamp")
//   - on: Power state after the change
//   - r, g, b: Colour after the change
func (c *Client) RecordLampState(name string, on bool, r, g, b uint8) {
	if !c.IsConnected() {
		return
	}

	onVal := 0
	if on {
		onVal = 1
	}

	point := write.NewPoint(
		"actuator_state",
		map[string]string{
			"actuator": name,
		},
		map[string]interface{}{
			"on":    onVal,
			"red":   int(r),
			"green": int(g),
			"blue":  int(b),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
