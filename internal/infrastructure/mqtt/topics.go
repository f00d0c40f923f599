package mqtt

import "fmt"

// Topic prefixes for mood node diagnostics.
//
// Scheme: moodnode/{category}/{subject}
const (
	// TopicPrefix is the base for all mood node topics.
	TopicPrefix = "moodnode"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "moodnode/system"
)

// Topics provides builders for mood node MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	topics.ChannelState("luxSensor") // "moodnode/state/luxSensor"
type Topics struct{}

// SystemStatus returns the retained node liveness topic.
//
// Example: moodnode/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// ChannelState returns the topic carrying one sensor channel's samples.
//
// Example: moodnode/state/luxSensor
func (Topics) ChannelState(channel string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, channel)
}

// ActuatorState returns the topic carrying lamp state changes.
//
// Example: moodnode/event/lamp
func (Topics) ActuatorState(name string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefix, name)
}

// Provisioning returns the topic carrying the startup provisioning report.
//
// Example: moodnode/system/provisioning
func (Topics) Provisioning() string {
	return TopicPrefixSystem + "/provisioning"
}
