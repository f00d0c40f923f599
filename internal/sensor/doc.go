// Package sensor implements the periodic sampling and deadband-gating
// pattern shared by every sensor channel on the node.
//
// Each channel owns one goroutine that, on a strict cadence: reads its
// driver, stores the raw value, and pushes upstream only when the value has
// moved at least the configured threshold away from the last successfully
// reported value (for boolean channels, whenever the state changed). The
// reported baseline advances only on a confirmed push, so a failed push is
// retried implicitly as the physical value keeps drifting.
//
// Channels never hold their lock across a push: state is copied out, the
// network call runs unlocked, and the outcome is written back under a fresh
// acquisition.
package sensor
