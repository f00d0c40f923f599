package onem2m

import (
	"fmt"

	"github.com/nerrad567/mood-node/internal/infrastructure/config"
)

// Paths is the resource path hierarchy this node provisions and updates.
//
// All paths are strict descendants of the CSE root. A Paths value is built
// once at startup from the naming configuration and never mutated; it is
// safe to share across goroutines.
type Paths struct {
	// Base is the CSE base URL, e.g. "http://192.168.0.38:8081".
	Base string

	// CSE is the CSE root path, e.g. "/room-mn-cse".
	CSE string

	// AE is the application entity path under the CSE root.
	AE string

	// Room is the room container path under the AE.
	Room string

	// Desk is the desk container path under the room.
	Desk string
}

// BuildPaths constructs the path hierarchy from the CSE naming configuration.
func BuildPaths(cfg config.CSEConfig) Paths {
	cse := "/" + cfg.Name
	ae := cse + "/" + cfg.AE
	room := ae + "/" + cfg.Room
	desk := room + "/" + cfg.Desk

	return Paths{
		Base: fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		CSE:  cse,
		AE:   ae,
		Room: room,
		Desk: desk,
	}
}

// Device returns the path of a sensor or actuator flex-container on the desk.
func (p Paths) Device(name string) string {
	return p.Desk + "/" + name
}

// LampSwitch returns the path of the lamp's binarySwitch sub-resource.
func (p Paths) LampSwitch(lampName string) string {
	return p.Device(lampName) + "/binarySwitch"
}

// LampColor returns the path of the lamp's color sub-resource.
func (p Paths) LampColor(lampName string) string {
	return p.Device(lampName) + "/color"
}

// AccessControlPolicy returns the ACP reference created resources point at.
func (p Paths) AccessControlPolicy(cseName string) string {
	return cseName + "/acpMoodMonitor"
}
