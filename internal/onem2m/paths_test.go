package onem2m

import (
	"strings"
	"testing"

	"github.com/nerrad567/mood-node/internal/infrastructure/config"
)

func testCSEConfig() config.CSEConfig {
	return config.CSEConfig{
		Host:       "192.168.0.38",
		Port:       8081,
		Name:       "room-mn-cse",
		Originator: "CMoodMonitor",
		AE:         "moodMonitorAE",
		Room:       "Room01",
		Desk:       "Desk01",
	}
}

func TestBuildPaths(t *testing.T) {
	p := BuildPaths(testCSEConfig())

	if p.Base != "http://192.168.0.38:8081" {
		t.Errorf("Base = %q", p.Base)
	}
	if p.CSE != "/room-mn-cse" {
		t.Errorf("CSE = %q", p.CSE)
	}
	if p.AE != "/room-mn-cse/moodMonitorAE" {
		t.Errorf("AE = %q", p.AE)
	}
	if p.Room != "/room-mn-cse/moodMonitorAE/Room01" {
		t.Errorf("Room = %q", p.Room)
	}
	if p.Desk != "/room-mn-cse/moodMonitorAE/Room01/Desk01" {
		t.Errorf("Desk = %q", p.Desk)
	}
}

func TestPaths_DescendantsOfCSERoot(t *testing.T) {
	p := BuildPaths(testCSEConfig())

	for name, path := range map[string]string{
		"AE":         p.AE,
		"Room":       p.Room,
		"Desk":       p.Desk,
		"device":     p.Device("luxSensor"),
		"lampSwitch": p.LampSwitch("lamp"),
		"lampColor":  p.LampColor("lamp"),
	} {
		if !strings.HasPrefix(path, p.CSE+"/") {
			t.Errorf("%s path %q is not a strict descendant of CSE root %q", name, path, p.CSE)
		}
	}
}

func TestPaths_DeviceAndSubResources(t *testing.T) {
	p := BuildPaths(testCSEConfig())

	if got := p.Device("occupancySensor"); got != p.Desk+"/occupancySensor" {
		t.Errorf("Device = %q", got)
	}
	if got := p.LampSwitch("lamp"); got != p.Desk+"/lamp/binarySwitch" {
		t.Errorf("LampSwitch = %q", got)
	}
	if got := p.LampColor("lamp"); got != p.Desk+"/lamp/color" {
		t.Errorf("LampColor = %q", got)
	}
}
