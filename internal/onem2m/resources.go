package onem2m

// oneM2M resource type identifiers, sent in the Content-Type ty parameter.
const (
	ResourceTypeContainer     = 3
	ResourceTypeSubscription  = 23
	ResourceTypeFlexContainer = 28
)

// Container definition identifiers for the flex-containers this node creates.
const (
	CndLuxSensor       = "org.fhtwmio.common.moduleclass.mioLuxSensor"
	CndAcousticSensor  = "org.onem2m.common.moduleclass.acousticSensor"
	CndOccupancySensor = "org.fhtwmio.common.moduleclass.mioOccupancySensor"
	CndDeviceLight     = "org.onem2m.common.device.deviceLight"
	CndBinarySwitch    = "org.onem2m.common.moduleclass.binarySwitch"
	CndColour          = "org.onem2m.common.moduleclass.colour"
)

// Short-name keys wrapping each resource representation.
const (
	KeyContainer       = "m2m:cnt"
	KeySubscription    = "m2m:sub"
	KeyLuxSensor       = "mio:luxSr"
	KeyAcousticSensor  = "cod:acoSr"
	KeyOccupancySensor = "mio:occSr"
	KeyDeviceLight     = "cod:devLt"
	KeyBinarySwitch    = "cod:binSh"
	KeyColour          = "cod:color"
)

// Container size limits applied to every container this node creates.
const (
	containerMaxByteSize  = 10000
	containerMaxInstances = 10
)

// Subscription event types (oneM2M notificationEventType).
const (
	EventResourceUpdate = 1
	EventResourceDelete = 2
	EventCreateOfChild  = 3
	EventDeleteOfChild  = 4
)

// DefaultSubscriptionEvents is the event set this node watches on actuator
// sub-resources: update, delete, child create, child delete.
var DefaultSubscriptionEvents = []int{
	EventResourceUpdate,
	EventResourceDelete,
	EventCreateOfChild,
	EventDeleteOfChild,
}

// Body is a oneM2M request body: a single short-name key wrapping the
// resource representation.
type Body map[string]any

// Container builds a m2m:cnt creation body.
func Container(name, acp string) Body {
	return Body{
		KeyContainer: map[string]any{
			"rn":   name,
			"acpi": []string{acp},
			"mbs":  containerMaxByteSize,
			"mni":  containerMaxInstances,
		},
	}
}

// SensorDevice builds a sensor flex-container creation body under the given
// short-name key, with its container definition, labels and an initial value
// attribute.
func SensorDevice(key, name, cnd, acp string, labels []string, valueAttr string, initial any) Body {
	return Body{
		key: map[string]any{
			"rn":      name,
			"cnd":     cnd,
			"acpi":    []string{acp},
			"lbl":     labels,
			valueAttr: initial,
		},
	}
}

// LampDevice builds the cod:devLt flex-container creation body.
func LampDevice(name, acp string, labels []string) Body {
	return Body{
		KeyDeviceLight: map[string]any{
			"rn":   name,
			"cnd":  CndDeviceLight,
			"acpi": []string{acp},
			"lbl":  labels,
		},
	}
}

// BinarySwitch builds the cod:binSh sub-resource creation body (initially off).
func BinarySwitch(acp string) Body {
	return Body{
		KeyBinarySwitch: map[string]any{
			"rn":    "binarySwitch",
			"cnd":   CndBinarySwitch,
			"acpi":  []string{acp},
			"state": false,
		},
	}
}

// Colour builds the cod:color sub-resource creation body (initially 0,0,0).
func Colour(acp string) Body {
	return Body{
		KeyColour: map[string]any{
			"rn":    "color",
			"cnd":   CndColour,
			"acpi":  []string{acp},
			"red":   0,
			"green": 0,
			"blue":  0,
		},
	}
}

// AttributeUpdate builds an update body setting a single attribute on the
// resource identified by the given short-name key.
func AttributeUpdate(key, attr string, value any) Body {
	return Body{
		key: map[string]any{
			attr: value,
		},
	}
}

// SwitchState builds a cod:binSh state update body.
func SwitchState(on bool) Body {
	return AttributeUpdate(KeyBinarySwitch, "state", on)
}

// ColourValue builds a cod:color update body.
func ColourValue(r, g, b uint8) Body {
	return Body{
		KeyColour: map[string]any{
			"red":   int(r),
			"green": int(g),
			"blue":  int(b),
		},
	}
}

// Announcement builds an update body adding announce-to/announced-attribute
// fields so the named attributes propagate to the IN-CSE.
func Announcement(key, target string, attrs []string) Body {
	return Body{
		key: map[string]any{
			"at": []string{target},
			"aa": attrs,
		},
	}
}

// Subscription builds a m2m:sub creation body pointing notifications at the
// given target URL for the given event types.
func Subscription(name, notifyURL string, events []int) Body {
	return Body{
		KeySubscription: map[string]any{
			"rn": name,
			"nu": []string{notifyURL},
			"enc": map[string]any{
				"net": events,
			},
		},
	}
}

// Labels builds the standard label set attached to provisioned devices.
func Labels(room, desk, role string) []string {
	return []string{
		"room:" + room,
		"desk:" + desk,
		role,
	}
}
