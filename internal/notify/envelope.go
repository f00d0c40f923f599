package notify

import "encoding/json"

// Envelope is the outer shell of a oneM2M notification delivered to the
// listener. The CSE wraps every delivery in an "m2m:sgn" signal object.
type Envelope struct {
	Signal *Signal `json:"m2m:sgn"`
}

// Signal carries either a subscription-verification request or an event
// notification. When Verification is true the CSE is probing the notification
// target and expects an immediate acknowledgment; the nev member is kept raw
// so a handshake is answered on the verification flag alone, whatever else
// the CSE packed into the delivery.
type Signal struct {
	Verification bool            `json:"vrq"`
	Event        json.RawMessage `json:"nev,omitempty"`
	Subscription string          `json:"sur,omitempty"`
}

// Event holds the notified resource representation.
type Event struct {
	Representation Representation `json:"rep"`
}

// Representation is the modified resource embedded in an event notification.
// Only the sub-resources the node subscribes to are decoded; anything else in
// the representation is ignored.
type Representation struct {
	BinarySwitch *BinarySwitch `json:"cod:binSh"`
	Colour       *Colour       `json:"cod:color"`
}

// BinarySwitch is the cod:binSh flexContainer payload.
type BinarySwitch struct {
	State bool `json:"state"`
}

// Colour is the cod:color flexContainer payload. Components arrive as plain
// JSON numbers and may be out of the displayable range; clampComponent
// normalises them before they reach the actuator.
type Colour struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// clampComponent bounds a colour component to the 0–255 range.
func clampComponent(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
