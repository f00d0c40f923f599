package actuator

import "sync"

// Color is an RGB triple, each component 0–255.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// State is the mutex-guarded local mirror of the lamp.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The raw fields are never
//     exposed outside a lock-scoped accessor.
type State struct {
	mu      sync.Mutex
	powerOn bool
	color   Color
}

// NewState creates a lamp state mirror, initially off with no colour.
func NewState() *State {
	return &State{}
}

// SetPower updates the power state, preserving the current colour.
func (s *State) SetPower(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powerOn = on
}

// SetColor updates the colour, preserving the current power state.
func (s *State) SetColor(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
}

// Get returns a consistent copy of the power and colour state.
func (s *State) Get() (powerOn bool, color Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powerOn, s.color
}

// Snapshot is a point-in-time view of the lamp for status queries.
type Snapshot struct {
	PowerOn bool  `json:"power_on"`
	Color   Color `json:"color"`
}

// Snapshot returns the lamp state for the status API.
func (s *State) Snapshot() Snapshot {
	on, c := s.Get()
	return Snapshot{PowerOn: on, Color: c}
}
