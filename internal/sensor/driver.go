package sensor

// Driver reads one sample from a numeric transducer (lux, sound level).
//
// Read is synchronous and called once per tick; implementations bound their
// own hardware timeout. A returned error skips the tick without touching
// channel state.
type Driver interface {
	Read() (float64, error)
}

// BinaryDriver reads one sample from a presence-style transducer.
type BinaryDriver interface {
	Read() (bool, error)
}

// Logger is the logging interface used by channels.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder receives every raw sample for telemetry. Implementations must not
// block; channels call it on their own tick goroutine.
type Recorder interface {
	RecordSample(channel string, value float64)
}
