package events

import "go.uber.org/zap"

// Level is the severity of an emitted event.
type Level int8

const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

// String returns the human-readable name of the level.
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Sink receives diagnostic events from background subsystems.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Emit reports an event. code identifies the event site, cause may be nil.
	Emit(level Level, code int, message string, cause error)
}

// ZapSink forwards events to a zap logger.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink creates a Sink backed by the given logger.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

// Emit logs the event at the matching zap level.
func (s *ZapSink) Emit(level Level, code int, message string, cause error) {
	fields := []zap.Field{zap.Int("code", code)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}

	switch level {
	case Debug:
		s.log.Debug(message, fields...)
	case Info:
		s.log.Info(message, fields...)
	case Warn:
		s.log.Warn(message, fields...)
	case Error:
		s.log.Error(message, fields...)
	case Fatal:
		// Fatal events from background work must not kill the process.
		s.log.Error(message, append(fields, zap.Bool("fatal", true))...)
	}
}

// Nop is a Sink that discards every event.
type Nop struct{}

// Emit does nothing.
func (Nop) Emit(Level, int, string, error) {}
