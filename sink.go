package lfslog

// Sink is the leveled destination for composed messages. msg is only valid
// for the duration of the call; a sink that keeps it must copy it. Emit is
// called once per decoded message, possibly from several goroutines.
type Sink interface {
	Emit(level Level, msg []byte, fields []Field)
}

// LevelEnabler is implemented by sinks that can report up front whether a
// level would be dropped, letting the decoder skip the work.
type LevelEnabler interface {
	Enabled(level Level) bool
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(level Level, msg []byte, fields []Field)

// Emit calls f
func (f SinkFunc) Emit(level Level, msg []byte, fields []Field) {
	f(level, msg, fields)
}
