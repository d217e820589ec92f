package lfslog

import (
	"github.com/rs/zerolog"
)

// ZerologSink emits decoded messages through a zerolog logger
type ZerologSink struct {
	l zerolog.Logger
}

// NewZerologSink wraps l
func NewZerologSink(l zerolog.Logger) *ZerologSink {
	return &ZerologSink{l: l}
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelTrace:
		return zerolog.TraceLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Enabled reports whether the logger and the global zerolog level accept level
func (s *ZerologSink) Enabled(level Level) bool {
	zl := zerologLevel(level)
	return zl >= s.l.GetLevel() && zl >= zerolog.GlobalLevel()
}

// Emit writes msg with fields attached to the event
func (s *ZerologSink) Emit(level Level, msg []byte, fields []Field) {
	e := s.l.WithLevel(zerologLevel(level))
	if e == nil {
		return
	}
	for _, f := range fields {
		switch f.Type {
		case FieldTypeInt:
			e = e.Int64(f.Key, f.Int64())
		case FieldTypeUint:
			e = e.Uint64(f.Key, f.Uint64())
		case FieldTypeBool:
			e = e.Bool(f.Key, f.Bool())
		default:
			e = e.Str(f.Key, f.Str())
		}
	}
	e.Msg(string(msg))
}
