package lfslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink emits decoded messages through a zap logger. zap has no trace
// level; trace messages are logged at debug with a "trace" field.
type ZapSink struct {
	l *zap.Logger
}

// NewZapSink wraps l
func NewZapSink(l *zap.Logger) *ZapSink {
	return &ZapSink{l: l}
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelTrace, LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Enabled reports whether the zap core accepts level
func (s *ZapSink) Enabled(level Level) bool {
	return s.l.Core().Enabled(zapLevel(level))
}

// Emit writes msg with fields converted to zap fields
func (s *ZapSink) Emit(level Level, msg []byte, fields []Field) {
	ce := s.l.Check(zapLevel(level), string(msg))
	if ce == nil {
		return
	}

	var zf [maxFields + 1]zap.Field
	n := 0
	if level == LevelTrace {
		zf[n] = zap.Bool("trace", true)
		n++
	}
	for _, f := range fields {
		if n == len(zf) {
			break
		}
		switch f.Type {
		case FieldTypeInt:
			zf[n] = zap.Int64(f.Key, f.Int64())
		case FieldTypeUint:
			zf[n] = zap.Uint64(f.Key, f.Uint64())
		case FieldTypeBool:
			zf[n] = zap.Bool(f.Key, f.Bool())
		default:
			zf[n] = zap.String(f.Key, f.Str())
		}
		n++
	}
	ce.Write(zf[:n]...)
}
