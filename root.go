package lfslog

import (
	"sync/atomic"
)

// defaultDecoder is the process-wide decoder used by the package-level
// functions. It is ready at init; replace it with SetDefault before any
// hooks run.
var defaultDecoder atomic.Pointer[Decoder]

func init() {
	logger := NewLogger()
	logger.SetWriter(StderrTerminal())
	defaultDecoder.Store(NewDecoder(logger))
}

// Default returns the current default decoder
func Default() *Decoder {
	return defaultDecoder.Load()
}

// SetDefault sets the default decoder
func SetDefault(d *Decoder) {
	defaultDecoder.Store(d)
}

// Tracef decodes a C template with Go values at trace level using the default decoder
func Tracef(template string, args ...any) {
	Default().logf(LevelTrace, template, args, 2)
}

// Debugf decodes a C template with Go values at debug level using the default decoder
func Debugf(template string, args ...any) {
	Default().logf(LevelDebug, template, args, 2)
}

// Warnf decodes a C template with Go values at warn level using the default decoder
func Warnf(template string, args ...any) {
	Default().logf(LevelWarn, template, args, 2)
}

// Errorf decodes a C template with Go values at error level using the default decoder
func Errorf(template string, args ...any) {
	Default().logf(LevelError, template, args, 2)
}
