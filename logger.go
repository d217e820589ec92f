// Package lfslog decodes the printf-style trace, debug, warn and error
// hooks of an embedded C filesystem library into leveled log messages,
// with zero allocations on the decode path.
package lfslog

import (
	"io"
	"os"
	"sync/atomic"
	"time"
	"unsafe"
)

// CacheLineSize for padding
const CacheLineSize = 64

// Logger is the built-in Sink. It encodes each message as a binary record
// and hands it to an io.Writer such as TerminalWriter or LogfmtWriter.
type Logger struct {
	level    Level          // 1 byte - minimum level
	_        [7]byte        // 7 bytes padding for alignment
	writer   unsafe.Pointer // 8 bytes - *io.Writer
	sequence atomic.Uint64  // 8 bytes - record sequence number
	_        [40]byte       // 40 bytes padding to 64 bytes
}

// NewLogger creates a logger at LevelDebug writing records to stdout
func NewLogger() *Logger {
	l := &Logger{}
	l.SetLevel(LevelDebug)
	l.SetWriter(os.Stdout)
	return l
}

// SetLevel sets the minimum level
// Note: This is not thread-safe - set level during initialization only
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// GetLevel gets the minimum level
func (l *Logger) GetLevel() Level {
	return l.level
}

// SetWriter atomically sets the writer
func (l *Logger) SetWriter(w io.Writer) {
	atomic.StorePointer(&l.writer, unsafe.Pointer(&w))
}

// Enabled reports whether records at level are written
//
//go:inline
func (l *Logger) Enabled(level Level) bool {
	return l.level <= level
}

// getWriter gets the current writer
//
//go:inline
func (l *Logger) getWriter() io.Writer {
	return *(*io.Writer)(atomic.LoadPointer(&l.writer))
}

// Emit writes one record. Write errors are dropped: logging never fails
// the caller.
//
//go:noinline
func (l *Logger) Emit(level Level, msg []byte, fields []Field) {
	if !l.Enabled(level) {
		return
	}

	// Stack allocated buffer
	var buf [recordCap]byte
	n := encodeRecord(&buf, level, l.sequence.Add(1), uint64(time.Now().UnixNano()), msg, fields)

	l.getWriter().Write(buf[:n])
}

// Log writes msg directly, bypassing template decoding
func (l *Logger) Log(level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}
	l.Emit(level, unsafe.Slice(unsafe.StringData(msg), len(msg)), fields)
}

// Built-in writers

// StdoutWriter writes to stdout
var StdoutWriter io.Writer = os.Stdout

// StderrWriter writes to stderr
var StderrWriter io.Writer = os.Stderr

// DiscardWriter discards all output
var DiscardWriter io.Writer = io.Discard
