package lfslog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

// Color codes for terminal output
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// Pre-allocated spaces for padding
var spaces = []byte("                                        ") // 40 spaces

// Pre-allocated level strings and colors
var (
	levelStrings = [5][]byte{
		[]byte("TRACE"),
		[]byte("DEBUG"),
		[]byte("WARN "),
		[]byte("ERROR"),
		[]byte("UNKN "),
	}

	levelColors = [5][]byte{
		[]byte(colorGray),
		[]byte(colorCyan),
		[]byte(colorYellow),
		[]byte(colorRed),
		[]byte(""),
	}

	colorResetBytes = []byte(colorReset)
)

// TerminalWriter decodes binary records and writes human readable lines
type TerminalWriter struct {
	out        io.Writer
	useColor   bool
	timeFormat string

	// Pre-allocated buffer - reused for each write
	buf []byte
	mu  sync.Mutex
}

// NewTerminalWriter creates a terminal writer. Colour is enabled when out
// is a terminal.
func NewTerminalWriter(out io.Writer) *TerminalWriter {
	useColor := false
	if f, ok := out.(*os.File); ok {
		fd := f.Fd()
		useColor = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	return &TerminalWriter{
		out:        out,
		useColor:   useColor,
		timeFormat: termTimeFormat,
		buf:        make([]byte, 0, 1024),
	}
}

// newColorTerminal wraps f so ANSI colours also render on Windows consoles
func newColorTerminal(f *os.File) *TerminalWriter {
	w := NewTerminalWriter(f)
	if w.useColor {
		w.out = colorable.NewColorable(f)
	}
	return w
}

// Write decodes one record and writes it as a line
func (w *TerminalWriter) Write(b []byte) (int, error) {
	r, err := ParseRecord(b)
	if err != nil {
		return 0, err
	}

	level := r.Level
	if level > LevelError {
		level = LevelError + 1
	}

	// Lock to use our pre-allocated buffer
	w.mu.Lock()
	defer w.mu.Unlock()

	buf := w.buf[:0]

	// Format level with color
	if w.useColor {
		buf = append(buf, levelColors[level]...)
		buf = append(buf, levelStrings[level]...)
		buf = append(buf, colorResetBytes...)
	} else {
		buf = append(buf, levelStrings[level]...)
	}

	// Format timestamp
	buf = append(buf, '[')
	buf = time.Unix(0, int64(r.Time)).AppendFormat(buf, w.timeFormat)
	buf = append(buf, "] "...)

	buf = append(buf, r.Msg...)

	// Add padding if we have fields
	if r.nfields > 0 && len(r.Msg) < termMsgJust {
		buf = append(buf, spaces[:termMsgJust-len(r.Msg)]...)
	}

	first := true
	r.EachField(func(f RecordField) {
		if !first {
			buf = append(buf, ' ')
		}
		first = false

		if w.useColor {
			buf = append(buf, levelColors[level]...)
			buf = append(buf, f.Key...)
			buf = append(buf, colorResetBytes...)
		} else {
			buf = append(buf, f.Key...)
		}
		buf = append(buf, '=')
		if f.Type == FieldTypeString {
			buf = escapeString(buf, f.Str)
		} else {
			buf = f.AppendValue(buf)
		}
	})

	buf = append(buf, '\n')

	// Save expanded buffer for reuse
	w.buf = buf

	if _, err := w.out.Write(buf); err != nil {
		return 0, err
	}
	return len(b), nil
}

// escapeString quotes s when it contains spaces or control characters
func escapeString(buf []byte, s []byte) []byte {
	// Fast path - check if escaping needed
	needsEscape := len(s) == 0
	for _, b := range s {
		if b == '"' || b == '\\' || b == '\n' || b == '\r' || b == '\t' || b == ' ' || b == '=' {
			needsEscape = true
			break
		}
	}

	if !needsEscape {
		return append(buf, s...)
	}

	buf = append(buf, '"')
	for _, b := range s {
		switch b {
		case '\\':
			buf = append(buf, '\\', '\\')
		case '"':
			buf = append(buf, '\\', '"')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, b)
		}
	}
	return append(buf, '"')
}

// StdoutTerminal creates a terminal writer for stdout
func StdoutTerminal() io.Writer {
	return newColorTerminal(os.Stdout)
}

// StderrTerminal creates a terminal writer for stderr
func StderrTerminal() io.Writer {
	return newColorTerminal(os.Stderr)
}
