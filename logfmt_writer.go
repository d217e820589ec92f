package lfslog

import (
	"io"
	"sync"
	"time"
)

// LogfmtWriter decodes binary records and writes logfmt lines
// logfmt is human-readable and machine-parseable: key=value pairs
type LogfmtWriter struct {
	out io.Writer
	buf sync.Pool
}

// NewLogfmtWriter creates a new logfmt writer
func NewLogfmtWriter(out io.Writer) *LogfmtWriter {
	return &LogfmtWriter{
		out: out,
		buf: sync.Pool{
			New: func() interface{} {
				b := make([]byte, 0, 512)
				return &b
			},
		},
	}
}

// Write decodes one record and writes it as a logfmt line
func (w *LogfmtWriter) Write(b []byte) (int, error) {
	r, err := ParseRecord(b)
	if err != nil {
		return 0, err
	}

	// Get buffer from pool
	bufPtr := w.buf.Get().(*[]byte)
	buf := (*bufPtr)[:0]
	defer func() {
		*bufPtr = buf
		w.buf.Put(bufPtr)
	}()

	buf = append(buf, "time="...)
	buf = time.Unix(0, int64(r.Time)).UTC().AppendFormat(buf, time.RFC3339Nano)

	buf = append(buf, " level="...)
	buf = append(buf, r.Level.String()...)

	buf = append(buf, " msg="...)
	buf = appendQuoted(buf, r.Msg)

	r.EachField(func(f RecordField) {
		buf = append(buf, ' ')
		buf = append(buf, f.Key...)
		buf = append(buf, '=')
		if f.Type == FieldTypeString {
			buf = appendQuoted(buf, f.Str)
		} else {
			buf = f.AppendValue(buf)
		}
	})

	buf = append(buf, '\n')

	if _, err := w.out.Write(buf); err != nil {
		return 0, err
	}
	return len(b), nil
}

// appendQuoted appends s, quoted if it is empty or contains spaces or
// special characters
func appendQuoted(buf []byte, s []byte) []byte {
	needsQuotes := len(s) == 0
	for _, c := range s {
		if c == ' ' || c == '"' || c == '=' || c == '\\' || c == '\n' || c == '\r' || c == '\t' {
			needsQuotes = true
			break
		}
	}

	if !needsQuotes {
		return append(buf, s...)
	}

	buf = append(buf, '"')
	for _, c := range s {
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
