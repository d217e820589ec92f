package lfslog

import (
	"unsafe"

	"github.com/go-stack/stack"
)

// maxFields bounds the fields attached to one message
const maxFields = 8

// Decoder turns a C printf template plus its variadic arguments into one
// composed message for a Sink. A Decoder holds no per-call state and is
// safe for concurrent use; all buffers live on the calling goroutine's
// stack.
type Decoder struct {
	sink       Sink
	callerSkip int // frames above the caller of the public method; <0 disables
}

// Option configures a Decoder
type Option func(*Decoder)

// WithCaller attaches the Go call site as a "caller" field. skip is the
// number of additional frames to skip above the direct caller.
func WithCaller(skip int) Option {
	return func(d *Decoder) {
		d.callerSkip = skip
	}
}

// NewDecoder creates a decoder emitting to sink
func NewDecoder(sink Sink, opts ...Option) *Decoder {
	d := &Decoder{sink: sink, callerSkip: -1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Sink returns the sink messages are emitted to
func (d *Decoder) Sink() Sink {
	return d.sink
}

// Decode composes a message from a hook template and its argument cursor
// and emits it at level. The template carries the trailing "%s" marker the
// hook macros append; it is never rendered.
//
// args must hold exactly the arguments the template implies. That cannot be
// checked here.
func (d *Decoder) Decode(level Level, template []byte, args ArgCursor, fields ...Field) {
	if !d.enabled(level) {
		return
	}
	var plan Plan
	Classify(template, &plan)
	d.emit(level, template, &plan, args, fields, 2)
}

// Logf composes a message from a template without the trailing marker and
// Go argument values, for Go code sharing the C templates.
func (d *Decoder) Logf(level Level, template string, args ...any) {
	d.logf(level, template, args, 2)
}

func (d *Decoder) logf(level Level, template string, args []any, depth int) {
	if !d.enabled(level) {
		return
	}
	body := unsafe.Slice(unsafe.StringData(template), len(template))

	var plan Plan
	classifyBody(body, &plan)
	d.emit(level, body, &plan, NewValues(args...), nil, depth+1)
}

//go:inline
func (d *Decoder) enabled(level Level) bool {
	if e, ok := d.sink.(LevelEnabler); ok {
		return e.Enabled(level)
	}
	return true
}

// emit composes the message and hands it to the sink. depth is the number
// of frames between emit and the code that called into the decoder.
func (d *Decoder) emit(level Level, template []byte, plan *Plan, args ArgCursor, fields []Field, depth int) {
	// Stack allocated message buffer
	var buf Buffer
	compose(&buf, template, plan, args)

	var fs [maxFields]Field
	n := copy(fs[:], fields)
	if d.callerSkip >= 0 && n < len(fs) {
		fs[n] = String("caller", stack.Caller(depth+d.callerSkip).String())
		n++
	}

	d.sink.Emit(level, buf.Bytes(), fs[:n])
}

// compose interleaves literal segments with rendered argument values.
// Fragments that do not fit are dropped; unrenderable values are skipped.
func compose(buf *Buffer, template []byte, plan *Plan, args ArgCursor) {
	var scratch [fragCap]byte

	segs := plan.Segments()
	specs := plan.Specs()

	if len(segs) > 0 {
		buf.Append(segs[0].Bytes(template))
	}
	for i, spec := range specs {
		if frag, ok := extract(&scratch, template, spec, args); ok {
			buf.Append(frag)
		}
		if i+1 < len(segs) {
			buf.Append(segs[i+1].Bytes(template))
		}
	}
}
